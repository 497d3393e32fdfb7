package inventory

import "github.com/jhoicas/kardex-api/internal/domain"

// ApplyDelta devuelve el stock resultante de aplicar delta, o error si quedaría negativo.
// El error es *domain.InsufficientStockError con lo disponible frente a lo solicitado.
func ApplyDelta(productID, warehouseID string, current, delta int64) (int64, error) {
	next := current + delta
	if next < 0 {
		return current, &domain.InsufficientStockError{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Available:   current,
			Requested:   -delta,
		}
	}
	return next, nil
}

// Reconciled indica si el stock coincide con la suma de movimientos liquidados.
// Los movimientos pendientes (salidas de traslados sin completar) no afectan el stock todavía.
func Reconciled(stock, ledgerTotal, pendingTotal int64) bool {
	return stock == ledgerTotal-pendingTotal
}
