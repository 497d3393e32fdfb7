package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Errores del núcleo de kardex.
	ErrProductNotFound      = errors.New("producto no encontrado o inactivo")
	ErrInvalidAdjustment    = errors.New("ajuste de inventario inválido")
	ErrInvalidTransfer      = errors.New("traslado inválido: origen y destino iguales")
	ErrTransferNotPending   = errors.New("el traslado no está pendiente")
	ErrPurchaseNotPending   = errors.New("la compra no está pendiente")
	ErrPendingTransfers     = errors.New("el producto tiene traslados pendientes")
	ErrOperationTimedOut    = errors.New("la operación excedió el tiempo límite")
	ErrConsistencyViolation = errors.New("violación de consistencia entre kardex y stock")
)

// InsufficientStockError detalla el stock disponible frente al solicitado.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en bodega %s: disponible %d, solicitado %d",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ConsistencyError reporta una divergencia entre la suma del kardex y el stock del producto.
// Indica un bug: se expone, nunca se corrige en silencio.
type ConsistencyError struct {
	ProductID    string
	ProductStock int64
	LedgerTotal  int64
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("kardex inconsistente para producto %s: stock %d, suma de movimientos %d",
		e.ProductID, e.ProductStock, e.LedgerTotal)
}

func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistencyViolation
}
