package repository

import (
	"context"
	"iter"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// LedgerFilter filtros para recorrer el kardex de un producto.
type LedgerFilter struct {
	From        *time.Time
	To          *time.Time
	Kinds       []entity.MovementKind
	WarehouseID string
}

// Matches indica si el movimiento cumple el filtro.
func (f LedgerFilter) Matches(e *entity.LedgerEntry) bool {
	if f.From != nil && e.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.CreatedAt.After(*f.To) {
		return false
	}
	if f.WarehouseID != "" && e.WarehouseID != f.WarehouseID {
		return false
	}
	if len(f.Kinds) == 0 {
		return true
	}
	for _, k := range f.Kinds {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// LedgerRepository puerto del kardex: solo anexar, nunca editar ni borrar.
type LedgerRepository interface {
	// Append persiste un movimiento dentro de la unidad de trabajo del caller; asigna ID y Seq.
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// SumByProduct suma todos los deltas del producto (auditoría y conciliación).
	SumByProduct(ctx context.Context, productID string) (int64, error)
	// SumPendingByProduct suma los deltas aún pendientes (salidas de traslados sin completar).
	SumPendingByProduct(ctx context.Context, productID string) (int64, error)
	// ListByProduct secuencia perezosa, reiniciable, del más reciente al más antiguo.
	ListByProduct(ctx context.Context, productID string, filter LedgerFilter) iter.Seq2[entity.LedgerEntry, error]
	ListByReference(ctx context.Context, referenceID string) ([]*entity.LedgerEntry, error)
	// FinalizePending pasa a final los movimientos pendientes de la referencia y tipo dados.
	FinalizePending(ctx context.Context, referenceID string, kind entity.MovementKind) (int64, error)
}
