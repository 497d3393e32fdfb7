package memory

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

type ledgerRepo struct {
	acc access
}

func (r *ledgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	if e.Delta == 0 {
		return fmt.Errorf("movimiento con delta cero: %w", domain.ErrInvalidInput)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("tipo de movimiento %q: %w", e.Kind, domain.ErrInvalidInput)
	}
	return r.acc.write(ctx, func(d *dataset) error {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.State == "" {
			e.State = entity.EntryFinal
		}
		d.seq++
		e.Seq = d.seq
		d.ledger = append(d.ledger, *e)
		return nil
	})
}

func (r *ledgerRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	return r.sum(productID, false)
}

func (r *ledgerRepo) SumPendingByProduct(ctx context.Context, productID string) (int64, error) {
	return r.sum(productID, true)
}

func (r *ledgerRepo) sum(productID string, pendingOnly bool) (int64, error) {
	var total int64
	err := r.acc.read(func(d *dataset) error {
		for i := range d.ledger {
			e := &d.ledger[i]
			if e.ProductID != productID || (pendingOnly && e.State != entity.EntryPending) {
				continue
			}
			total += e.Delta
		}
		return nil
	})
	return total, err
}

// ListByProduct cada recorrido toma una foto de los movimientos y la entrega del más reciente al más antiguo.
func (r *ledgerRepo) ListByProduct(ctx context.Context, productID string, filter repository.LedgerFilter) iter.Seq2[entity.LedgerEntry, error] {
	return func(yield func(entity.LedgerEntry, error) bool) {
		var snapshot []entity.LedgerEntry
		err := r.acc.read(func(d *dataset) error {
			for i := len(d.ledger) - 1; i >= 0; i-- {
				e := d.ledger[i]
				if e.ProductID == productID && filter.Matches(&e) {
					snapshot = append(snapshot, e)
				}
			}
			return nil
		})
		if err != nil {
			yield(entity.LedgerEntry{}, err)
			return
		}
		for _, e := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(entity.LedgerEntry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (r *ledgerRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	err := r.acc.read(func(d *dataset) error {
		for _, e := range d.ledger {
			if e.ReferenceID == referenceID {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	return out, err
}

func (r *ledgerRepo) FinalizePending(ctx context.Context, referenceID string, kind entity.MovementKind) (int64, error) {
	var n int64
	err := r.acc.write(ctx, func(d *dataset) error {
		for i := range d.ledger {
			e := &d.ledger[i]
			if e.ReferenceID == referenceID && e.Kind == kind && e.State == entity.EntryPending {
				e.State = entity.EntryFinal
				n++
			}
		}
		return nil
	})
	return n, err
}
