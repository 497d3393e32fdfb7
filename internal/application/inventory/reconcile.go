package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

// DefaultReconcileWorkers concurrencia por defecto de ReconcileAll.
const DefaultReconcileWorkers = 4

// ReconcileReport resultado de conciliar un producto contra su kardex.
// Consistent exige ProductStock == LedgerTotal - PendingTotal y ProductStock == WarehouseTotal.
type ReconcileReport struct {
	ProductID      string
	ProductStock   int64
	WarehouseTotal int64
	LedgerTotal    int64
	PendingTotal   int64
	Consistent     bool
}

// Reconcile compara el stock del producto con la suma de sus movimientos liquidados.
// Se lee bajo el bloqueo de fila del producto, de modo que ninguna escritura concurrente
// queda a medias. Una divergencia devuelve el reporte junto con *domain.ConsistencyError.
func (e *MovementEngine) Reconcile(ctx context.Context, productID string) (*ReconcileReport, error) {
	var report *ReconcileReport
	err := e.tx.RunAtomic(ctx, func(ctx context.Context, repos Repositories) error {
		p, err := repos.Products().GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		r := &ReconcileReport{ProductID: p.ID, ProductStock: p.Stock}
		if r.LedgerTotal, err = repos.Ledger().SumByProduct(ctx, productID); err != nil {
			return err
		}
		if r.PendingTotal, err = repos.Ledger().SumPendingByProduct(ctx, productID); err != nil {
			return err
		}
		rows, err := repos.Stock().ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		for _, st := range rows {
			r.WarehouseTotal += st.Quantity
		}
		r.Consistent = inventory.Reconciled(r.ProductStock, r.LedgerTotal, r.PendingTotal) && r.WarehouseTotal == r.ProductStock
		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !report.Consistent {
		e.log.Error().
			Str("product_id", productID).
			Int64("stock", report.ProductStock).
			Int64("warehouse_total", report.WarehouseTotal).
			Int64("ledger_total", report.LedgerTotal).
			Int64("pending_total", report.PendingTotal).
			Msg("kardex inconsistente")
		return report, &domain.ConsistencyError{
			ProductID:    productID,
			ProductStock: report.ProductStock,
			LedgerTotal:  report.LedgerTotal - report.PendingTotal,
		}
	}
	return report, nil
}

// ReconcileAll concilia todos los productos activos con hasta workers goroutines.
// Devuelve todos los reportes; si hubo divergencias el error agrupa los *domain.ConsistencyError.
// Cualquier otro error aborta el recorrido.
func (e *MovementEngine) ReconcileAll(ctx context.Context, workers int) ([]ReconcileReport, error) {
	if workers <= 0 {
		workers = DefaultReconcileWorkers
	}
	ids, err := e.tx.Repositories().Products().ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}

	reports := make([]ReconcileReport, len(ids))
	var (
		mu         sync.Mutex
		violations []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			report, err := e.Reconcile(gctx, id)
			if errors.Is(err, domain.ErrProductNotFound) {
				// Desactivado después de listar.
				return nil
			}
			if err != nil && !errors.Is(err, domain.ErrConsistencyViolation) {
				return fmt.Errorf("conciliar %s: %w", id, err)
			}
			if err != nil {
				mu.Lock()
				violations = append(violations, err)
				mu.Unlock()
			}
			reports[i] = *report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := reports[:0]
	for _, r := range reports {
		if r.ProductID != "" {
			out = append(out, r)
		}
	}
	return out, errors.Join(violations...)
}
