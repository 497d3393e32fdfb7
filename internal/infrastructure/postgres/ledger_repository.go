package postgres

import (
	"context"
	"fmt"
	"iter"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// ledgerPageSize filas por página al recorrer el kardex de un producto.
const ledgerPageSize = 100

const ledgerColumns = `id, seq, product_id, warehouse_id, delta, kind, COALESCE(reference_id, ''),
	COALESCE(reverses_id, ''), COALESCE(actor_id, ''), COALESCE(reason, ''), stock_before, stock_after, state, created_at`

// LedgerRepo kardex sobre PostgreSQL. La tabla solo admite INSERT; un trigger rechaza
// cualquier UPDATE distinto de pending -> final y todo DELETE.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func scanLedgerEntry(row pgx.Row, e *entity.LedgerEntry) error {
	return row.Scan(&e.ID, &e.Seq, &e.ProductID, &e.WarehouseID, &e.Delta, &e.Kind, &e.ReferenceID,
		&e.ReversesID, &e.ActorID, &e.Reason, &e.StockBefore, &e.StockAfter, &e.State, &e.CreatedAt)
}

// Append persiste un movimiento; asigna ID si falta y Seq desde la secuencia.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	if e.Delta == 0 {
		return fmt.Errorf("movimiento con delta cero: %w", domain.ErrInvalidInput)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("tipo de movimiento %q: %w", e.Kind, domain.ErrInvalidInput)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.State == "" {
		e.State = entity.EntryFinal
	}
	query := `
		INSERT INTO ledger_entries (id, product_id, warehouse_id, delta, kind, reference_id, reverses_id,
			actor_id, reason, stock_before, stock_after, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		e.ID, e.ProductID, e.WarehouseID, e.Delta, string(e.Kind), nullIfEmpty(e.ReferenceID),
		nullIfEmpty(e.ReversesID), nullIfEmpty(e.ActorID), nullIfEmpty(e.Reason),
		e.StockBefore, e.StockAfter, string(e.State), e.CreatedAt,
	).Scan(&e.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("movimiento %s: %w", e.ID, domain.ErrDuplicate)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("movimiento %s: %w", e.ID, domain.ErrInvalidInput)
		}
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// SumByProduct suma todos los deltas del producto.
func (r *LedgerRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0)::bigint FROM ledger_entries WHERE product_id = $1`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum ledger: %w", err)
	}
	return total, nil
}

// SumPendingByProduct suma los deltas pendientes del producto.
func (r *LedgerRepo) SumPendingByProduct(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(delta), 0)::bigint FROM ledger_entries WHERE product_id = $1 AND state = 'pending'`,
		productID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum pending ledger: %w", err)
	}
	return total, nil
}

// ListByProduct recorre el kardex del más reciente al más antiguo por páginas (keyset sobre seq).
// Cada página se lee completa antes de entregarla: dentro de una tx la conexión no puede
// quedar ocupada mientras el consumidor procesa.
func (r *LedgerRepo) ListByProduct(ctx context.Context, productID string, filter repository.LedgerFilter) iter.Seq2[entity.LedgerEntry, error] {
	kinds := make([]string, 0, len(filter.Kinds))
	for _, k := range filter.Kinds {
		kinds = append(kinds, string(k))
	}
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE product_id = $1 AND seq < $2
			AND ($3::timestamptz IS NULL OR created_at >= $3)
			AND ($4::timestamptz IS NULL OR created_at <= $4)
			AND ($5::text = '' OR warehouse_id = $5)
			AND (COALESCE(cardinality($6::text[]), 0) = 0 OR kind = ANY($6))
		ORDER BY seq DESC
		LIMIT $7`

	return func(yield func(entity.LedgerEntry, error) bool) {
		cursor := int64(math.MaxInt64)
		for {
			rows, err := r.q.Query(ctx, query, productID, cursor, filter.From, filter.To, filter.WarehouseID, kinds, ledgerPageSize)
			if err != nil {
				yield(entity.LedgerEntry{}, fmt.Errorf("list ledger: %w", err))
				return
			}
			page, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.LedgerEntry, error) {
				var e entity.LedgerEntry
				err := scanLedgerEntry(row, &e)
				return e, err
			})
			if err != nil {
				yield(entity.LedgerEntry{}, fmt.Errorf("scan ledger: %w", err))
				return
			}
			for _, e := range page {
				if !yield(e, nil) {
					return
				}
			}
			if len(page) < ledgerPageSize {
				return
			}
			cursor = page[len(page)-1].Seq
		}
	}
}

// ListByReference movimientos de una compra, venta o traslado en orden de creación.
func (r *LedgerRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries WHERE reference_id = $1 ORDER BY seq`,
		referenceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger by reference: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := scanLedgerEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// FinalizePending única actualización permitida sobre el kardex.
func (r *LedgerRepo) FinalizePending(ctx context.Context, referenceID string, kind entity.MovementKind) (int64, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE ledger_entries SET state = 'final' WHERE reference_id = $1 AND kind = $2 AND state = 'pending'`,
		referenceID, string(kind),
	)
	if err != nil {
		return 0, fmt.Errorf("finalize pending: %w", err)
	}
	return cmd.RowsAffected(), nil
}
