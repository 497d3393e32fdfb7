package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados entre bodegas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create inserta el traslado y sus líneas.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transfers (id, source_warehouse_id, dest_warehouse_id, status, actor_id, created_at, completed_at, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.SourceWarehouseID, t.DestWarehouseID, string(t.Status), t.ActorID, t.CreatedAt, t.CompletedAt, t.CancelledAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrDuplicate)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrInvalidTransfer)
		}
		return fmt.Errorf("insert transfer: %w", err)
	}

	b := &pgx.Batch{}
	for i, l := range t.Lines {
		b.Queue(`INSERT INTO transfer_lines (transfer_id, line_no, product_id, quantity) VALUES ($1, $2, $3, $4)`,
			t.ID, i+1, l.ProductID, l.Quantity)
	}
	return execBatch(ctx, r.q, b, "insert transfer line")
}

// GetForUpdate devuelve el traslado con sus líneas bloqueando la cabecera (nil, nil si no existe).
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	var t entity.Transfer
	err := r.q.QueryRow(ctx, `
		SELECT id, source_warehouse_id, dest_warehouse_id, status, actor_id, created_at, completed_at, cancelled_at
		FROM transfers WHERE id = $1 FOR UPDATE`, id,
	).Scan(&t.ID, &t.SourceWarehouseID, &t.DestWarehouseID, &t.Status, &t.ActorID, &t.CreatedAt, &t.CompletedAt, &t.CancelledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}

	rows, err := r.q.Query(ctx,
		`SELECT product_id, quantity FROM transfer_lines WHERE transfer_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("list transfer lines: %w", err)
	}
	lines, err := pgx.CollectRows(rows, pgx.RowToStructByPos[entity.TransferLine])
	if err != nil {
		return nil, fmt.Errorf("scan transfer lines: %w", err)
	}
	t.Lines = lines
	return &t, nil
}

// UpdateStatus persiste estado y marcas de tiempo de cierre.
func (r *TransferRepo) UpdateStatus(ctx context.Context, t *entity.Transfer) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE transfers SET status = $2, completed_at = $3, cancelled_at = $4 WHERE id = $1`,
		t.ID, string(t.Status), t.CompletedAt, t.CancelledAt,
	)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}
