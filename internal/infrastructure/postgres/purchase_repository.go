package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo compras y sus líneas sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta la cabecera y envía las líneas en un solo batch.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (id, supplier_id, warehouse_id, invoice_number, paid, actor_id, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.SupplierID, p.WarehouseID, p.InvoiceNumber, p.Paid, p.ActorID, string(p.Status), p.Total, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("compra %s: %w", p.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}

	b := &pgx.Batch{}
	for i := range p.Lines {
		l := &p.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.PurchaseID = p.ID
		b.Queue(`
			INSERT INTO purchase_lines (id, purchase_id, line_no, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, p.ID, i+1, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal)
	}
	return execBatch(ctx, r.q, b, "insert purchase line")
}

// GetForUpdate devuelve la compra con sus líneas bloqueando la cabecera (nil, nil si no existe).
func (r *PurchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	var p entity.Purchase
	err := r.q.QueryRow(ctx, `
		SELECT id, supplier_id, warehouse_id, invoice_number, paid, actor_id, status, total, created_at, updated_at
		FROM purchases WHERE id = $1 FOR UPDATE`, id,
	).Scan(&p.ID, &p.SupplierID, &p.WarehouseID, &p.InvoiceNumber, &p.Paid, &p.ActorID, &p.Status, &p.Total, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_id, product_id, quantity, unit_price, subtotal
		FROM purchase_lines WHERE purchase_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		p.Lines = append(p.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("purchase lines: %w", err)
	}
	return &p, nil
}

// UpdateStatus cambia el estado de la compra.
func (r *PurchaseRepo) UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchases SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("compra %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// execBatch envía el batch y consume cada resultado; un batch vacío no hace ida y vuelta.
func execBatch(ctx context.Context, q Querier, b *pgx.Batch, op string) error {
	if b.Len() == 0 {
		return nil
	}
	br := q.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isCheckViolation(err) {
				return fmt.Errorf("%s %d: %w", op, i+1, domain.ErrInvalidInput)
			}
			return fmt.Errorf("%s %d: %w", op, i+1, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
