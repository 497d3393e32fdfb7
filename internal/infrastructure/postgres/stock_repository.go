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

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock de un producto en una bodega. Sin fila devuelve cantidad 0 y versión 0.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.get(ctx, productID, warehouseID, "")
}

// GetForUpdate obtiene el stock con SELECT FOR UPDATE (para uso dentro de tx).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.get(ctx, productID, warehouseID, " FOR UPDATE")
}

func (r *StockRepo) get(ctx context.Context, productID, warehouseID, lock string) (*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, version, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2` + lock
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.Version, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, WarehouseID: warehouseID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Save inserta la fila (versión 0) o la actualiza si la versión no cambió desde la lectura.
func (r *StockRepo) Save(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, version, updated_at)
		VALUES ($1, $2, $3, 1, $5)
		ON CONFLICT (product_id, warehouse_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, version = stock.version + 1, updated_at = EXCLUDED.updated_at
		WHERE stock.version = $4`
	cmd, err := r.q.Exec(ctx, query, stock.ProductID, stock.WarehouseID, stock.Quantity, stock.Version, stock.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("stock %s/%s cantidad %d: %w", stock.ProductID, stock.WarehouseID, stock.Quantity, domain.ErrInvalidInput)
		}
		return fmt.Errorf("save stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("stock %s/%s versión %d: %w", stock.ProductID, stock.WarehouseID, stock.Version, domain.ErrConflict)
	}
	stock.Version++
	return nil
}

// ListByProduct lista el stock del producto en todas sus bodegas.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, version, updated_at
		FROM stock WHERE product_id = $1 ORDER BY warehouse_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.Version, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
