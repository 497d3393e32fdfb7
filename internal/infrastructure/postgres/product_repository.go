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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, price, cost, stock, min_stock, warehouse_id, active, version, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row, p *entity.Product) error {
	return row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock,
		&p.MinStock, &p.WarehouseID, &p.Active, &p.Version, &p.CreatedAt, &p.UpdatedAt)
}

// Create persiste un nuevo producto con versión 1.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 1, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description, product.Price, product.Cost,
		product.Stock, product.MinStock, product.WarehouseID, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("producto %s (SKU %s): %w", product.ID, product.SKU, domain.ErrDuplicate)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("producto %s: %w", product.ID, domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	product.Version = 1
	return nil
}

// Get obtiene un producto activo por ID.
func (r *ProductRepo) Get(ctx context.Context, id string) (*entity.Product, error) {
	return r.getActive(ctx, id, "")
}

// GetForUpdate como Get, bloqueando la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getActive(ctx, id, " FOR UPDATE")
}

func (r *ProductRepo) getActive(ctx context.Context, id, lock string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND active` + lock
	var p entity.Product
	if err := scanProduct(r.q.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("producto %s: %w", id, domain.ErrProductNotFound)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// GetAny obtiene el producto aunque esté inactivo.
func (r *ProductRepo) GetAny(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p entity.Product
	if err := scanProduct(r.q.QueryRow(ctx, query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Save persiste stock, costo y catálogo condicionado a la versión leída.
func (r *ProductRepo) Save(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $3, description = $4, price = $5, cost = $6, stock = $7,
			min_stock = $8, warehouse_id = $9, active = $10, updated_at = $11, version = version + 1
		WHERE id = $1 AND version = $2`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Version, product.Name, product.Description, product.Price, product.Cost,
		product.Stock, product.MinStock, product.WarehouseID, product.Active, product.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("producto %s stock %d: %w", product.ID, product.Stock, domain.ErrInvalidInput)
		}
		return fmt.Errorf("save product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("producto %s versión %d: %w", product.ID, product.Version, domain.ErrConflict)
	}
	product.Version++
	return nil
}

// Update actualiza solo campos de catálogo. No permite modificar Cost ni Stock (se manejan vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, min_stock = $5, warehouse_id = $6,
			active = $7, updated_at = $8, version = version + 1
		WHERE id = $1
		RETURNING version`
	err := r.q.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.MinStock,
		product.WarehouseID, product.Active, product.UpdatedAt,
	).Scan(&product.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("producto %s: %w", product.ID, domain.ErrNotFound)
		}
		if isCheckViolation(err) {
			return fmt.Errorf("producto %s: %w", product.ID, domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// List lista productos activos ordenados por SKU. limit 0 sin límite.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products WHERE active ORDER BY sku LIMIT NULLIF($1, 0) OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// ListIDs IDs de productos activos ordenados por SKU.
func (r *ProductRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM products WHERE active ORDER BY sku`)
	if err != nil {
		return nil, fmt.Errorf("list product ids: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ListBelowMinStock productos activos bajo el mínimo. Con bodega, se compara el stock de esa
// bodega y solo se consideran productos con fila en ella o cuya bodega principal es esa.
func (r *ProductRepo) ListBelowMinStock(ctx context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	query := `
		SELECT ` + productColumns + `, current_stock FROM (
			SELECT p.*, CASE WHEN $1::text = '' THEN p.stock ELSE COALESCE(s.quantity, 0) END AS current_stock
			FROM products p
			LEFT JOIN stock s ON s.product_id = p.id AND s.warehouse_id = $1::text
			WHERE p.active AND ($1::text = '' OR s.product_id IS NOT NULL OR p.warehouse_id = $1::text)
		) t
		WHERE current_stock < min_stock
		ORDER BY sku`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	var out []repository.LowStockItem
	for rows.Next() {
		var it repository.LowStockItem
		p := &it.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock,
			&p.MinStock, &p.WarehouseID, &p.Active, &p.Version, &p.CreatedAt, &p.UpdatedAt, &it.CurrentStock); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
