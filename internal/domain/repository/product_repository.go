package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Get y GetForUpdate fallan con domain.ErrProductNotFound si el producto no existe o está inactivo.
// Save persiste el producto completo, incluido el stock, condicionado a Version (domain.ErrConflict si cambió).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Get(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la unidad de trabajo (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// GetAny devuelve el producto aunque esté inactivo (nil, nil si no existe).
	GetAny(ctx context.Context, id string) (*entity.Product, error)
	Save(ctx context.Context, product *entity.Product) error
	// Update modifica solo campos de catálogo; nunca stock ni costo.
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	ListIDs(ctx context.Context) ([]string, error)
	// ListBelowMinStock productos activos con stock menor al mínimo (en la bodega indicada si no es vacía).
	ListBelowMinStock(ctx context.Context, warehouseID string) ([]LowStockItem, error)
}

// LowStockItem resultado crudo para un producto bajo el mínimo.
type LowStockItem struct {
	Product      entity.Product
	CurrentStock int64 // stock en la bodega consultada o total
}
