package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

type productRepo struct {
	acc access
}

func (r *productRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.acc.write(ctx, func(d *dataset) error {
		if _, ok := d.products[p.ID]; ok {
			return fmt.Errorf("producto %s: %w", p.ID, domain.ErrDuplicate)
		}
		if _, ok := d.skus[p.SKU]; ok {
			return fmt.Errorf("SKU %s: %w", p.SKU, domain.ErrDuplicate)
		}
		p.Version = 1
		d.products[p.ID] = *p
		d.skus[p.SKU] = p.ID
		return nil
	})
}

func (r *productRepo) Get(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc.read(func(d *dataset) error {
		p, ok := d.products[id]
		if !ok || !p.Active {
			return fmt.Errorf("producto %s: %w", id, domain.ErrProductNotFound)
		}
		out = &p
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a Get: la unidad de trabajo ya es de un único escritor.
func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.Get(ctx, id)
}

func (r *productRepo) GetAny(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc.read(func(d *dataset) error {
		if p, ok := d.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *productRepo) Save(ctx context.Context, p *entity.Product) error {
	return r.acc.write(ctx, func(d *dataset) error {
		current, ok := d.products[p.ID]
		if !ok {
			return fmt.Errorf("producto %s: %w", p.ID, domain.ErrProductNotFound)
		}
		if current.Version != p.Version {
			return fmt.Errorf("producto %s versión %d (actual %d): %w", p.ID, p.Version, current.Version, domain.ErrConflict)
		}
		if p.Stock < 0 {
			return fmt.Errorf("producto %s stock %d: %w", p.ID, p.Stock, domain.ErrInvalidInput)
		}
		p.Version++
		d.products[p.ID] = *p
		return nil
	})
}

func (r *productRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.acc.write(ctx, func(d *dataset) error {
		current, ok := d.products[p.ID]
		if !ok {
			return fmt.Errorf("producto %s: %w", p.ID, domain.ErrNotFound)
		}
		current.Name = p.Name
		current.Description = p.Description
		current.Price = p.Price
		current.MinStock = p.MinStock
		current.WarehouseID = p.WarehouseID
		current.Active = p.Active
		current.UpdatedAt = p.UpdatedAt
		current.Version++
		d.products[p.ID] = current
		p.Version = current.Version
		return nil
	})
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.acc.read(func(d *dataset) error {
		all := activeProducts(d)
		if offset >= len(all) {
			return nil
		}
		end := len(all)
		if limit > 0 && offset+limit < end {
			end = offset + limit
		}
		out = all[offset:end]
		return nil
	})
	return out, err
}

func (r *productRepo) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.acc.read(func(d *dataset) error {
		for _, p := range activeProducts(d) {
			ids = append(ids, p.ID)
		}
		return nil
	})
	return ids, err
}

func (r *productRepo) ListBelowMinStock(ctx context.Context, warehouseID string) ([]repository.LowStockItem, error) {
	var out []repository.LowStockItem
	err := r.acc.read(func(d *dataset) error {
		for _, p := range activeProducts(d) {
			current := p.Stock
			if warehouseID != "" {
				st, ok := d.stock[stockKey{productID: p.ID, warehouseID: warehouseID}]
				if !ok && p.WarehouseID != warehouseID {
					continue
				}
				current = st.Quantity
			}
			if current < p.MinStock {
				out = append(out, repository.LowStockItem{Product: *p, CurrentStock: current})
			}
		}
		return nil
	})
	return out, err
}

// activeProducts productos activos ordenados por SKU.
func activeProducts(d *dataset) []*entity.Product {
	out := make([]*entity.Product, 0, len(d.products))
	for _, p := range d.products {
		if p.Active {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}
