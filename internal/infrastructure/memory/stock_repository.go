package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

type stockRepo struct {
	acc access
}

func (r *stockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.acc.read(func(d *dataset) error {
		st, ok := d.stock[stockKey{productID: productID, warehouseID: warehouseID}]
		if !ok {
			st = entity.Stock{ProductID: productID, WarehouseID: warehouseID}
		}
		out = &st
		return nil
	})
	return out, err
}

func (r *stockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *stockRepo) Save(ctx context.Context, st *entity.Stock) error {
	return r.acc.write(ctx, func(d *dataset) error {
		key := stockKey{productID: st.ProductID, warehouseID: st.WarehouseID}
		current := d.stock[key]
		if current.Version != st.Version {
			return fmt.Errorf("stock %s/%s versión %d (actual %d): %w",
				st.ProductID, st.WarehouseID, st.Version, current.Version, domain.ErrConflict)
		}
		if st.Quantity < 0 {
			return fmt.Errorf("stock %s/%s cantidad %d: %w", st.ProductID, st.WarehouseID, st.Quantity, domain.ErrInvalidInput)
		}
		st.Version++
		d.stock[key] = *st
		return nil
	})
}

func (r *stockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	err := r.acc.read(func(d *dataset) error {
		for k, st := range d.stock {
			if k.productID == productID {
				st := st
				out = append(out, &st)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, err
}
