package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

type purchaseRepo struct {
	acc access
}

func (r *purchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	return r.acc.write(ctx, func(d *dataset) error {
		if _, ok := d.purchases[p.ID]; ok {
			return fmt.Errorf("compra %s: %w", p.ID, domain.ErrDuplicate)
		}
		c := *p
		c.Lines = append([]entity.PurchaseLine(nil), p.Lines...)
		d.purchases[p.ID] = c
		return nil
	})
}

func (r *purchaseRepo) GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error) {
	var out *entity.Purchase
	err := r.acc.read(func(d *dataset) error {
		if p, ok := d.purchases[id]; ok {
			p.Lines = append([]entity.PurchaseLine(nil), p.Lines...)
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *purchaseRepo) UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus) error {
	return r.acc.write(ctx, func(d *dataset) error {
		p, ok := d.purchases[id]
		if !ok {
			return fmt.Errorf("compra %s: %w", id, domain.ErrNotFound)
		}
		p.Status = status
		d.purchases[id] = p
		return nil
	})
}

type saleRepo struct {
	acc access
}

func (r *saleRepo) Create(ctx context.Context, s *entity.Sale) error {
	return r.acc.write(ctx, func(d *dataset) error {
		if _, ok := d.sales[s.ID]; ok {
			return fmt.Errorf("venta %s: %w", s.ID, domain.ErrDuplicate)
		}
		c := *s
		c.Lines = append([]entity.SaleLine(nil), s.Lines...)
		d.sales[s.ID] = c
		return nil
	})
}

func (r *saleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.acc.read(func(d *dataset) error {
		if s, ok := d.sales[id]; ok {
			s.Lines = append([]entity.SaleLine(nil), s.Lines...)
			out = &s
		}
		return nil
	})
	return out, err
}

type transferRepo struct {
	acc access
}

func (r *transferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	return r.acc.write(ctx, func(d *dataset) error {
		if _, ok := d.transfers[t.ID]; ok {
			return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrDuplicate)
		}
		c := *t
		c.Lines = append([]entity.TransferLine(nil), t.Lines...)
		d.transfers[t.ID] = c
		return nil
	})
}

func (r *transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.acc.read(func(d *dataset) error {
		if t, ok := d.transfers[id]; ok {
			t.Lines = append([]entity.TransferLine(nil), t.Lines...)
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *transferRepo) UpdateStatus(ctx context.Context, t *entity.Transfer) error {
	return r.acc.write(ctx, func(d *dataset) error {
		current, ok := d.transfers[t.ID]
		if !ok {
			return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrNotFound)
		}
		current.Status = t.Status
		current.CompletedAt = t.CompletedAt
		current.CancelledAt = t.CancelledAt
		d.transfers[t.ID] = current
		return nil
	})
}
