package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// InitialStockReason motivo del ajuste con que se registra el inventario inicial.
const InitialStockReason = "inventario inicial"

// RegisterProduct da de alta un producto. Si initialStock > 0 el stock entra por el kardex
// como ajuste en la bodega principal, de modo que la suma de movimientos coincide desde el inicio.
func (e *MovementEngine) RegisterProduct(ctx context.Context, product *entity.Product, initialStock int64, actorID string) (*entity.Product, error) {
	if product == nil || strings.TrimSpace(product.SKU) == "" || strings.TrimSpace(product.Name) == "" {
		return nil, fmt.Errorf("%w: SKU y nombre requeridos", domain.ErrInvalidInput)
	}
	if product.WarehouseID == "" {
		return nil, fmt.Errorf("%w: bodega principal requerida", domain.ErrInvalidInput)
	}
	if initialStock < 0 || product.Price.IsNegative() {
		return nil, fmt.Errorf("%w: stock inicial o precio negativo", domain.ErrInvalidInput)
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.MinStock <= 0 {
		product.MinStock = entity.DefaultMinStock
	}

	var created *entity.Product
	err := e.exec(ctx, "register_product", actorID, func(u *unitOfWork) error {
		p := *product
		p.Stock = 0
		p.Cost = decimal.Zero
		p.Active = true
		p.Version = 0
		p.CreatedAt = u.now
		p.UpdatedAt = u.now
		if err := u.repos.Products().Create(u.ctx, &p); err != nil {
			return err
		}
		u.track(&p)
		if initialStock > 0 {
			if _, err := u.apply(movement{
				product:     &p,
				warehouseID: p.WarehouseID,
				delta:       initialStock,
				kind:        entity.MovementAdjustment,
				reason:      InitialStockReason,
			}); err != nil {
				return err
			}
		}
		created = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeactivateProduct desactiva el producto bajo el bloqueo de su fila. Se rechaza mientras
// tenga traslados pendientes: completarlos o anularlos exige un producto cargable.
func (e *MovementEngine) DeactivateProduct(ctx context.Context, productID, actorID string) error {
	return e.exec(ctx, "deactivate_product", actorID, func(u *unitOfWork) error {
		p, err := u.repos.Products().GetForUpdate(u.ctx, productID)
		if err != nil {
			return err
		}
		pending, err := u.repos.Ledger().SumPendingByProduct(u.ctx, p.ID)
		if err != nil {
			return err
		}
		if pending != 0 {
			return fmt.Errorf("%w: producto %s, %d unidades en tránsito", domain.ErrPendingTransfers, p.ID, -pending)
		}
		p.Active = false
		p.UpdatedAt = u.now
		return u.repos.Products().Update(u.ctx, p)
	})
}
