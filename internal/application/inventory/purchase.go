package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

// RecordPurchase registra una compra: por cada línea suma el stock, recalcula el costo
// promedio ponderado y anexa un movimiento purchase. La compra queda pendiente.
func (e *MovementEngine) RecordPurchase(ctx context.Context, cmd PurchaseCommand) (*entity.Purchase, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	purchaseID := uuid.New().String()

	var purchase *entity.Purchase
	err := e.exec(ctx, "record_purchase", cmd.ActorID, func(u *unitOfWork) error {
		purchase = &entity.Purchase{
			ID:            purchaseID,
			SupplierID:    cmd.SupplierID,
			WarehouseID:   cmd.WarehouseID,
			InvoiceNumber: cmd.InvoiceNumber,
			Paid:          cmd.Paid,
			ActorID:       cmd.ActorID,
			Status:        entity.PurchasePending,
			Total:         decimal.Zero,
			CreatedAt:     u.now,
			UpdatedAt:     u.now,
		}
		for _, l := range cmd.Lines {
			p, err := u.product(l.ProductID)
			if err != nil {
				return err
			}
			// Costo antes de sumar: el promedio pondera el stock previo.
			p.Cost = inventory.WeightedAverageCost(p.Stock, p.Cost, l.Quantity, l.UnitPrice)
			if _, err := u.apply(movement{
				product:     p,
				warehouseID: warehouseOr(cmd.WarehouseID, p),
				delta:       l.Quantity,
				kind:        entity.MovementPurchase,
				referenceID: purchaseID,
			}); err != nil {
				return err
			}
			subtotal := l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
			purchase.Total = purchase.Total.Add(subtotal)
			purchase.Lines = append(purchase.Lines, entity.PurchaseLine{
				ID:         uuid.New().String(),
				PurchaseID: purchaseID,
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
				Subtotal:   subtotal,
			})
		}
		return u.repos.Purchases().Create(u.ctx, purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// CompletePurchase cierra una compra pendiente. No mueve stock; después ya no puede cancelarse.
func (e *MovementEngine) CompletePurchase(ctx context.Context, purchaseID, actorID string) (*entity.Purchase, error) {
	var purchase *entity.Purchase
	err := e.exec(ctx, "complete_purchase", actorID, func(u *unitOfWork) error {
		var err error
		purchase, err = pendingPurchase(u, purchaseID)
		if err != nil {
			return err
		}
		purchase.Status = entity.PurchaseCompleted
		purchase.UpdatedAt = u.now
		return u.repos.Purchases().UpdateStatus(u.ctx, purchase.ID, purchase.Status)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// CancelPurchase revierte una compra pendiente con un movimiento compensatorio por cada
// entrada original. Falla con stock insuficiente si la mercancía ya se consumió.
func (e *MovementEngine) CancelPurchase(ctx context.Context, purchaseID, actorID string) (*entity.Purchase, error) {
	var purchase *entity.Purchase
	err := e.exec(ctx, "cancel_purchase", actorID, func(u *unitOfWork) error {
		var err error
		purchase, err = pendingPurchase(u, purchaseID)
		if err != nil {
			return err
		}
		entries, err := u.repos.Ledger().ListByReference(u.ctx, purchaseID)
		if err != nil {
			return err
		}
		for _, original := range entries {
			if original.Kind != entity.MovementPurchase || original.IsCompensation() {
				continue
			}
			p, err := u.product(original.ProductID)
			if err != nil {
				return err
			}
			if _, err := u.apply(movement{
				product:     p,
				warehouseID: original.WarehouseID,
				delta:       -original.Delta,
				kind:        entity.MovementPurchase,
				referenceID: purchaseID,
				reversesID:  original.ID,
				reason:      "compra cancelada",
			}); err != nil {
				return err
			}
		}
		purchase.Status = entity.PurchaseCancelled
		purchase.UpdatedAt = u.now
		return u.repos.Purchases().UpdateStatus(u.ctx, purchase.ID, purchase.Status)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func pendingPurchase(u *unitOfWork, purchaseID string) (*entity.Purchase, error) {
	purchase, err := u.repos.Purchases().GetForUpdate(u.ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, fmt.Errorf("compra %s: %w", purchaseID, domain.ErrNotFound)
	}
	if purchase.Status != entity.PurchasePending {
		return nil, fmt.Errorf("compra %s en estado %s: %w", purchaseID, purchase.Status, domain.ErrPurchaseNotPending)
	}
	return purchase, nil
}
