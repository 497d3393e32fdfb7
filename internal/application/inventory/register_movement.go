package inventory

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// Adaptadores de request HTTP a comandos del motor. actorID viene del token.

// RecordPurchaseFromRequest adapta dto.CreatePurchaseRequest a RecordPurchase.
func (e *MovementEngine) RecordPurchaseFromRequest(ctx context.Context, actorID string, in dto.CreatePurchaseRequest) (*entity.Purchase, error) {
	lines := make([]PurchaseLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, PurchaseLine{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return e.RecordPurchase(ctx, PurchaseCommand{
		SupplierID:    in.SupplierID,
		WarehouseID:   in.WarehouseID,
		InvoiceNumber: in.InvoiceNumber,
		Paid:          in.Paid,
		Lines:         lines,
		ActorID:       actorID,
	})
}

// RecordSaleFromRequest adapta dto.CreateSaleRequest a RecordSale.
func (e *MovementEngine) RecordSaleFromRequest(ctx context.Context, actorID string, in dto.CreateSaleRequest) (*entity.Sale, error) {
	lines := make([]SaleLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, SaleLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return e.RecordSale(ctx, SaleCommand{
		CustomerID:    in.CustomerID,
		WarehouseID:   in.WarehouseID,
		PaymentMethod: in.PaymentMethod,
		ReceiptNumber: in.ReceiptNumber,
		Lines:         lines,
		ActorID:       actorID,
	})
}

// RecordAdjustmentFromRequest adapta dto.AdjustmentRequest a RecordAdjustment.
func (e *MovementEngine) RecordAdjustmentFromRequest(ctx context.Context, actorID string, in dto.AdjustmentRequest) (*entity.LedgerEntry, error) {
	return e.RecordAdjustment(ctx, AdjustmentCommand{
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Delta:       in.Delta,
		Reason:      in.Reason,
		ActorID:     actorID,
	})
}

// CreateTransferFromRequest adapta dto.CreateTransferRequest a CreateTransfer.
func (e *MovementEngine) CreateTransferFromRequest(ctx context.Context, actorID string, in dto.CreateTransferRequest) (*entity.Transfer, error) {
	lines := make([]entity.TransferLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, entity.TransferLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return e.CreateTransfer(ctx, TransferCommand{
		SourceWarehouseID: in.SourceWarehouseID,
		DestWarehouseID:   in.DestWarehouseID,
		Lines:             lines,
		ActorID:           actorID,
	})
}
