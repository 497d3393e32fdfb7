package http

import (
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	out := dto.PurchaseResponse{
		ID:            p.ID,
		SupplierID:    p.SupplierID,
		WarehouseID:   p.WarehouseID,
		InvoiceNumber: p.InvoiceNumber,
		Paid:          p.Paid,
		Status:        string(p.Status),
		Total:         p.Total,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, dto.DocumentLineResponse{
			ID: l.ID, ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal,
		})
	}
	return out
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	out := dto.SaleResponse{
		ID:            s.ID,
		CustomerID:    s.CustomerID,
		WarehouseID:   s.WarehouseID,
		PaymentMethod: s.PaymentMethod,
		ReceiptNumber: s.ReceiptNumber,
		Total:         s.Total,
		Lines:         make([]dto.DocumentLineResponse, 0, len(s.Lines)),
		CreatedAt:     s.CreatedAt,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, dto.DocumentLineResponse{
			ID: l.ID, ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice, Subtotal: l.Subtotal,
		})
	}
	return out
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	out := dto.TransferResponse{
		ID:                t.ID,
		SourceWarehouseID: t.SourceWarehouseID,
		DestWarehouseID:   t.DestWarehouseID,
		Status:            string(t.Status),
		Lines:             make([]dto.TransferLineRequest, 0, len(t.Lines)),
		CreatedAt:         t.CreatedAt,
		CompletedAt:       t.CompletedAt,
		CancelledAt:       t.CancelledAt,
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, dto.TransferLineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}

func toLedgerEntryResponse(e *entity.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ID:          e.ID,
		Seq:         e.Seq,
		ProductID:   e.ProductID,
		WarehouseID: e.WarehouseID,
		Delta:       e.Delta,
		Kind:        string(e.Kind),
		ReferenceID: e.ReferenceID,
		ReversesID:  e.ReversesID,
		ActorID:     e.ActorID,
		Reason:      e.Reason,
		StockBefore: e.StockBefore,
		StockAfter:  e.StockAfter,
		State:       string(e.State),
		CreatedAt:   e.CreatedAt,
	}
}

func toStockResponse(s *inventory.StockSnapshot) dto.StockResponse {
	out := dto.StockResponse{
		ProductID:   s.ProductID,
		Total:       s.Total,
		ByWarehouse: make([]dto.WarehouseStockResponse, 0, len(s.ByWarehouse)),
	}
	for _, id := range s.Warehouses() {
		out.ByWarehouse = append(out.ByWarehouse, dto.WarehouseStockResponse{WarehouseID: id, Quantity: s.ByWarehouse[id]})
	}
	return out
}

func toProductLedgerResponse(l *inventory.ProductLedger) dto.ProductLedgerResponse {
	out := dto.ProductLedgerResponse{
		ProductID:    l.ProductID,
		CurrentStock: l.CurrentStock,
		LedgerTotal:  l.LedgerTotal,
		PendingTotal: l.PendingTotal,
		Entries:      make([]dto.LedgerEntryResponse, 0, len(l.Entries)),
	}
	for i := range l.Entries {
		out.Entries = append(out.Entries, toLedgerEntryResponse(&l.Entries[i]))
	}
	return out
}

func toReconcileResponse(r *inventory.ReconcileReport) dto.ReconcileResponse {
	return dto.ReconcileResponse{
		ProductID:      r.ProductID,
		ProductStock:   r.ProductStock,
		WarehouseTotal: r.WarehouseTotal,
		LedgerTotal:    r.LedgerTotal,
		PendingTotal:   r.PendingTotal,
		Consistent:     r.Consistent,
	}
}
