package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest línea de compra.
type PurchaseLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseRequest body para POST /api/purchases.
// WarehouseID vacío aplica cada línea a la bodega principal del producto.
type CreatePurchaseRequest struct {
	SupplierID    string                `json:"supplier_id"`
	WarehouseID   string                `json:"warehouse_id,omitempty"`
	InvoiceNumber string                `json:"invoice_number,omitempty"`
	Paid          bool                  `json:"paid"`
	Lines         []PurchaseLineRequest `json:"lines"`
}

// SaleLineRequest línea de venta; el precio se toma del producto.
type SaleLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID    string            `json:"customer_id"`
	WarehouseID   string            `json:"warehouse_id,omitempty"`
	PaymentMethod string            `json:"payment_method"`
	ReceiptNumber string            `json:"receipt_number,omitempty"`
	Lines         []SaleLineRequest `json:"lines"`
}

// AdjustmentRequest body para POST /api/inventory/adjustments.
type AdjustmentRequest struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id,omitempty"`
	Delta       int64  `json:"delta"`
	Reason      string `json:"reason"`
}

// TransferLineRequest línea de traslado.
type TransferLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceWarehouseID string                `json:"source_warehouse_id"`
	DestWarehouseID   string                `json:"dest_warehouse_id"`
	Lines             []TransferLineRequest `json:"lines"`
}

// DocumentLineResponse línea de compra o venta.
type DocumentLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	SupplierID    string                 `json:"supplier_id"`
	WarehouseID   string                 `json:"warehouse_id,omitempty"`
	InvoiceNumber string                 `json:"invoice_number,omitempty"`
	Paid          bool                   `json:"paid"`
	Status        string                 `json:"status"`
	Total         decimal.Decimal        `json:"total"`
	Lines         []DocumentLineResponse `json:"lines,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string                 `json:"id"`
	CustomerID    string                 `json:"customer_id"`
	WarehouseID   string                 `json:"warehouse_id,omitempty"`
	PaymentMethod string                 `json:"payment_method"`
	ReceiptNumber string                 `json:"receipt_number,omitempty"`
	Total         decimal.Decimal        `json:"total"`
	Lines         []DocumentLineResponse `json:"lines"`
	CreatedAt     time.Time              `json:"created_at"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID                string                `json:"id"`
	SourceWarehouseID string                `json:"source_warehouse_id"`
	DestWarehouseID   string                `json:"dest_warehouse_id"`
	Status            string                `json:"status"`
	Lines             []TransferLineRequest `json:"lines"`
	CreatedAt         time.Time             `json:"created_at"`
	CompletedAt       *time.Time            `json:"completed_at,omitempty"`
	CancelledAt       *time.Time            `json:"cancelled_at,omitempty"`
}

// LedgerEntryResponse movimiento del kardex.
type LedgerEntryResponse struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	ProductID   string    `json:"product_id"`
	WarehouseID string    `json:"warehouse_id"`
	Delta       int64     `json:"delta"`
	Kind        string    `json:"kind"`
	ReferenceID string    `json:"reference_id,omitempty"`
	ReversesID  string    `json:"reverses_id,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	StockBefore int64     `json:"stock_before"`
	StockAfter  int64     `json:"stock_after"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"created_at"`
}

// WarehouseStockResponse stock de un producto en una bodega.
type WarehouseStockResponse struct {
	WarehouseID string `json:"warehouse_id"`
	Quantity    int64  `json:"quantity"`
}

// StockResponse stock vigente de un producto.
type StockResponse struct {
	ProductID   string                   `json:"product_id"`
	Total       int64                    `json:"total"`
	ByWarehouse []WarehouseStockResponse `json:"by_warehouse"`
}

// ProductLedgerResponse stock actual más movimientos (vista kardex).
type ProductLedgerResponse struct {
	ProductID    string                `json:"product_id"`
	CurrentStock int64                 `json:"current_stock"`
	LedgerTotal  int64                 `json:"ledger_total"`
	PendingTotal int64                 `json:"pending_total"`
	Entries      []LedgerEntryResponse `json:"entries"`
}

// ReconcileResponse resultado de conciliar un producto.
type ReconcileResponse struct {
	ProductID      string `json:"product_id"`
	ProductStock   int64  `json:"product_stock"`
	WarehouseTotal int64  `json:"warehouse_total"`
	LedgerTotal    int64  `json:"ledger_total"`
	PendingTotal   int64  `json:"pending_total"`
	Consistent     bool   `json:"consistent"`
}

// InsufficientStockDetails detalle de ErrorResponse para stock insuficiente.
type InsufficientStockDetails struct {
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	Available   int64  `json:"available"`
	Requested   int64  `json:"requested"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un SKU bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	WarehouseID        string          `json:"warehouse_id,omitempty"`
	CurrentStock       int64           `json:"current_stock"`
	MinStock           int64           `json:"min_stock"`
	IdealStock         int64           `json:"ideal_stock"`          // MinStock * 1.5 redondeado hacia arriba
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`     // (precio - costo) / precio
	Priority           int             `json:"priority"`             // 1 = más urgente
}
