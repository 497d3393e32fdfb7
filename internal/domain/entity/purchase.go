package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus estado de una compra.
type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

// Purchase cabecera de una compra a proveedor. El stock se aplica al crearla;
// la cancelación lo revierte con movimientos compensatorios.
type Purchase struct {
	ID            string
	SupplierID    string
	WarehouseID   string
	InvoiceNumber string
	Paid          bool
	ActorID       string
	Status        PurchaseStatus
	Total         decimal.Decimal
	Lines         []PurchaseLine
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PurchaseLine línea de compra.
type PurchaseLine struct {
	ID         string
	PurchaseID string
	ProductID  string
	Quantity   int64
	UnitPrice  decimal.Decimal
	Subtotal   decimal.Decimal
}
