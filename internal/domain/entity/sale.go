package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

// Sale cabecera de venta. El precio unitario de cada línea se captura del producto
// al momento de la venta.
type Sale struct {
	ID            string
	CustomerID    string
	WarehouseID   string
	PaymentMethod string
	ReceiptNumber string
	ActorID       string
	Total         decimal.Decimal
	Lines         []SaleLine
	CreatedAt     time.Time
}

// SaleLine línea de venta.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
