package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// PurchaseLine producto, cantidad y precio unitario de compra.
type PurchaseLine struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// PurchaseCommand entrada de RecordPurchase. WarehouseID vacío usa la bodega principal de cada producto.
type PurchaseCommand struct {
	SupplierID    string
	WarehouseID   string
	InvoiceNumber string
	Paid          bool
	Lines         []PurchaseLine
	ActorID       string
}

func (c PurchaseCommand) validate() error {
	if len(c.Lines) == 0 {
		return fmt.Errorf("%w: la compra no tiene líneas", domain.ErrInvalidInput)
	}
	for i, l := range c.Lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d cantidad debe ser positiva", domain.ErrInvalidInput, i+1)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: línea %d precio unitario negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

// SaleLine producto y cantidad vendida; el precio se captura del producto.
type SaleLine struct {
	ProductID string
	Quantity  int64
}

// SaleCommand entrada de RecordSale. PaymentMethod vacío se toma como efectivo.
type SaleCommand struct {
	CustomerID    string
	WarehouseID   string
	PaymentMethod string
	ReceiptNumber string
	Lines         []SaleLine
	ActorID       string
}

func (c *SaleCommand) validate() error {
	if len(c.Lines) == 0 {
		return fmt.Errorf("%w: la venta no tiene líneas", domain.ErrInvalidInput)
	}
	switch c.PaymentMethod {
	case "":
		c.PaymentMethod = entity.PaymentCash
	case entity.PaymentCash, entity.PaymentCard, entity.PaymentTransfer:
	default:
		return fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, c.PaymentMethod)
	}
	for i, l := range c.Lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d cantidad debe ser positiva", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

// AdjustmentCommand entrada de RecordAdjustment. Delta con signo, distinto de cero.
type AdjustmentCommand struct {
	ProductID   string
	WarehouseID string
	Delta       int64
	Reason      string
	ActorID     string
}

func (c AdjustmentCommand) validate() error {
	if c.ProductID == "" {
		return fmt.Errorf("%w: ajuste sin producto", domain.ErrInvalidInput)
	}
	if c.Delta == 0 {
		return fmt.Errorf("%w: delta cero", domain.ErrInvalidAdjustment)
	}
	return nil
}

// TransferCommand entrada de CreateTransfer.
type TransferCommand struct {
	SourceWarehouseID string
	DestWarehouseID   string
	Lines             []entity.TransferLine
	ActorID           string
}

func (c TransferCommand) validate() error {
	if c.SourceWarehouseID == "" || c.DestWarehouseID == "" {
		return fmt.Errorf("%w: bodegas de origen y destino requeridas", domain.ErrInvalidInput)
	}
	if c.SourceWarehouseID == c.DestWarehouseID {
		return domain.ErrInvalidTransfer
	}
	if len(c.Lines) == 0 {
		return fmt.Errorf("%w: el traslado no tiene líneas", domain.ErrInvalidInput)
	}
	for i, l := range c.Lines {
		if l.ProductID == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidInput, i+1)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d cantidad debe ser positiva", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

func warehouseOr(requested string, p *entity.Product) string {
	if requested != "" {
		return requested
	}
	return p.WarehouseID
}
