package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStock umbral de alerta cuando el producto no define uno.
const DefaultMinStock int64 = 5

// Product representa un SKU del catálogo con su stock vigente.
// Stock es el total de todas las bodegas y solo lo modifica el motor de movimientos;
// el detalle por bodega vive en Stock. Version habilita la escritura condicionada (CAS).
type Product struct {
	ID          string
	SKU         string // único
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta vigente
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	Stock       int64
	MinStock    int64
	WarehouseID string // bodega principal
	Active      bool
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelowMinStock indica si el stock total está por debajo del umbral mínimo.
func (p *Product) BelowMinStock() bool {
	return p.Stock < p.MinStock
}
