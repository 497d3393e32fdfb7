package entity

import "time"

// MovementKind tipo de movimiento del kardex.
type MovementKind string

// Tipos de movimiento de inventario.
const (
	MovementPurchase    MovementKind = "purchase"     // entrada por compra
	MovementSale        MovementKind = "sale"         // salida por venta
	MovementAdjustment  MovementKind = "adjustment"   // ajuste manual
	MovementTransferOut MovementKind = "transfer-out" // salida de bodega origen
	MovementTransferIn  MovementKind = "transfer-in"  // entrada en bodega destino
)

// Valid indica si el tipo es uno de los conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementPurchase, MovementSale, MovementAdjustment, MovementTransferOut, MovementTransferIn:
		return true
	}
	return false
}

// EntryState estado de liquidación de un movimiento.
type EntryState string

const (
	EntryPending EntryState = "pending" // salida de traslado aún no aplicada al stock
	EntryFinal   EntryState = "final"
)

// LedgerEntry es un movimiento inmutable del kardex: un delta con signo sobre un producto
// en una bodega. Solo State puede cambiar, y solo de pending a final.
// StockBefore/StockAfter son la foto del stock de la bodega del movimiento.
type LedgerEntry struct {
	ID          string
	Seq         int64 // orden de creación
	ProductID   string
	WarehouseID string
	Delta       int64 // positivo entrada, negativo salida
	Kind        MovementKind
	ReferenceID string // compra, venta o traslado de origen
	ReversesID  string // movimiento que este compensa
	ActorID     string
	Reason      string
	StockBefore int64
	StockAfter  int64
	State       EntryState
	CreatedAt   time.Time
}

// IsCompensation indica si el movimiento revierte otro.
func (e *LedgerEntry) IsCompensation() bool {
	return e.ReversesID != ""
}
