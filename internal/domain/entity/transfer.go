package entity

import "time"

// TransferStatus estado de un traslado entre bodegas.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// Transfer traslado en dos fases: se registra la salida al crearlo y el stock
// solo se mueve al completarlo.
type Transfer struct {
	ID                string
	SourceWarehouseID string
	DestWarehouseID   string
	Status            TransferStatus
	ActorID           string
	Lines             []TransferLine
	CreatedAt         time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
}

// TransferLine producto y cantidad a trasladar.
type TransferLine struct {
	ProductID string
	Quantity  int64
}
