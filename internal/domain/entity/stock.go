package entity

import "time"

// Stock representa el stock actual de un producto en una bodega.
// Una fila inexistente se lee como Quantity 0 y Version 0, y se crea al primer Save.
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	Version     int64
	UpdatedAt   time.Time
}
