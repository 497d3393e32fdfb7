package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Repositories agrupa los repositorios de una unidad de trabajo.
// Todas las lecturas y escrituras hechas a través de ellos confirman o revierten juntas.
type Repositories interface {
	Products() repository.ProductRepository
	Stock() repository.StockRepository
	Ledger() repository.LedgerRepository
	Purchases() repository.PurchaseRepository
	Sales() repository.SaleRepository
	Transfers() repository.TransferRepository
}

// TxRunner es el coordinador de transacciones del motor de inventario.
// RunAtomic ejecuta fn con repositorios atados a una transacción: si fn o alguna escritura
// falla, nada de lo escrito queda visible; si termina sin error, todo se confirma a la vez.
// fn puede ejecutarse más de una vez si el almacén detecta un conflicto de concurrencia.
type TxRunner interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// Repositories acceso de solo lectura fuera de una unidad de trabajo (consultas).
	Repositories() Repositories
}

// StockCache cache de lectura del stock vigente. Se invalida después de cada commit.
type StockCache interface {
	Get(ctx context.Context, productID string) (*StockSnapshot, bool, error)
	Set(ctx context.Context, snapshot *StockSnapshot) error
	Invalidate(ctx context.Context, productIDs ...string) error
}

// Tipos de evento publicados después del commit.
const (
	EventMovementRecorded = "movement.recorded"
	EventStockLow         = "stock.low"
)

// MovementEvent evento de dominio publicado tras confirmar una operación.
type MovementEvent struct {
	Type        string              `json:"type"`
	Operation   string              `json:"operation"`
	ProductID   string              `json:"product_id"`
	WarehouseID string              `json:"warehouse_id,omitempty"`
	Kind        entity.MovementKind `json:"kind,omitempty"`
	Delta       int64               `json:"delta,omitempty"`
	ReferenceID string              `json:"reference_id,omitempty"`
	Stock       int64               `json:"stock"`
	MinStock    int64               `json:"min_stock,omitempty"`
	ActorID     string              `json:"actor_id,omitempty"`
	OccurredAt  time.Time           `json:"occurred_at"`
}

// EventPublisher publica eventos de inventario (best effort, fuera de la transacción).
type EventPublisher interface {
	Publish(ctx context.Context, events []MovementEvent) error
}

// Metrics observa la ejecución del motor.
type Metrics interface {
	ObserveOperation(operation string, elapsed time.Duration, err error)
	MovementRecorded(kind entity.MovementKind, quantity int64)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*StockSnapshot, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, *StockSnapshot) error                 { return nil }
func (noopCache) Invalidate(context.Context, ...string) error               { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, []MovementEvent) error { return nil }

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(string, time.Duration, error) {}
func (noopMetrics) MovementRecorded(entity.MovementKind, int64)   {}
