package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// DefaultTxTimeout límite por defecto de una unidad de trabajo.
const DefaultTxTimeout = 5 * time.Second

// EngineDeps dependencias opcionales del motor. Los campos nil usan implementaciones no-op.
type EngineDeps struct {
	Log       *zerolog.Logger
	Cache     StockCache
	Publisher EventPublisher
	Metrics   Metrics
	TxTimeout time.Duration
	Clock     func() time.Time
}

// MovementEngine registra compras, ventas, ajustes y traslados. Cada operación es una unidad
// de trabajo del TxRunner: valida todas las líneas bajo bloqueo de fila, luego actualiza stock
// y anexa al kardex; o todo queda confirmado o nada.
type MovementEngine struct {
	tx        TxRunner
	log       zerolog.Logger
	cache     StockCache
	publisher EventPublisher
	metrics   Metrics
	timeout   time.Duration
	now       func() time.Time
}

// NewMovementEngine construye el motor sobre el coordinador de transacciones.
func NewMovementEngine(tx TxRunner, deps EngineDeps) *MovementEngine {
	e := &MovementEngine{
		tx:        tx,
		log:       zerolog.Nop(),
		cache:     noopCache{},
		publisher: noopPublisher{},
		metrics:   noopMetrics{},
		timeout:   DefaultTxTimeout,
		now:       time.Now,
	}
	if deps.Log != nil {
		e.log = deps.Log.With().Str("component", "movement_engine").Logger()
	}
	if deps.Cache != nil {
		e.cache = deps.Cache
	}
	if deps.Publisher != nil {
		e.publisher = deps.Publisher
	}
	if deps.Metrics != nil {
		e.metrics = deps.Metrics
	}
	if deps.TxTimeout > 0 {
		e.timeout = deps.TxTimeout
	}
	if deps.Clock != nil {
		e.now = deps.Clock
	}
	return e
}

// exec corre fn como una unidad de trabajo con tiempo límite. fn valida y escribe documentos;
// los cambios de stock y movimientos acumulados en la unidad se persisten al final (flush).
// Tras el commit se disparan los efectos secundarios (cache, eventos, métricas).
func (e *MovementEngine) exec(ctx context.Context, op, actorID string, fn func(u *unitOfWork) error) error {
	start := time.Now()
	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var u *unitOfWork
	err := e.tx.RunAtomic(runCtx, func(txCtx context.Context, repos Repositories) error {
		u = newUnitOfWork(txCtx, repos, e.now().UTC(), actorID)
		if err := fn(u); err != nil {
			return err
		}
		return u.flush()
	})
	if err != nil && ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%s: %w", op, domain.ErrOperationTimedOut)
	}
	e.metrics.ObserveOperation(op, time.Since(start), err)
	if err != nil {
		e.log.Warn().Err(err).Str("op", op).Str("actor_id", actorID).Msg("operación de inventario rechazada")
		return err
	}

	e.afterCommit(context.WithoutCancel(ctx), op, u)
	e.log.Info().
		Str("op", op).
		Str("actor_id", actorID).
		Int("entries", len(u.entries)).
		Int("products", len(u.productOrder)).
		Dur("elapsed", time.Since(start)).
		Msg("operación de inventario confirmada")
	return nil
}

// afterCommit efectos fuera de la transacción; sus fallos se registran pero no revierten nada.
func (e *MovementEngine) afterCommit(ctx context.Context, op string, u *unitOfWork) {
	if u == nil || len(u.productOrder) == 0 {
		return
	}
	if err := e.cache.Invalidate(ctx, u.productOrder...); err != nil {
		e.log.Error().Err(err).Str("op", op).Msg("no se pudo invalidar cache de stock")
	}

	events := make([]MovementEvent, 0, len(u.entries)+1)
	decreased := make(map[string]bool)
	for _, en := range u.entries {
		e.metrics.MovementRecorded(en.Kind, abs(en.Delta))
		if en.Delta < 0 && en.State == entity.EntryFinal {
			decreased[en.ProductID] = true
		}
		events = append(events, MovementEvent{
			Type:        EventMovementRecorded,
			Operation:   op,
			ProductID:   en.ProductID,
			WarehouseID: en.WarehouseID,
			Kind:        en.Kind,
			Delta:       en.Delta,
			ReferenceID: en.ReferenceID,
			Stock:       en.StockAfter,
			ActorID:     en.ActorID,
			OccurredAt:  en.CreatedAt,
		})
	}
	for _, id := range u.productOrder {
		p := u.products[id]
		if decreased[id] && p.BelowMinStock() {
			events = append(events, MovementEvent{
				Type:       EventStockLow,
				Operation:  op,
				ProductID:  p.ID,
				Stock:      p.Stock,
				MinStock:   p.MinStock,
				ActorID:    u.actorID,
				OccurredAt: u.now,
			})
		}
	}
	if len(events) == 0 {
		return
	}
	if err := e.publisher.Publish(ctx, events); err != nil {
		e.log.Error().Err(err).Str("op", op).Int("events", len(events)).Msg("no se pudieron publicar eventos de inventario")
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
