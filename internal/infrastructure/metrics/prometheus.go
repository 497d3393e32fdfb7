// Package metrics expone las métricas del motor de inventario en formato Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

var _ inventory.Metrics = (*Recorder)(nil)

// Resultados de operación usados como etiqueta.
const (
	ResultOK                = "ok"
	ResultTimeout           = "timeout"
	ResultConflict          = "conflict"
	ResultInsufficientStock = "insufficient_stock"
	ResultInvalid           = "invalid"
	ResultNotFound          = "not_found"
	ResultError             = "error"
)

// Recorder implementa inventory.Metrics sobre un registry propio.
//
// Thread Safety: seguro para uso concurrente.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	movements  *prometheus.CounterVec
	units      *prometheus.CounterVec
}

// NewRecorder registra las métricas bajo el namespace dado (por defecto "kardex").
func NewRecorder(namespace string) *Recorder {
	if namespace == "" {
		namespace = "kardex"
	}
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Operaciones del motor de inventario por resultado.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duración de cada unidad de trabajo, incluidos reintentos.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_entries_total",
			Help:      "Movimientos anexados al kardex por tipo.",
		}, []string{"kind"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_units_total",
			Help:      "Unidades movidas (valor absoluto del delta) por tipo.",
		}, []string{"kind"}),
	}
	r.registry.MustRegister(
		r.operations, r.duration, r.movements, r.units,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveOperation cuenta la operación y su duración.
func (r *Recorder) ObserveOperation(operation string, elapsed time.Duration, err error) {
	r.operations.WithLabelValues(operation, Classify(err)).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// MovementRecorded cuenta un movimiento confirmado.
func (r *Recorder) MovementRecorded(kind entity.MovementKind, quantity int64) {
	r.movements.WithLabelValues(string(kind)).Inc()
	r.units.WithLabelValues(string(kind)).Add(float64(quantity))
}

// Registry para exponer o inspeccionar en tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler endpoint /metrics del registry propio.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Classify reduce un error del motor a una etiqueta de baja cardinalidad.
func Classify(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrOperationTimedOut):
		return ResultTimeout
	case errors.Is(err, domain.ErrInsufficientStock):
		return ResultInsufficientStock
	case errors.Is(err, domain.ErrConflict):
		return ResultConflict
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrNotFound):
		return ResultNotFound
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidAdjustment),
		errors.Is(err, domain.ErrInvalidTransfer), errors.Is(err, domain.ErrTransferNotPending),
		errors.Is(err, domain.ErrPurchaseNotPending), errors.Is(err, domain.ErrDuplicate):
		return ResultInvalid
	default:
		return ResultError
	}
}
