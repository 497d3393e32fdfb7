// Package events publica los eventos de inventario en NATS.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/pkg/config"
)

var _ inventory.EventPublisher = (*Publisher)(nil)

// Conn lo que el publicador usa de *nats.Conn.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// Connect abre la conexión con reconexión indefinida.
func Connect(cfg config.NATSConfig, name string, log *zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats desconectado")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconectado")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar nats: %w", err)
	}
	return nc, nil
}

// Publisher serializa cada evento como JSON en <prefijo>.<tipo>, por ejemplo kardex.movement.recorded.
type Publisher struct {
	conn   Conn
	prefix string
}

// NewPublisher construye el publicador. prefix vacío usa "kardex".
func NewPublisher(conn Conn, prefix string) *Publisher {
	if prefix == "" {
		prefix = "kardex"
	}
	return &Publisher{conn: conn, prefix: prefix}
}

// Subject asunto NATS de un tipo de evento.
func (p *Publisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

// Publish envía todos los eventos y espera el flush. Un evento fallido no impide enviar el resto.
func (p *Publisher) Publish(ctx context.Context, evs []inventory.MovementEvent) error {
	if len(evs) == 0 {
		return nil
	}
	var errs []error
	for _, ev := range evs {
		data, err := json.Marshal(ev)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", ev.Type, err))
			continue
		}
		if err := p.conn.Publish(p.Subject(ev.Type), data); err != nil {
			errs = append(errs, fmt.Errorf("publish %s %s: %w", ev.Type, ev.ProductID, err))
		}
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush nats: %w", err))
	}
	return errors.Join(errs...)
}
