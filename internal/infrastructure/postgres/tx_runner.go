package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunnerOptions nivel de aislamiento y política de reintentos ante conflictos.
type TxRunnerOptions struct {
	Isolation  pgx.TxIsoLevel
	MaxRetries uint64
	BaseDelay  time.Duration
}

// IsolationLevel traduce el nombre configurado (read_committed, repeatable_read, serializable).
func IsolationLevel(name string) pgx.TxIsoLevel {
	switch name {
	case "serializable":
		return pgx.Serializable
	case "repeatable_read":
		return pgx.RepeatableRead
	default:
		return pgx.ReadCommitted
	}
}

// TxRunner ejecuta unidades de trabajo dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts TxRunnerOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts TxRunnerOptions) *TxRunner {
	if opts.Isolation == "" {
		opts.Isolation = pgx.ReadCommitted
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 20 * time.Millisecond
	}
	return &TxRunner{pool: pool, opts: opts}
}

// RunAtomic inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Fallas de serialización, deadlocks y conflictos de versión repiten fn completa con backoff exponencial.
func (r *TxRunner) RunAtomic(ctx context.Context, fn func(ctx context.Context, repos inventory.Repositories) error) error {
	backoff := retry.WithMaxRetries(r.opts.MaxRetries, retry.NewExponential(r.opts.BaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.runOnce(ctx, fn)
		if err != nil && isRetryable(err) && ctx.Err() == nil {
			return retry.RetryableError(err)
		}
		return err
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos inventory.Repositories) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.opts.Isolation})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(ctx, NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Repositories repos sobre el pool, para lecturas fuera de una unidad de trabajo.
func (r *TxRunner) Repositories() inventory.Repositories {
	return NewRepositories(r.pool)
}
