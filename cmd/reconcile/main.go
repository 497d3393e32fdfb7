// reconcile concilia el kardex contra el stock de todos los productos activos.
//
// Uso: go run ./cmd/reconcile [-workers N] [-all]
// Sale con código 2 si algún producto está inconsistente.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	workers := flag.Int("workers", inventory.DefaultReconcileWorkers, "productos conciliados en paralelo")
	all := flag.Bool("all", false, "imprimir también los productos consistentes")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.Inventory.Store != config.StorePostgres {
		fmt.Fprintln(os.Stderr, "reconcile requiere INVENTORY_STORE=postgres")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "kardex-reconcile", Output: os.Stderr})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tx := postgres.NewTxRunner(pool, postgres.TxRunnerOptions{
		Isolation:  postgres.IsolationLevel(cfg.Inventory.Isolation),
		MaxRetries: uint64(cfg.Inventory.MaxRetries),
	})
	engine := inventory.NewMovementEngine(tx, inventory.EngineDeps{Log: log.Zerolog(), TxTimeout: cfg.Inventory.TxTimeout})

	reports, err := engine.ReconcileAll(ctx, *workers)
	if err != nil && !errors.Is(err, domain.ErrConsistencyViolation) {
		log.Error().Err(err).Msg("conciliación abortada")
		os.Exit(1)
	}

	inconsistent := 0
	fmt.Printf("%-36s %10s %10s %10s %10s  %s\n", "PRODUCTO", "STOCK", "BODEGAS", "KARDEX", "PENDIENTE", "ESTADO")
	for _, r := range reports {
		if !r.Consistent {
			inconsistent++
		} else if !*all {
			continue
		}
		estado := "ok"
		if !r.Consistent {
			estado = "INCONSISTENTE"
		}
		fmt.Printf("%-36s %10d %10d %10d %10d  %s\n", r.ProductID, r.ProductStock, r.WarehouseTotal, r.LedgerTotal, r.PendingTotal, estado)
	}
	log.Info().Int("productos", len(reports)).Int("inconsistentes", inconsistent).Msg("conciliación terminada")
	if inconsistent > 0 {
		os.Exit(2)
	}
}
