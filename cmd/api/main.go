package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/infrastructure/cache"
	"github.com/jhoicas/kardex-api/internal/infrastructure/events"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
	"github.com/jhoicas/kardex-api/internal/infrastructure/metrics"
	"github.com/jhoicas/kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Inventory.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var tx inventory.TxRunner
	switch cfg.Inventory.Store {
	case config.StoreMemory:
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		tx = memory.NewStore()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		tx = postgres.NewTxRunner(pool, postgres.TxRunnerOptions{
			Isolation:  postgres.IsolationLevel(cfg.Inventory.Isolation),
			MaxRetries: uint64(cfg.Inventory.MaxRetries),
		})
	}

	deps := inventory.EngineDeps{
		Log:       log.Zerolog(),
		TxTimeout: cfg.Inventory.TxTimeout,
	}
	if cfg.Redis.Enabled() {
		client, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		deps.Cache = cache.NewStockCache(client, cfg.Redis.StockTTL)
	}
	if cfg.NATS.Enabled() {
		nc, err := events.Connect(cfg.NATS, cfg.App.Name, log.Component("nats"))
		if err != nil {
			log.Fatal().Err(err).Str("url", cfg.NATS.URL).Msg("conexión a NATS")
		}
		defer nc.Drain()
		deps.Publisher = events.NewPublisher(nc, cfg.NATS.SubjectPrefix)
	}
	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder("")
		deps.Metrics = recorder
	}

	engine := inventory.NewMovementEngine(tx, deps)
	replenishmentUC := inventory.NewReplenishmentUseCase(tx)
	productUC := usecase.NewProductUseCase(engine, tx.Repositories().Products())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	routerDeps := httpRouter.RouterDeps{
		Engine:        engine,
		Replenishment: replenishmentUC,
		ProductUC:     productUC,
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	}
	if recorder != nil {
		routerDeps.Metrics = recorder.Handler()
	}
	httpRouter.Router(app, routerDeps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
