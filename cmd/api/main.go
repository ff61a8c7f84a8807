package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	_ "time/tzdata"

	appanalytics "github.com/jhoicas/stock-sync/internal/application/analytics"
	"github.com/jhoicas/stock-sync/internal/application/pricing"
	"github.com/jhoicas/stock-sync/internal/application/stock"
	"github.com/jhoicas/stock-sync/internal/domain/decay"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
	infraanalytics "github.com/jhoicas/stock-sync/internal/infrastructure/analytics"
	"github.com/jhoicas/stock-sync/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-sync/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-sync/internal/infrastructure/postgres"
	infrapricing "github.com/jhoicas/stock-sync/internal/infrastructure/pricing"
	"github.com/jhoicas/stock-sync/internal/infrastructure/seed"
	"github.com/jhoicas/stock-sync/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/stock-sync/internal/interfaces/http"
	"github.com/jhoicas/stock-sync/pkg/config"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stock-sync: %v\n", err)
		os.Exit(1)
	}
}

// run arma la aplicación y bloquea hasta recibir una señal de apagado. Los errores de arranque
// se devuelven para que los cierres diferidos se ejecuten antes de salir.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	runner, closeRunner, err := openRunner(ctx, cfg.DB, logger.NewTxObserver(log))
	if err != nil {
		return err
	}
	defer closeRunner()

	seedSource, err := seed.Open(ctx, cfg.Stock.File, seed.S3Config{
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		PathStyle:       cfg.S3.PathStyle,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return fmt.Errorf("fuente semilla: %w", err)
	}

	// Analítica: log + Prometheus + (opcional) stream de Redis.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsSink, err := infraanalytics.NewMetricsSink(registry)
	if err != nil {
		return fmt.Errorf("métricas: %w", err)
	}
	sinks := []appanalytics.Analytics{infraanalytics.NewLoggingSink(log.Zerolog()), metricsSink}

	var redisSink *infraanalytics.RedisStreamSink
	if cfg.Analytics.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Analytics.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Analytics.RedisAddr).Msg("Redis no disponible, analítica solo local")
			_ = rdb.Close()
		} else {
			defer func() { _ = rdb.Close() }()
			redisSink = infraanalytics.NewRedisStreamSink(rdb, cfg.Analytics.RedisStream, cfg.Analytics.Buffer, log.Zerolog())
			sinks = append(sinks, redisSink)
		}
	}
	events := appanalytics.Safe(appanalytics.Multi(sinks...))

	policy, err := entity.ParsePricePolicy(cfg.Pricing.NegativePolicy)
	if err != nil {
		return fmt.Errorf("política de precios: %w", err)
	}
	pricingClient, err := infrapricing.NewValueElfClient(cfg.Pricing.URL, policy, &http.Client{Timeout: cfg.Pricing.Timeout})
	if err != nil {
		return fmt.Errorf("cliente de precios: %w", err)
	}

	zone, err := cfg.Stock.Location()
	if err != nil {
		return err
	}

	stockUC := stock.NewUseCase(stock.UseCaseDeps{
		Items:     stock.NewDualItems(seedSource, runner, events, log.Zerolog()),
		Stock:     stock.NewStock(zone, decay.Restamp, log.Zerolog()),
		Pricing:   pricingClient.Price,
		Analytics: events,
		PricingOptions: pricing.Options{
			MaxAttempts: cfg.Pricing.MaxAttempts,
			Timeout:     cfg.Pricing.Timeout,
			Concurrency: cfg.Pricing.Concurrency,
		},
		Report: infrapdf.NewStockReportGenerator(cfg.App.Name),
		Log:    log.Zerolog(),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC: stockUC,
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

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
	if redisSink != nil {
		if err := redisSink.Close(shutdownCtx); err != nil {
			log.Warn().Err(err).Int64("dropped", redisSink.Dropped()).Msg("cierre de analítica Redis")
		}
	}

	log.Info().Msg("aplicación detenida")
	return nil
}

// openRunner abre la fuente durable según DB_DRIVER. El cierre devuelto libera el pool o la
// base; para memoria no hace nada.
func openRunner(ctx context.Context, cfg config.DBConfig, observer repository.TxObserver) (stock.TxRunner, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("esquema PostgreSQL: %w", err)
			}
		}
		return postgres.NewTxRunner(pool, observer), pool.Close, nil
	case "sqlite":
		store, err := sqlite.Open(cfg.SQLitePath, observer)
		if err != nil {
			return nil, nil, fmt.Errorf("abrir SQLite: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case "memory", "":
		return memory.NewStore(memory.WithObserver(observer)), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("DB_DRIVER inválido: %q", cfg.Driver)
	}
}
