// The order binary serves multi-tenant order intake and fans completed
// writes out to the Fulfillment service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	saashttp "github.com/saasmesh/saasmesh/internal/adapter/http"
	"github.com/saasmesh/saasmesh/internal/adapter/otel"
	"github.com/saasmesh/saasmesh/internal/adapter/postgres"
	"github.com/saasmesh/saasmesh/internal/client"
	"github.com/saasmesh/saasmesh/internal/config"
	"github.com/saasmesh/saasmesh/internal/logger"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/resilience"
	"github.com/saasmesh/saasmesh/internal/server"
	"github.com/saasmesh/saasmesh/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.Logging.Service == "" {
		cfg.Logging.Service = "order-service"
	}
	if err := config.RequireService("DATABASE_URL", cfg.Postgres.DSN); err != nil {
		return err
	}
	if err := config.RequireService("FULFILLMENT_ENDPOINT", cfg.Services.FulfillmentEndpoint); err != nil {
		return err
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := otel.InitTracer(ctx, cfg.Tracing, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("postgres connected, migrations applied")

	m := metrics.New(cfg.Logging.Service)
	store := postgres.NewStore(pool)

	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	fulfillment := client.New(cfg.Services.FulfillmentEndpoint, breaker)
	orders := service.NewOrderService(store, fulfillment, m, log)

	router := saashttp.NewOrderRouter(&saashttp.OrderHandlers{Orders: orders}, m, cfg.Logging.Service)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx, ":"+cfg.Server.Port, router, log) })
	g.Go(func() error { return server.RunMetrics(ctx, ":"+cfg.Metrics.Port, m.Handler(), log) })
	return g.Wait()
}
