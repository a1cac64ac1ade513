// The fulfillment binary accepts order hand-offs and publishes them to the
// message queue wrapped in tenant-context envelopes.
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
	saasnats "github.com/saasmesh/saasmesh/internal/adapter/nats"
	"github.com/saasmesh/saasmesh/internal/adapter/otel"
	"github.com/saasmesh/saasmesh/internal/config"
	"github.com/saasmesh/saasmesh/internal/logger"
	"github.com/saasmesh/saasmesh/internal/metrics"
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
		cfg.Logging.Service = "fulfillment-service"
	}
	if err := config.RequireService("NATS_URL", cfg.NATS.URL); err != nil {
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

	queue, err := saasnats.Connect(ctx, cfg.NATS.URL)
	if err != nil {
		return fmt.Errorf("nats: %w", err)
	}
	defer func() { _ = queue.Close() }()

	m := metrics.New(cfg.Logging.Service)
	fulfillments := service.NewFulfillmentService(queue, m, log)

	router := saashttp.NewFulfillmentRouter(&saashttp.FulfillmentHandlers{Fulfillments: fulfillments}, m, cfg.Logging.Service)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(ctx, ":"+cfg.Server.Port, router, log) })
	g.Go(func() error { return server.RunMetrics(ctx, ":"+cfg.Metrics.Port, m.Handler(), log) })
	return g.Wait()
}
