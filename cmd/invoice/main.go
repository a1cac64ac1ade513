// The invoice binary is a background worker: it pull-consumes order
// envelopes from the queue and prices each order against the Product
// service under the tenant context the envelope carries.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	saasnats "github.com/saasmesh/saasmesh/internal/adapter/nats"
	"github.com/saasmesh/saasmesh/internal/adapter/otel"
	"github.com/saasmesh/saasmesh/internal/client"
	"github.com/saasmesh/saasmesh/internal/config"
	"github.com/saasmesh/saasmesh/internal/logger"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/port/messagequeue"
	"github.com/saasmesh/saasmesh/internal/resilience"
	"github.com/saasmesh/saasmesh/internal/server"
	"github.com/saasmesh/saasmesh/internal/service"
)

// consumerName is the durable consumer identity; it must stay stable across
// restarts so redelivery picks up where a crashed worker left off.
const consumerName = "invoice-worker"

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
		cfg.Logging.Service = "invoice-service"
	}
	if err := config.RequireService("NATS_URL", cfg.NATS.URL); err != nil {
		return err
	}
	if err := config.RequireService("PRODUCT_ENDPOINT", cfg.Services.ProductEndpoint); err != nil {
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

	if err := queue.BindConsumer(ctx, consumerName, messagequeue.SubjectFulfillmentCompleted); err != nil {
		return fmt.Errorf("nats: %w", err)
	}

	m := metrics.New(cfg.Logging.Service)
	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	products := client.New(cfg.Services.ProductEndpoint, breaker)

	worker, err := service.NewInvoiceWorker(queue, products, m, log, cfg.Worker)
	if err != nil {
		return err
	}
	defer worker.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return worker.Run(ctx) })
	g.Go(func() error { return server.RunMetrics(ctx, ":"+cfg.Metrics.Port, m.Handler(), log) })
	return g.Wait()
}
