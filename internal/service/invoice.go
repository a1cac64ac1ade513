package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/saasmesh/saasmesh/internal/adapter/otel"
	"github.com/saasmesh/saasmesh/internal/client"
	"github.com/saasmesh/saasmesh/internal/config"
	"github.com/saasmesh/saasmesh/internal/domain/order"
	"github.com/saasmesh/saasmesh/internal/domain/product"
	"github.com/saasmesh/saasmesh/internal/envelope"
	"github.com/saasmesh/saasmesh/internal/identity"
	"github.com/saasmesh/saasmesh/internal/logger"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/port/messagequeue"
)

// priceCacheTTL bounds how long a cached product price is trusted.
const priceCacheTTL = 5 * time.Minute

// InvoiceWorker pull-consumes order envelopes and prices each order by
// looking up its products in the Product service under the tenant context
// carried by the envelope. Processing is idempotent in outcome: redelivery
// recomputes the same total, and duplicate metric emission is an accepted
// trade-off of the at-least-once queue semantics.
type InvoiceWorker struct {
	queue    messagequeue.Queue
	products *client.Service
	cache    *ristretto.Cache[string, float64]
	metrics  *metrics.Metrics
	log      *slog.Logger

	batch         int
	wait          time.Duration
	maxIterations int
}

// NewInvoiceWorker creates an InvoiceWorker with the given polling config.
func NewInvoiceWorker(queue messagequeue.Queue, products *client.Service, m *metrics.Metrics, log *slog.Logger, cfg config.Worker) (*InvoiceWorker, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, float64]{
		NumCounters: 10_000,
		MaxCost:     1_000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("invoice worker: cache: %w", err)
	}

	return &InvoiceWorker{
		queue:         queue,
		products:      products,
		cache:         cache,
		metrics:       m,
		log:           log,
		batch:         cfg.Batch,
		wait:          cfg.Wait,
		maxIterations: cfg.MaxIterations,
	}, nil
}

// Run polls the queue until ctx is canceled. Fetch errors are logged and
// retried after a short pause; a single bad message never stops the loop.
func (w *InvoiceWorker) Run(ctx context.Context) error {
	for {
		if _, err := w.Drain(ctx); err != nil {
			w.log.Error("invoice drain failed", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}

// Drain fetches and processes batches until the queue reports zero messages
// or the iteration safety valve trips. It returns the number of messages
// processed, acknowledged or not.
func (w *InvoiceWorker) Drain(ctx context.Context) (int, error) {
	processed := 0
	for range w.maxIterations {
		msgs, err := w.queue.Fetch(ctx, w.batch, w.wait)
		if err != nil {
			return processed, fmt.Errorf("fetch: %w", err)
		}
		if len(msgs) == 0 {
			return processed, nil
		}

		for _, msg := range msgs {
			processed++
			if err := w.Process(ctx, msg.Data()); err != nil {
				// Failed messages are nak'd for redelivery; the loop moves on.
				w.log.Error("invoice processing failed", "error", err)
				_ = msg.Nak()
				continue
			}
			// The message is only removed once processing, including the
			// downstream product calls, has completed.
			_ = msg.Ack()
		}
	}
	return processed, nil
}

// Process prices one queued order envelope and records the invoice.
func (w *InvoiceWorker) Process(ctx context.Context, data []byte) error {
	env, err := envelope.Decode(data)
	if err != nil {
		return err
	}
	if env.Authorization == "" {
		return fmt.Errorf("envelope %s: authorization missing", env.EventID)
	}

	id := env.Identity()
	if !id.Valid() {
		return fmt.Errorf("envelope %s: no tenant identity", env.EventID)
	}

	ctx = identity.WithIdentity(ctx, id)
	ctx = identity.WithCredential(ctx, env.Authorization)
	ctx, span := otel.StartInvoiceSpan(ctx, env.EventID, id)
	defer span.End()

	var ord order.Order
	if err := env.Payload(&ord); err != nil {
		return err
	}

	total := 0.0
	for _, productID := range ord.Products {
		price, err := w.price(ctx, id.TenantID, productID)
		if err != nil {
			return fmt.Errorf("order %s: price product %s: %w", ord.OrderID, productID, err)
		}
		total += price
	}

	w.metrics.InvoiceTotalPrice.WithLabelValues(id.TenantTier).Observe(total)
	logger.Log(ctx, w.log, slog.LevelInfo, "invoice created",
		"order_id", ord.OrderID, "total_price", total)
	return nil
}

// price returns the product's price, consulting the per-tenant cache first.
// The cache key includes the tenant id so one tenant's lookups can never
// serve another's.
func (w *InvoiceWorker) price(ctx context.Context, tenantID, productID string) (float64, error) {
	key := tenantID + "/" + productID
	if v, ok := w.cache.Get(key); ok {
		return v, nil
	}

	var resp struct {
		Product product.Product `json:"product"`
	}
	if err := w.products.GetJSON(ctx, "/products/"+productID, &resp); err != nil {
		return 0, err
	}

	w.cache.SetWithTTL(key, resp.Product.Price, 1, priceCacheTTL)
	return resp.Product.Price, nil
}

// Close releases worker resources.
func (w *InvoiceWorker) Close() {
	w.cache.Close()
}
