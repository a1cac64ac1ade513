package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/saasmesh/saasmesh/internal/envelope"
	"github.com/saasmesh/saasmesh/internal/identity"
	"github.com/saasmesh/saasmesh/internal/logger"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/port/messagequeue"
)

// FulfillmentService hands orders off to the messaging backbone. The order
// payload travels inside an envelope together with the raw credential and
// the derived tenant identity, so the consuming worker inherits the same
// tenant context this request ran under.
type FulfillmentService struct {
	queue   messagequeue.Queue
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewFulfillmentService creates a FulfillmentService.
func NewFulfillmentService(queue messagequeue.Queue, m *metrics.Metrics, log *slog.Logger) *FulfillmentService {
	return &FulfillmentService{queue: queue, metrics: m, log: log}
}

// Submit wraps the order payload in a transport envelope and publishes it.
// The payload is forwarded verbatim; only the envelope carries identity.
func (s *FulfillmentService) Submit(ctx context.Context, orderID string, payload json.RawMessage) error {
	id := identity.FromContext(ctx)
	raw := identity.CredentialFromContext(ctx)

	data, err := envelope.Encode(payload, raw, id)
	if err != nil {
		return fmt.Errorf("submit fulfillment %s: %w", orderID, err)
	}

	if err := s.queue.Publish(ctx, messagequeue.SubjectFulfillmentCompleted, data); err != nil {
		return fmt.Errorf("submit fulfillment %s: %w", orderID, err)
	}

	s.metrics.FulfillmentComplete.WithLabelValues(id.TenantTier).Inc()
	logger.Log(ctx, s.log, slog.LevelDebug, "fulfillment queued", "order_id", orderID)
	return nil
}
