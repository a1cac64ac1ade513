package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/saasmesh/saasmesh/internal/adapter/otel"
	"github.com/saasmesh/saasmesh/internal/client"
	"github.com/saasmesh/saasmesh/internal/domain/order"
	"github.com/saasmesh/saasmesh/internal/logger"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/port/datastore"
)

// OrderService handles order intake and the fulfillment fan-out.
type OrderService struct {
	store       datastore.Store
	fulfillment *client.Service
	metrics     *metrics.Metrics
	log         *slog.Logger
}

// NewOrderService creates an OrderService. fulfillment may be nil in tests
// that exercise only the storage path.
func NewOrderService(store datastore.Store, fulfillment *client.Service, m *metrics.Metrics, log *slog.Logger) *OrderService {
	return &OrderService{store: store, fulfillment: fulfillment, metrics: m, log: log}
}

// Create persists a new order and dispatches it to the Fulfillment service.
// The dispatch is best-effort: a delivery failure is logged and the order
// stays committed. There is no distributed transaction; the caller sees
// success and reconciliation happens out-of-band.
func (s *OrderService) Create(ctx context.Context, req order.CreateRequest) (*order.Order, error) {
	ts, id, err := scoped(ctx, s.store)
	if err != nil {
		return nil, err
	}

	o, err := order.New(id.TenantID, req)
	if err != nil {
		return nil, err
	}

	if err := ts.PutOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if s.fulfillment != nil {
		dctx, span := otel.StartDispatchSpan(ctx, "fulfillment", o.OrderID)
		err := s.fulfillment.Dispatch(dctx, http.MethodPost, "/fulfillments/"+o.OrderID, o)
		span.End()
		if err != nil {
			logger.Log(ctx, s.log, slog.LevelWarn, "fulfillment dispatch failed",
				"order_id", o.OrderID, "error", err)
		}
	}

	s.metrics.OrdersCreated.WithLabelValues(id.TenantTier).Inc()
	logger.Log(ctx, s.log, slog.LevelDebug, "order created", "order_id", o.OrderID)
	return o, nil
}

// Get returns one order within the caller's tenant scope.
func (s *OrderService) Get(ctx context.Context, orderID string) (*order.Order, error) {
	ts, _, err := scoped(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return ts.GetOrder(ctx, orderID)
}

// List returns all orders of the caller's tenant.
func (s *OrderService) List(ctx context.Context) ([]order.Order, error) {
	ts, _, err := scoped(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return ts.ListOrders(ctx)
}
