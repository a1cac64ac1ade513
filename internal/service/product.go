// Package service implements the business logic of each SaaSMesh service
// on top of the storage and queue ports. Every operation derives its tenant
// scope from the request context; no method accepts a tenant id directly.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/saasmesh/saasmesh/internal/domain"
	"github.com/saasmesh/saasmesh/internal/domain/product"
	"github.com/saasmesh/saasmesh/internal/identity"
	"github.com/saasmesh/saasmesh/internal/logger"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/port/datastore"
)

// ProductService handles the product catalog.
type ProductService struct {
	store   datastore.Store
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewProductService creates a ProductService.
func NewProductService(store datastore.Store, m *metrics.Metrics, log *slog.Logger) *ProductService {
	return &ProductService{store: store, metrics: m, log: log}
}

// scoped returns the tenant-scoped handle for ctx. The auth middleware has
// already rejected requests without a tenant id; this is the last line of
// defense before storage.
func scoped(ctx context.Context, store datastore.Store) (datastore.TenantStore, identity.TenantIdentity, error) {
	id := identity.FromContext(ctx)
	if !id.Valid() {
		return nil, id, domain.ErrTenantClaim
	}
	return store.ForTenant(id), id, nil
}

// Create persists a new product under the caller's tenant partition.
func (s *ProductService) Create(ctx context.Context, req product.CreateRequest) (*product.Product, error) {
	ts, id, err := scoped(ctx, s.store)
	if err != nil {
		return nil, err
	}

	p, err := product.New(id.TenantID, req)
	if err != nil {
		return nil, err
	}

	if err := ts.PutProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.metrics.ProductsCreated.WithLabelValues(id.TenantTier).Inc()
	logger.Log(ctx, s.log, slog.LevelDebug, "product created", "product_id", p.ProductID)
	return p, nil
}

// Get returns one product within the caller's tenant scope.
func (s *ProductService) Get(ctx context.Context, productID string) (*product.Product, error) {
	ts, _, err := scoped(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return ts.GetProduct(ctx, productID)
}

// List returns all products of the caller's tenant.
func (s *ProductService) List(ctx context.Context) ([]product.Product, error) {
	ts, _, err := scoped(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return ts.ListProducts(ctx)
}
