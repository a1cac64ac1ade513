// Package datastore defines the storage port. The central contract is the
// scoped handle: callers obtain a TenantStore bound to one tenant partition
// and can, by construction, neither read nor write outside it.
package datastore

import (
	"context"

	"github.com/saasmesh/saasmesh/internal/domain/order"
	"github.com/saasmesh/saasmesh/internal/domain/product"
	"github.com/saasmesh/saasmesh/internal/identity"
)

// Store produces tenant-scoped handles.
type Store interface {
	// ForTenant binds a handle to the given tenant's partition. The handle
	// carries the tenant id in the key material of every operation.
	ForTenant(id identity.TenantIdentity) TenantStore
}

// TenantStore is a storage handle restricted to one tenant partition.
// All records are append-only; there are no update or delete operations.
type TenantStore interface {
	PutProduct(ctx context.Context, p *product.Product) error
	GetProduct(ctx context.Context, productID string) (*product.Product, error)
	ListProducts(ctx context.Context) ([]product.Product, error)

	PutOrder(ctx context.Context, o *order.Order) error
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
}
