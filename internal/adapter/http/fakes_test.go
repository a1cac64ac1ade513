package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/saasmesh/saasmesh/internal/domain"
	"github.com/saasmesh/saasmesh/internal/domain/order"
	"github.com/saasmesh/saasmesh/internal/domain/product"
	"github.com/saasmesh/saasmesh/internal/identity"
	"github.com/saasmesh/saasmesh/internal/port/datastore"
)

// fakeStore is an in-memory datastore keyed the same way the real schema is:
// every record lives under its tenant partition. Calls counts every storage
// operation so tests can assert the auth gate kept storage untouched.
type fakeStore struct {
	mu       sync.Mutex
	products map[string]map[string]product.Product
	orders   map[string]map[string]order.Order
	calls    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]map[string]product.Product{},
		orders:   map[string]map[string]order.Order{},
	}
}

func (s *fakeStore) ForTenant(id identity.TenantIdentity) datastore.TenantStore {
	return &fakeTenantStore{store: s, tenant: id.TenantID}
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeTenantStore struct {
	store  *fakeStore
	tenant string
}

func (t *fakeTenantStore) PutProduct(_ context.Context, p *product.Product) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.calls++
	if t.store.products[t.tenant] == nil {
		t.store.products[t.tenant] = map[string]product.Product{}
	}
	t.store.products[t.tenant][p.ProductID] = *p
	return nil
}

func (t *fakeTenantStore) GetProduct(_ context.Context, productID string) (*product.Product, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.calls++
	p, ok := t.store.products[t.tenant][productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (t *fakeTenantStore) ListProducts(_ context.Context) ([]product.Product, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.calls++
	var out []product.Product
	for _, p := range t.store.products[t.tenant] {
		out = append(out, p)
	}
	return out, nil
}

func (t *fakeTenantStore) PutOrder(_ context.Context, o *order.Order) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.calls++
	if t.store.orders[t.tenant] == nil {
		t.store.orders[t.tenant] = map[string]order.Order{}
	}
	t.store.orders[t.tenant][o.OrderID] = *o
	return nil
}

func (t *fakeTenantStore) GetOrder(_ context.Context, orderID string) (*order.Order, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.calls++
	o, ok := t.store.orders[t.tenant][orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (t *fakeTenantStore) ListOrders(_ context.Context) ([]order.Order, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.calls++
	var out []order.Order
	for _, o := range t.store.orders[t.tenant] {
		out = append(out, o)
	}
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// bearerFor signs a credential carrying the tenant claims. The signing key
// does not matter; services decode without verification.
func bearerFor(t *testing.T, tenantID, tier string) string {
	t.Helper()
	claims := jwt.MapClaims{identity.ClaimTenantID: tenantID}
	if tier != "" {
		claims[identity.ClaimTenantTier] = tier
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func authed(req *http.Request, credential string) *http.Request {
	req.Header.Set("Authorization", credential)
	return req
}
