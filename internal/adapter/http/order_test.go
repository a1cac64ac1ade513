package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	saashttp "github.com/saasmesh/saasmesh/internal/adapter/http"
	"github.com/saasmesh/saasmesh/internal/client"
	"github.com/saasmesh/saasmesh/internal/domain/order"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/service"
)

var orderIDPattern = regexp.MustCompile(`^ord-\d{5}$`)

func newOrderRouter(t *testing.T, store *fakeStore, fulfillment *client.Service) chi.Router {
	t.Helper()
	orders := service.NewOrderService(store, fulfillment, metrics.New("order-test"), discardLogger())
	return saashttp.NewOrderRouter(&saashttp.OrderHandlers{Orders: orders}, metrics.New("order-test"), "order-test")
}

func TestOrderCreateReturns200(t *testing.T) {
	router := newOrderRouter(t, newFakeStore(), nil)
	cred := bearerFor(t, "tenant-a", "premium")

	body := strings.NewReader(`{"name":"office","description":"desk setup","products":["prod-10001","prod-10002"]}`)
	req := authed(httptest.NewRequest(http.MethodPost, "/orders", body), cred)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Msg   string      `json:"msg"`
		Order order.Order `json:"order"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !orderIDPattern.MatchString(resp.Order.OrderID) {
		t.Fatalf("order id %q does not match ord-NNNNN", resp.Order.OrderID)
	}
	if len(resp.Order.Products) != 2 {
		t.Fatalf("products not preserved: %+v", resp.Order.Products)
	}
}

func TestOrderCreateEmptyProductListAllowed(t *testing.T) {
	router := newOrderRouter(t, newFakeStore(), nil)

	req := authed(httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"name":"empty","products":[]}`)), bearerFor(t, "tenant-a", "basic"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("empty product list should be valid, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestOrderCreateRejectsInvalid(t *testing.T) {
	router := newOrderRouter(t, newFakeStore(), nil)
	cred := bearerFor(t, "tenant-a", "basic")

	for name, body := range map[string]string{
		"empty name":   `{"name":"","products":[]}`,
		"nil products": `{"name":"office"}`,
		"malformed":    `not json`,
	} {
		req := authed(httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)), cred)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestOrderCommittedWhenFulfillmentDown(t *testing.T) {
	// The fulfillment hand-off is best-effort. A failing downstream must not
	// roll back the order or surface as an error to the caller.
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer downstream.Close()

	store := newFakeStore()
	router := newOrderRouter(t, store, client.New(downstream.URL, nil))
	cred := bearerFor(t, "tenant-a", "basic")

	req := authed(httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"name":"office","products":["prod-10001"]}`)), cred)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite downstream failure, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Order order.Order `json:"order"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// The order is retrievable afterwards.
	req = authed(httptest.NewRequest(http.MethodGet, "/orders/"+created.Order.OrderID, nil), cred)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("order not retrievable after failed dispatch: %d", rec.Code)
	}
}

func TestOrderDispatchCarriesTenantContext(t *testing.T) {
	var gotAuth, gotTenant string
	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotTenant = r.Header.Get(client.HeaderTenantID)
	}))
	defer downstream.Close()

	router := newOrderRouter(t, newFakeStore(), client.New(downstream.URL, nil))
	cred := bearerFor(t, "tenant-a", "premium")

	req := authed(httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"name":"office","products":[]}`)), cred)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotAuth != cred {
		t.Fatalf("credential not forwarded: %q", gotAuth)
	}
	if gotTenant != "tenant-a" {
		t.Fatalf("tenant header not forwarded: %q", gotTenant)
	}
}

func TestOrderCrossTenantIsolation(t *testing.T) {
	router := newOrderRouter(t, newFakeStore(), nil)

	req := authed(httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"name":"office","products":[]}`)), bearerFor(t, "tenant-a", "basic"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var created struct {
		Order order.Order `json:"order"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	req = authed(httptest.NewRequest(http.MethodGet, "/orders/"+created.Order.OrderID, nil),
		bearerFor(t, "tenant-b", "basic"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-tenant read, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Order not found!") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestOrderListEmptyIsArray(t *testing.T) {
	router := newOrderRouter(t, newFakeStore(), nil)

	req := authed(httptest.NewRequest(http.MethodGet, "/orders", nil), bearerFor(t, "tenant-a", "basic"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"orders":[]`) {
		t.Fatalf("empty listing must be an array, got: %s", rec.Body.String())
	}
}

func TestOrderAuthGateBlocksStorage(t *testing.T) {
	store := newFakeStore()
	router := newOrderRouter(t, store, nil)

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"name":"x","products":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if n := store.callCount(); n != 0 {
		t.Fatalf("storage touched %d times by rejected request", n)
	}
}
