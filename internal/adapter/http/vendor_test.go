package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	saashttp "github.com/saasmesh/saasmesh/internal/adapter/http"
	"github.com/saasmesh/saasmesh/internal/vendor"
)

func TestVendorHealth(t *testing.T) {
	router := saashttp.NewVendorRouter(&saashttp.VendorHandlers{Provider: vendor.Passthrough{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"Ok!"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestVendorExchange(t *testing.T) {
	minter := vendor.NewMinter("vendor-secret", 15*time.Minute)
	router := saashttp.NewVendorRouter(&saashttp.VendorHandlers{Provider: minter})

	req := authed(httptest.NewRequest(http.MethodGet, "/", nil), bearerFor(t, "tenant-a", "premium"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Credentials vendor.ScopedToken `json:"Credentials"`
		TenantID    string             `json:"TenantId"`
		TenantTier  string             `json:"TenantTier"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TenantID != "tenant-a" || resp.TenantTier != "premium" {
		t.Fatalf("scope wrong: %+v", resp)
	}
	if resp.Credentials.AccessToken == "" {
		t.Fatal("no token vended")
	}
}

func TestVendorExchangeMissingCredential(t *testing.T) {
	router := saashttp.NewVendorRouter(&saashttp.VendorHandlers{Provider: vendor.Passthrough{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "BearerToken missing!") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestVendorExchangeBadClaims(t *testing.T) {
	router := saashttp.NewVendorRouter(&saashttp.VendorHandlers{Provider: vendor.Passthrough{}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Failed to parse claims!") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
