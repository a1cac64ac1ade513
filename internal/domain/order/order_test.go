package order

import (
	"errors"
	"regexp"
	"testing"

	"github.com/saasmesh/saasmesh/internal/domain"
)

func TestNewAssignsIDAndTenant(t *testing.T) {
	o, err := New("tenant-a", CreateRequest{Name: "office", Products: []string{"prod-10001"}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if o.TenantID != "tenant-a" {
		t.Fatalf("tenant wrong: %q", o.TenantID)
	}
	if !regexp.MustCompile(`^ord-\d{5}$`).MatchString(o.OrderID) {
		t.Fatalf("id %q does not match ord-NNNNN", o.OrderID)
	}
}

func TestValidate(t *testing.T) {
	if err := (CreateRequest{Name: "", Products: []string{}}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty name: expected ErrValidation, got %v", err)
	}
	if err := (CreateRequest{Name: "office"}).Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("nil products: expected ErrValidation, got %v", err)
	}
	// An empty list is a valid order; a missing list is not.
	if err := (CreateRequest{Name: "office", Products: []string{}}).Validate(); err != nil {
		t.Fatalf("empty product list rejected: %v", err)
	}
}
