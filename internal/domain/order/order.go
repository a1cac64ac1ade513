// Package order defines the order domain type.
package order

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/saasmesh/saasmesh/internal/domain"
)

// Order is a placed order. Records are append-only and always persisted
// under the tenant partition of the request that created them.
type Order struct {
	TenantID    string   `json:"-"`
	OrderID     string   `json:"order_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Products    []string `json:"products"`
}

// CreateRequest is the POST /orders body. Products holds product ids.
type CreateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Products    []string `json:"products"`
}

// New builds an Order with a generated id from a validated request.
func New(tenantID string, req CreateRequest) (*Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Order{
		TenantID:    tenantID,
		OrderID:     NewID(),
		Name:        req.Name,
		Description: req.Description,
		Products:    req.Products,
	}, nil
}

// Validate checks the request body shape. An empty product list is valid
// (an order may be amended out-of-band); a nil one is not.
func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if r.Products == nil {
		return fmt.Errorf("%w: products is required", domain.ErrValidation)
	}
	return nil
}

// NewID returns a generated order id of the form ord-XXXXX.
func NewID() string {
	return fmt.Sprintf("ord-%05d", rand.IntN(90000)+10000)
}
