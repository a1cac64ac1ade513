// Package product defines the product catalog domain type.
package product

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/saasmesh/saasmesh/internal/domain"
)

// Product is a catalog entry. Records are append-only: once created they
// are never updated or deleted. TenantID is the partition key and must be
// set on every persisted record.
type Product struct {
	TenantID    string  `json:"-"`
	ProductID   string  `json:"productId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// CreateRequest is the POST /products body.
type CreateRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// New builds a Product with a generated id from a validated request.
// The id has a short random suffix; global uniqueness is best-effort.
func New(tenantID string, req CreateRequest) (*Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Product{
		TenantID:    tenantID,
		ProductID:   NewID(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}, nil
}

// Validate checks the request body shape.
func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if r.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", domain.ErrValidation)
	}
	return nil
}

// NewID returns a generated product id of the form prod-XXXXX.
func NewID() string {
	return fmt.Sprintf("prod-%05d", rand.IntN(90000)+10000)
}
