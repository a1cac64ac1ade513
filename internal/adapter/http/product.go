package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/saasmesh/saasmesh/internal/adapter/otel"
	"github.com/saasmesh/saasmesh/internal/domain"
	"github.com/saasmesh/saasmesh/internal/domain/product"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/middleware"
	"github.com/saasmesh/saasmesh/internal/service"
)

// ProductHandlers holds the Product service HTTP handlers.
type ProductHandlers struct {
	Products *service.ProductService
}

// NewProductRouter assembles the Product service router. The health route
// is mounted outside the tenant-auth group; every other route refuses to
// run without a derived tenant identity.
func NewProductRouter(h *ProductHandlers, m *metrics.Metrics, serviceName string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(otel.HTTPMiddleware(serviceName))
	r.Use(m.Middleware("products"))

	r.Get("/products/health", healthHandler("message", "Status is Ok!"))

	r.Group(func(r chi.Router) {
		r.Use(middleware.TenantAuth)
		r.Get("/products", h.list)
		r.Post("/products", h.create)
		r.Get("/products/{product_id}", h.get)
	})

	return r
}

func (h *ProductHandlers) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.Products.List(r.Context())
	if err != nil {
		if writeClientError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to get products!")
		return
	}
	if products == nil {
		products = []product.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (h *ProductHandlers) get(w http.ResponseWriter, r *http.Request) {
	productID := urlParam(r, "product_id")

	p, err := h.Products.Get(r.Context(), productID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"msg": "Product not found!", "product_id": productID,
			})
		case writeClientError(w, err):
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"msg": "Unable to get product!", "product_id": productID,
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"msg": "GET successful!", "product": p})
}

func (h *ProductHandlers) create(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[product.CreateRequest](w, r, "Error reading product!")
	if !ok {
		return
	}

	p, err := h.Products.Create(r.Context(), req)
	if err != nil {
		if writeClientError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to create product")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"msg": "Product created", "product": p})
}
