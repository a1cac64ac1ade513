package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/saasmesh/saasmesh/internal/adapter/otel"
	"github.com/saasmesh/saasmesh/internal/domain"
	"github.com/saasmesh/saasmesh/internal/domain/order"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/middleware"
	"github.com/saasmesh/saasmesh/internal/service"
)

// OrderHandlers holds the Order service HTTP handlers.
type OrderHandlers struct {
	Orders *service.OrderService
}

// NewOrderRouter assembles the Order service router.
func NewOrderRouter(h *OrderHandlers, m *metrics.Metrics, serviceName string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(otel.HTTPMiddleware(serviceName))
	r.Use(m.Middleware("orders"))

	r.Get("/orders/health", healthHandler("message", "Status is Ok!"))

	r.Group(func(r chi.Router) {
		r.Use(middleware.TenantAuth)
		r.Get("/orders", h.list)
		r.Post("/orders", h.create)
		r.Get("/orders/{order_id}", h.get)
	})

	return r
}

func (h *OrderHandlers) list(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		if writeClientError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to get all orders!")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"msg": "GET successful!", "orders": orders})
}

func (h *OrderHandlers) get(w http.ResponseWriter, r *http.Request) {
	orderID := urlParam(r, "order_id")

	o, err := h.Orders.Get(r.Context(), orderID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"msg": "Order not found!", "order_id": orderID,
			})
		case writeClientError(w, err):
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"msg": "Unable to get order!", "order_id": orderID,
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"msg": "GET successful!", "order": o})
}

func (h *OrderHandlers) create(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[order.CreateRequest](w, r, "Error reading order!")
	if !ok {
		return
	}

	// Order creation answers 200, not 201; existing clients depend on it.
	o, err := h.Orders.Create(r.Context(), req)
	if err != nil {
		if writeClientError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to save order!")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"msg": "Order created", "order": o})
}
