package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/saasmesh/saasmesh/internal/adapter/otel"
	"github.com/saasmesh/saasmesh/internal/metrics"
	"github.com/saasmesh/saasmesh/internal/middleware"
	"github.com/saasmesh/saasmesh/internal/service"
)

// FulfillmentHandlers holds the Fulfillment service HTTP handlers.
type FulfillmentHandlers struct {
	Fulfillments *service.FulfillmentService
}

// NewFulfillmentRouter assembles the Fulfillment service router.
func NewFulfillmentRouter(h *FulfillmentHandlers, m *metrics.Metrics, serviceName string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(otel.HTTPMiddleware(serviceName))
	r.Use(m.Middleware("fulfillments"))

	r.Get("/fulfillments/health", healthHandler("Status", "OK!"))

	r.Group(func(r chi.Router) {
		r.Use(middleware.TenantAuth)
		r.Post("/fulfillments/{order_id}", h.submit)
	})

	return r
}

// submit forwards the order body to the messaging backbone. The payload is
// not reinterpreted here: it is wrapped verbatim in the transport envelope.
func (h *FulfillmentHandlers) submit(w http.ResponseWriter, r *http.Request) {
	orderID := urlParam(r, "order_id")

	body, ok := readJSON[json.RawMessage](w, r, "Error reading order!")
	if !ok {
		return
	}

	if err := h.Fulfillments.Submit(r.Context(), orderID, body); err != nil {
		if writeClientError(w, err) {
			return
		}
		writeError(w, http.StatusInternalServerError, "Unable to submit fulfillment request!")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "Fulfillment successful", "order_id": orderID})
}
