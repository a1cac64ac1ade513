package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/saasmesh/saasmesh/internal/domain"
	"github.com/saasmesh/saasmesh/internal/middleware"
	"github.com/saasmesh/saasmesh/internal/vendor"
)

// VendorHandlers holds the token-vendor sidecar HTTP handlers.
type VendorHandlers struct {
	Provider vendor.Provider
}

// NewVendorRouter assembles the token-vendor router. There is no tenant-auth
// group: the exchange endpoint itself is the point where the credential is
// first inspected.
func NewVendorRouter(h *VendorHandlers) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/health", healthHandler("status", "Ok!"))
	r.Get("/", h.exchange)

	return r
}

func (h *VendorHandlers) exchange(w http.ResponseWriter, r *http.Request) {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "BearerToken missing!")
		return
	}

	token, err := h.Provider.Exchange(r.Context(), raw)
	if err != nil {
		if errors.Is(err, domain.ErrTenantClaim) {
			writeError(w, http.StatusBadRequest, "Failed to parse claims!")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed vending credentials!")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"Credentials": token,
		"TenantId":    token.TenantID,
		"TenantTier":  token.TenantTier,
	})
}
