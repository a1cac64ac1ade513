// Package http provides the HTTP handlers and routers for the SaaSMesh
// services. Responses carry a human-readable "msg" field plus the relevant
// identifier, never an internal error string.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/saasmesh/saasmesh/internal/domain"
)

const maxRequestBodySize = 1 << 20 // 1 MB

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request, onError string) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, onError)
		return v, false
	}
	return v, true
}

// urlParam is a short alias for chi.URLParam.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// writeError writes the standard error body {"msg": ...}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

// writeClientError maps the 400-class domain sentinels; it reports whether
// err was one of them. Errors outside the taxonomy are left to the caller's
// 500 path so internal detail never reaches the wire.
func writeClientError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": "))
		return true
	case errors.Is(err, domain.ErrTenantClaim):
		writeError(w, http.StatusBadRequest, "Unable to read 'tenantId' claim from JWT.")
		return true
	}
	return false
}

// healthHandler returns a fixed single-field health body. The field name
// varies per service for wire compatibility.
func healthHandler(field, value string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{field: value})
	}
}
