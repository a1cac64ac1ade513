// Package middleware provides HTTP middleware shared by the SaaSMesh services.
package middleware

import (
	"net/http"

	"github.com/saasmesh/saasmesh/internal/identity"
)

// tenantClaimError is the wire message returned when no tenant id could be
// derived from the request credential.
const tenantClaimError = `{"msg":"Unable to read 'tenantId' claim from JWT."}`

// TenantAuth derives the tenant identity from the Authorization header and
// stores it, together with the raw credential, in the request context.
// Requests whose credential yields no tenant id are rejected with 400 before
// any handler, and therefore any storage access, runs. Health routes are
// mounted outside this middleware.
func TenantAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		id := identity.Decode(raw)
		if !id.Valid() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(tenantClaimError))
			return
		}

		ctx := identity.WithIdentity(r.Context(), id)
		ctx = identity.WithCredential(ctx, raw)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
