// Package identity derives and carries the tenant identity extracted from
// a bearer credential. The identity is derived once per inbound request or
// message and is immutable for its lifetime.
package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claim keys carrying the tenant identity inside the bearer token.
const (
	ClaimTenantID   = "custom:tenant_id"
	ClaimTenantTier = "custom:tenant_tier"
)

// TenantIdentity is the identity of the tenant on whose behalf a request
// runs. A zero TenantID means the credential carried no usable tenant claim;
// callers must treat that as a terminal validation failure before touching
// any storage.
type TenantIdentity struct {
	TenantID   string
	TenantTier string
}

// Valid reports whether the identity names a tenant.
func (id TenantIdentity) Valid() bool {
	return id.TenantID != ""
}

// Decode extracts the tenant identity from a raw bearer credential.
// The "Bearer " prefix is stripped if present. Claims are read without
// verifying the token signature; verification is a documented gap of this
// design, not an oversight of the decoder. Malformed input yields a zero
// identity, never an error.
func Decode(raw string) TenantIdentity {
	token := StripBearer(raw)
	if token == "" {
		return TenantIdentity{}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TenantIdentity{}
	}

	id, _ := claims[ClaimTenantID].(string)
	tier, _ := claims[ClaimTenantTier].(string)
	return TenantIdentity{TenantID: id, TenantTier: tier}
}

// StripBearer removes a leading "Bearer " scheme from an Authorization
// header value.
func StripBearer(raw string) string {
	return strings.TrimPrefix(raw, "Bearer ")
}
