package identity

import "context"

// Private key types prevent collisions with other context keys.
type identityCtxKey struct{}
type credentialCtxKey struct{}

// WithIdentity returns a context carrying the derived tenant identity.
func WithIdentity(ctx context.Context, id TenantIdentity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// FromContext returns the tenant identity stored in ctx. The zero identity
// is returned when none was derived; callers must check Valid().
func FromContext(ctx context.Context) TenantIdentity {
	id, _ := ctx.Value(identityCtxKey{}).(TenantIdentity)
	return id
}

// WithCredential returns a context carrying the raw bearer credential, so
// downstream calls can forward it verbatim.
func WithCredential(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, credentialCtxKey{}, raw)
}

// CredentialFromContext returns the raw bearer credential from ctx, or ""
// if none was attached.
func CredentialFromContext(ctx context.Context) string {
	raw, _ := ctx.Value(credentialCtxKey{}).(string)
	return raw
}
