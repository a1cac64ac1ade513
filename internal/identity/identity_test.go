package identity_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/saasmesh/saasmesh/internal/identity"
)

// signToken builds a token with the given claims. The signing key is
// irrelevant: the decoder never verifies signatures.
func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestDecodeTenantClaims(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{
		identity.ClaimTenantID:   "tenant-a",
		identity.ClaimTenantTier: "premium",
	})

	id := identity.Decode(raw)
	if id.TenantID != "tenant-a" {
		t.Fatalf("expected tenant-a, got %q", id.TenantID)
	}
	if id.TenantTier != "premium" {
		t.Fatalf("expected premium, got %q", id.TenantTier)
	}
	if !id.Valid() {
		t.Fatal("expected valid identity")
	}
}

func TestDecodeStripsBearerPrefix(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{identity.ClaimTenantID: "tenant-a"})

	id := identity.Decode("Bearer " + raw)
	if id.TenantID != "tenant-a" {
		t.Fatalf("expected tenant-a, got %q", id.TenantID)
	}
}

func TestDecodeMissingTenantClaim(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"sub": "someone"})

	id := identity.Decode(raw)
	if id.Valid() {
		t.Fatalf("expected invalid identity, got %+v", id)
	}
}

func TestDecodeMissingTierOnly(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{identity.ClaimTenantID: "tenant-a"})

	id := identity.Decode(raw)
	if !id.Valid() {
		t.Fatal("tenant id alone should be valid")
	}
	if id.TenantTier != "" {
		t.Fatalf("expected empty tier, got %q", id.TenantTier)
	}
}

func TestDecodeMalformedToken(t *testing.T) {
	for _, raw := range []string{"", "Bearer ", "not-a-jwt", "Bearer a.b", "a.b.c"} {
		id := identity.Decode(raw)
		if id.Valid() {
			t.Fatalf("malformed input %q yielded valid identity", raw)
		}
	}
}

func TestDecodeNonStringClaim(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{identity.ClaimTenantID: 42})

	id := identity.Decode(raw)
	if id.Valid() {
		t.Fatal("numeric tenant claim should yield invalid identity")
	}
}

func TestContextRoundTrip(t *testing.T) {
	id := identity.TenantIdentity{TenantID: "tenant-a", TenantTier: "basic"}
	ctx := identity.WithIdentity(context.Background(), id)
	ctx = identity.WithCredential(ctx, "Bearer xyz")

	if got := identity.FromContext(ctx); got != id {
		t.Fatalf("expected %+v, got %+v", id, got)
	}
	if got := identity.CredentialFromContext(ctx); got != "Bearer xyz" {
		t.Fatalf("expected credential, got %q", got)
	}
}

func TestContextEmpty(t *testing.T) {
	ctx := context.Background()
	if identity.FromContext(ctx).Valid() {
		t.Fatal("empty context should yield invalid identity")
	}
	if identity.CredentialFromContext(ctx) != "" {
		t.Fatal("empty context should yield empty credential")
	}
}
