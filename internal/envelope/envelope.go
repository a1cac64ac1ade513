// Package envelope implements the transport envelope used for cross-process
// hand-off of domain payloads: the payload travels together with the raw
// bearer credential and the already-derived tenant identity, so a consumer
// can either trust the explicit tenant fields or re-derive them from the
// credential.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/saasmesh/saasmesh/internal/identity"
)

// Envelope wraps a domain payload for queue and event-bus transport.
// Order is carried verbatim as raw JSON: an encode/decode round-trip
// preserves the payload byte-for-byte.
type Envelope struct {
	EventID       string          `json:"eventId"`
	Order         json.RawMessage `json:"order"`
	Authorization string          `json:"authorization"`
	TenantID      string          `json:"tenantId,omitempty"`
	TenantTier    string          `json:"tenantTier,omitempty"`
}

// ErrEmptyPayload is returned when an envelope carries no payload.
var ErrEmptyPayload = errors.New("envelope: empty payload")

// Encode serializes payload plus credential and tenant identity into
// envelope bytes. The EventID is producer-assigned and used only for log
// correlation on the consuming side.
func Encode(payload any, rawCredential string, id identity.TenantIdentity) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal payload: %w", err)
	}

	env := Envelope{
		EventID:       uuid.NewString(),
		Order:         body,
		Authorization: rawCredential,
		TenantID:      id.TenantID,
		TenantTier:    id.TenantTier,
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal: %w", err)
	}
	return data, nil
}

// Decode is the inverse of Encode.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("envelope: unmarshal: %w", err)
	}
	if len(env.Order) == 0 {
		return nil, ErrEmptyPayload
	}
	return &env, nil
}

// Identity returns the tenant identity carried by the envelope. When the
// explicit tenant fields are absent (older producer), the identity is
// re-derived from the forwarded credential instead of failing.
func (e *Envelope) Identity() identity.TenantIdentity {
	if e.TenantID != "" {
		return identity.TenantIdentity{TenantID: e.TenantID, TenantTier: e.TenantTier}
	}
	return identity.Decode(e.Authorization)
}

// Payload unmarshals the carried domain payload into v.
func (e *Envelope) Payload(v any) error {
	if err := json.Unmarshal(e.Order, v); err != nil {
		return fmt.Errorf("envelope: unmarshal payload: %w", err)
	}
	return nil
}
