// Package client implements the tenant-scoped HTTP client used for
// service-to-service calls. Every outbound request forwards the raw bearer
// credential verbatim plus the already-derived tenant identity as explicit
// headers, so the receiving side can skip re-decoding and the routing layer
// can make tier-aware decisions without parsing the credential.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/saasmesh/saasmesh/internal/domain"
	"github.com/saasmesh/saasmesh/internal/identity"
	"github.com/saasmesh/saasmesh/internal/resilience"
)

// Transport metadata headers for the derived tenant identity.
const (
	HeaderTenantID   = "x-app-tenant-id"
	HeaderTenantTier = "x-app-tier"
)

// DeliveryError is the typed outcome of a failed best-effort dispatch.
// Callers on fire-and-forget paths log it and keep going; callers needing
// stronger guarantees must add retry or outbox logic themselves.
type DeliveryError struct {
	Method string
	URL    string
	Status int // 0 when the request never got a response
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery failed: %s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("delivery failed: %s %s: status %d", e.Method, e.URL, e.Status)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Service is an HTTP client bound to one downstream service address.
type Service struct {
	base    string
	httpc   *http.Client
	breaker *resilience.Breaker
}

// New creates a Service for the given base address ("host:port" or full URL).
// The transport is OTel-instrumented and calls pass through the circuit
// breaker; a nil breaker disables breaking.
func New(base string, breaker *resilience.Breaker) *Service {
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Service{
		base: strings.TrimSuffix(base, "/"),
		httpc: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		breaker: breaker,
	}
}

// Dispatch performs a best-effort call with a JSON body and discards the
// response body. Any failure, transport or non-2xx, is reported as a
// *DeliveryError; nil means the downstream acknowledged with 2xx.
func (s *Service) Dispatch(ctx context.Context, method, path string, body any) error {
	do := func() error {
		resp, err := s.do(ctx, method, path, body)
		if err != nil {
			return &DeliveryError{Method: method, URL: s.base + path, Err: err}
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &DeliveryError{Method: method, URL: s.base + path, Status: resp.StatusCode}
		}
		return nil
	}

	if s.breaker == nil {
		return do()
	}
	if err := s.breaker.Execute(do); err != nil {
		var de *DeliveryError
		if errors.As(err, &de) {
			return de
		}
		return &DeliveryError{Method: method, URL: s.base + path, Err: err}
	}
	return nil
}

// GetJSON performs a GET and decodes the 200 response body into out.
// A 404 maps to domain.ErrNotFound; any other non-2xx status is an error.
// Calls pass through the circuit breaker like Dispatch does, but a 404 does
// not count as a failure: it is a healthy downstream saying no.
func (s *Service) GetJSON(ctx context.Context, path string, out any) error {
	if s.breaker == nil {
		return s.getJSON(ctx, path, out)
	}

	var reqErr error
	err := s.breaker.Execute(func() error {
		reqErr = s.getJSON(ctx, path, out)
		if errors.Is(reqErr, domain.ErrNotFound) {
			return nil
		}
		return reqErr
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("get %s: %w", path, err)
	}
	return reqErr
}

func (s *Service) getJSON(ctx context.Context, path string, out any) error {
	resp, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("get %s: %w", path, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("get %s: decode: %w", path, err)
	}
	return nil
}

// do builds and executes one request with the tenant context headers from ctx.
func (s *Service) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	setTenantHeaders(req, ctx)

	return s.httpc.Do(req)
}

// setTenantHeaders forwards the raw credential and the derived identity.
// The credential goes out unchanged so the receiver can decode its own
// claims; the identity fields ride alongside as explicit metadata.
func setTenantHeaders(req *http.Request, ctx context.Context) {
	raw := identity.CredentialFromContext(ctx)
	if raw != "" {
		req.Header.Set("Authorization", raw)
	}

	id := identity.FromContext(ctx)
	if !id.Valid() && raw != "" {
		id = identity.Decode(raw)
	}
	if id.Valid() {
		req.Header.Set(HeaderTenantID, id.TenantID)
		req.Header.Set(HeaderTenantTier, id.TenantTier)
	}
}
