// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested record does not exist within the
// caller's tenant partition.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates a malformed request body.
var ErrValidation = errors.New("validation failed")

// ErrTenantClaim indicates the bearer credential carries no tenant_id claim.
// A request failing with this error must produce zero storage side effects.
var ErrTenantClaim = errors.New("unable to read 'tenantId' claim from JWT")
