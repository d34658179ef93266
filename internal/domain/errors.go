package domain

import "errors"

// Sentinel errors for the domain layer.
var (
	ErrNotFound        = errors.New("domain: not found")
	ErrConflict        = errors.New("domain: conflict")
	ErrAccessDenied    = errors.New("domain: access denied")
	ErrUnauthenticated = errors.New("domain: unauthenticated")
	ErrValidation      = errors.New("domain: validation failed")
	ErrUpstream        = errors.New("domain: upstream failure")
)
