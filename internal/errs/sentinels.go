// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Failure classes produced by the request pipeline.
var (
	// ErrUnauthorized indicates the stored credential was rejected or expired.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the request was rejected due to invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates no usable response was obtained (network error,
	// timeout or server-side failure).
	ErrUnavailable = errors.New("service unavailable")
)
