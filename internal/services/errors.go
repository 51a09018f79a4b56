// Package services holds the business logic between the HTTP handlers and the
// repository layer. Failures surface as typed sentinel errors that handlers
// translate to status codes.
package services

import "errors"

var (
	// ErrUnauthorized covers invalid, missing or expired credentials, both
	// owner JWTs and guest tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means an authenticated owner touched a resource they do
	// not own. Guest paths never use it; cross-project access from a guest
	// manifests as ErrNotFound so existence is not confirmed.
	ErrForbidden = errors.New("forbidden")

	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
