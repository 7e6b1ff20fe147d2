// Package common defines shared constants and sentinel errors used across
// the skywatch server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal           = errors.New("internal error")
	ErrorInvalidInput       = errors.New("invalid input")
	ErrorInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Collaborator errors.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
