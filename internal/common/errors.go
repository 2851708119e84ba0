// Package common defines shared constants and sentinel errors used across
// the client and server layers of SeNiko. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreWriteFailed = errors.New("store write failed")
	ErrStoreReadFailed  = errors.New("store read failed")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrValidation     = errors.New("validation error")

	// Startup errors. A missing signing key is one of these.
	ErrConfiguration = errors.New("configuration error")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
