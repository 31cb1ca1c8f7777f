// Package common defines sentinel errors and small helpers shared by the
// AdConnect client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal    = errors.New("internal error")
	ErrUnavailable = errors.New("service unavailable")

	// Auth errors. The messages are shown to the user as is.
	ErrDuplicateAccount   = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("wrong email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailNotFound      = errors.New("email not found")
	ErrInvalidEmail       = errors.New("invalid email address")

	// Session token errors (malformed, forged or expired).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Listing provider errors.
	ErrListingFetch = errors.New("failed to fetch listings")
)
