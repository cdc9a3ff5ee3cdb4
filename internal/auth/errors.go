package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when username or password is wrong.
	// Deliberately the same for both so callers cannot probe accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrSessionNotFound is returned for unknown or expired session tokens.
	ErrSessionNotFound = errors.New("session not found")
)
