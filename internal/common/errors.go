// Package common defines shared sentinel errors used across the client and
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Authentication / session errors.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAlreadyLoggedIn      = errors.New("user already logged in")
	ErrNotLoggedIn          = errors.New("user not logged in")

	// Domain errors.
	ErrDuplicateParticipant = errors.New("participant already exists")
)
