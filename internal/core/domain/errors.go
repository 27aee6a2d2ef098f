package domain

import "errors"

// Sentinel errors for portal state operations.
var (
	// ErrNotAuthenticated indicates no session is present for an operation
	// that requires one.
	// HTTP Status: 401 Unauthorized
	ErrNotAuthenticated = errors.New("user not authenticated")
)
