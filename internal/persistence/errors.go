package persistence

import (
	"errors"
	"fmt"
)

// Sentinel errors for the response classes callers branch on. Everything
// else surfaces as *APIError with the raw status and body, no retry.
var (
	// ErrUnauthorized maps 401 responses. Callers treat it as "no data" so
	// public views degrade gracefully for anonymous users.
	ErrUnauthorized = errors.New("persistence: unauthorized")

	// ErrForbidden maps 403 responses (acting on someone else's resource).
	ErrForbidden = errors.New("persistence: forbidden")

	// ErrNotFound maps 404 responses.
	ErrNotFound = errors.New("persistence: not found")

	// ErrDuplicate maps the 400-class "already in the watchlist" response
	// from link creation. It gets its own user-facing message.
	ErrDuplicate = errors.New("persistence: duplicate watchlist membership")
)

// APIError is any upstream failure without a dedicated sentinel. The body
// is kept verbatim so the caller can show the raw server error.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("persistence: status %d: %s", e.Status, e.Body)
}
