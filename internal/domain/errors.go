package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrListingNotFound  = errors.New("listing_not_found")
	ErrStrategyNotFound = errors.New("strategy_not_found")
)

// ValidationError represents a request validation failure. Requests are
// rejected before any store access; invalid numerics are never clamped to
// a default, since that could mask caller bugs.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
