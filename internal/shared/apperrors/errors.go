package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and controllers. Controllers map
// these to HTTP status codes; services return them without knowing about HTTP.
var (
	ErrEventNotFound   = errors.New("event not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrInvalidQuantity = errors.New("qty must be a positive integer")
	ErrInvalidID       = errors.New("invalid id")
)

// InsufficientSeatsError reports a reservation that failed because the
// section held fewer seats than requested. Available is a best-effort
// snapshot read after the failed attempt and may already be stale.
type InsufficientSeatsError struct {
	Requested int
	Available int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("not enough seats available. requested: %d, available: %d", e.Requested, e.Available)
}

// IsInsufficientSeats unwraps err into an InsufficientSeatsError if one is
// present anywhere in the chain.
func IsInsufficientSeats(err error) (*InsufficientSeatsError, bool) {
	var target *InsufficientSeatsError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
