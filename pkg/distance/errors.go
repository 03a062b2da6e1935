package distance

import (
	"errors"
	"fmt"
)

// LookupMessage is the user-facing text for any failed mileage lookup.
const LookupMessage = "Failed to fetch mileage. Please try again."

// LookupError is returned when geocoding or routing fails for a search.
type LookupError struct {
	Location string
	Cause    error
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("mileage lookup for %q: %v", e.Location, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LookupError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the text to show instead of the raw cause.
func (e *LookupError) UserMessage() string {
	return LookupMessage
}

// IsLookupError reports whether err is or wraps a *LookupError.
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}
