package benchmark

import (
	"errors"

	"github.com/tournevent/freightbench/pkg/distance"
)

// ErrQuotaExhausted is returned when the free search quota is used up.
// Callers should send the user to sign-up.
var ErrQuotaExhausted = errors.New("free search quota exhausted")

// MissingLocationMessage is shown when a search lacks an origin or destination.
const MissingLocationMessage = "Please enter both an origin and a destination."

// ValidationError reports unusable search input.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return MissingLocationMessage
}

// UserMessage maps a search error to the text shown to the user.
func UserMessage(err error) string {
	var verr *ValidationError
	var lerr *distance.LookupError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrQuotaExhausted):
		return "You have used your free search. Sign up to keep benchmarking."
	case errors.As(err, &lerr):
		return lerr.UserMessage()
	default:
		return distance.LookupMessage
	}
}
