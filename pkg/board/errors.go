package board

import (
	"errors"
	"fmt"
)

// BoardError represents an error from a freight rate board.
type BoardError struct {
	Board      string
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *BoardError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Board, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Board, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *BoardError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for BoardError.
func (e *BoardError) Is(target error) bool {
	t, ok := target.(*BoardError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewBoardError creates a new BoardError.
func NewBoardError(board, code, message string) *BoardError {
	return &BoardError{
		Board:   board,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *BoardError) WithCause(err error) *BoardError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *BoardError) WithStatusCode(code int) *BoardError {
	e.StatusCode = code
	return e
}

// Sentinel errors for common board scenarios.
var (
	// ErrLaneNotCovered indicates the board has no data for the lane.
	ErrLaneNotCovered = errors.New("lane not covered")

	// ErrServiceUnavailable indicates the board is temporarily unavailable.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrAuthenticationFailed indicates board authentication failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRateLimitExceeded indicates the board rate limit was exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrBoardNotFound indicates the requested board is not registered.
	ErrBoardNotFound = errors.New("board not found")

	// ErrNoBoards indicates no board is registered for the requested scope.
	ErrNoBoards = errors.New("no boards for scope")
)

