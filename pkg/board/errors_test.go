package board_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/freightbench/pkg/board"
)

func TestBoardError_Error(t *testing.T) {
	err := board.NewBoardError("DAT", "LANE_NOT_COVERED", "No data for lane")
	assert.Equal(t, "DAT error (LANE_NOT_COVERED): No data for lane", err.Error())
}

func TestBoardError_ErrorWithCause(t *testing.T) {
	cause := errors.New("network timeout")
	err := board.NewBoardError("DAT", "API_ERROR", "API call failed").WithCause(cause)
	assert.Contains(t, err.Error(), "API call failed")
	assert.Contains(t, err.Error(), "network timeout")
}

func TestBoardError_Unwrap(t *testing.T) {
	cause := errors.New("network timeout")
	err := board.NewBoardError("DAT", "API_ERROR", "API call failed").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestBoardError_Is(t *testing.T) {
	err1 := board.NewBoardError("DAT", "LANE_NOT_COVERED", "No data")
	err2 := board.NewBoardError("Truckstop", "LANE_NOT_COVERED", "Different message")

	// Same code should match
	assert.True(t, errors.Is(err1, err2))
}

func TestBoardError_IsNot(t *testing.T) {
	err1 := board.NewBoardError("DAT", "LANE_NOT_COVERED", "No data")
	err2 := board.NewBoardError("DAT", "AUTH_ERROR", "Different error")

	assert.False(t, errors.Is(err1, err2))
}

func TestBoardError_WithStatusCode(t *testing.T) {
	err := board.NewBoardError("DAT", "AUTH_ERROR", "Unauthorized").WithStatusCode(401)
	assert.Equal(t, 401, err.StatusCode)
}

func TestQuote_PerMile(t *testing.T) {
	assert.True(t, board.Quote{Unit: board.UnitPerMile}.PerMile())
	assert.False(t, board.Quote{Unit: board.UnitPerKilogram}.PerMile())
}
