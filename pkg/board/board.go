// Package board provides an abstraction layer over freight rate boards.
package board

import (
	"context"
)

// Board defines the interface that every freight rate source must implement.
type Board interface {
	// Name returns the board identifier shown to users (e.g., "DAT", "Truckstop").
	Name() string

	// Scope reports whether the board quotes domestic per-mile or
	// international per-kilogram rates.
	Scope() Scope

	// GetRate returns the board's average rate for a lane.
	GetRate(ctx context.Context, req *RateRequest) (*Quote, error)
}
