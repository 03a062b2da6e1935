// Package quota limits the number of free searches before sign-up is required.
package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/tournevent/freightbench/internal/kvstore"
)

// DefaultKey is the storage key of the process-wide counter.
const DefaultKey = "searchCount"

// DefaultLimit is the number of free searches.
const DefaultLimit = 1

// State is the gate state.
type State string

const (
	StateAvailable State = "available"
	StateExhausted State = "exhausted"
)

// Decision is the outcome of a consume or status call.
type Decision struct {
	Allowed   bool
	Remaining int
	State     State
}

// Gate is a persisted counter of consumed searches. The counter only ever
// grows: there is no reset and no expiry. Gates sharing one store share the
// counter, and the store's conditional increment keeps them within the limit.
type Gate struct {
	store kvstore.Store
	key   string
	limit int
}

// New creates a gate over store. A limit below zero is treated as zero.
func New(store kvstore.Store, limit int) *Gate {
	if limit < 0 {
		limit = 0
	}
	return &Gate{store: store, key: DefaultKey, limit: limit}
}

// Limit returns the number of free searches.
func (g *Gate) Limit() int {
	return g.limit
}

// TryConsume takes one search from the quota. Once the counter reaches the
// limit the gate is exhausted and further calls leave the counter untouched.
func (g *Gate) TryConsume(ctx context.Context) (Decision, error) {
	count, allowed, err := g.store.IncrementBelow(ctx, g.key, g.limit)
	if err != nil {
		return Decision{}, fmt.Errorf("quota: consume: %w", err)
	}
	return g.decide(count, allowed), nil
}

// Status returns the current state without consuming.
func (g *Gate) Status(ctx context.Context) (Decision, error) {
	count, err := g.count(ctx)
	if err != nil {
		return Decision{}, err
	}
	return g.decide(count, count < g.limit), nil
}

func (g *Gate) decide(count int, allowed bool) Decision {
	remaining := g.limit - count
	if remaining < 0 {
		remaining = 0
	}
	state := StateAvailable
	if remaining == 0 {
		state = StateExhausted
	}
	return Decision{Allowed: allowed, Remaining: remaining, State: state}
}

func (g *Gate) count(ctx context.Context) (int, error) {
	v, err := g.store.Get(ctx, g.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("quota: load counter: %w", err)
	}
	n, err := kvstore.ParseCounter(v)
	if err != nil {
		return 0, fmt.Errorf("quota: %w", err)
	}
	return n, nil
}
