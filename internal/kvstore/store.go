// Package kvstore provides the string key-value persistence used for the
// route cache, the search quota counter and accounts.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a persistent string key-value store.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// SetIfAbsent stores value only when key has no value yet and
	// reports whether it was stored.
	SetIfAbsent(ctx context.Context, key, value string) (bool, error)

	// IncrementBelow adds one to the integer counter under key when its
	// current value (zero if absent) is below limit. It returns the value
	// after the call and whether it was incremented. The check and the
	// write are a single atomic step for every caller sharing the store.
	IncrementBelow(ctx context.Context, key string, limit int) (int, bool, error)
}

// ParseCounter reads a counter value written by IncrementBelow.
func ParseCounter(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("kvstore: corrupt counter %q: %w", v, err)
	}
	return n, nil
}
