// Package routecache remembers the mileage of every route searched so far.
//
// Keys are built from the raw origin and destination text: lookups are
// order- and case-sensitive and no normalization is applied, so "10001"
// and "10001-0000" are different entries. Entries never expire.
package routecache

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/tournevent/freightbench/internal/kvstore"
	"github.com/tournevent/freightbench/pkg/lane"
)

const keyPrefix = "mileage:"

// Cache maps routes to previously computed mileage.
type Cache struct {
	store kvstore.Store
}

// New creates a cache over store.
func New(store kvstore.Store) *Cache {
	return &Cache{store: store}
}

// Key returns the storage key for a route.
func Key(r lane.Route) string {
	return keyPrefix + string(r.Origin) + "|" + string(r.Destination)
}

// Get returns the cached mileage and whether the route was present.
func (c *Cache) Get(ctx context.Context, r lane.Route) (int, bool, error) {
	v, err := c.store.Get(ctx, Key(r))
	if errors.Is(err, kvstore.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("routecache: get: %w", err)
	}

	miles, err := strconv.Atoi(v)
	if err != nil || miles < 0 {
		// A corrupt entry behaves like a miss and is overwritten on the next Put.
		return 0, false, nil
	}
	return miles, true, nil
}

// Put stores the mileage for a route.
func (c *Cache) Put(ctx context.Context, r lane.Route, miles int) error {
	if miles < 0 {
		return fmt.Errorf("routecache: negative mileage %d", miles)
	}
	if err := c.store.Set(ctx, Key(r), strconv.Itoa(miles)); err != nil {
		return fmt.Errorf("routecache: put: %w", err)
	}
	return nil
}
