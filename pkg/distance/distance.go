// Package distance estimates lane mileage between two free-form locations.
package distance

import (
	"context"
	"math"
	"strings"

	"github.com/tournevent/freightbench/pkg/geo"
	"golang.org/x/sync/errgroup"
)

// Provider names accepted by NewByName.
const (
	ProviderHaversine = "haversine"
	ProviderRouting   = "routing"
)

// Provider returns the distance between two locations in whole miles.
type Provider interface {
	// Name identifies the strategy (e.g., "haversine", "routing").
	Name() string

	// Distance fails with *LookupError when either location cannot be resolved.
	Distance(ctx context.Context, origin, destination string) (int, error)
}

// Geocoder resolves a location to a coordinate.
type Geocoder interface {
	Coordinate(ctx context.Context, location string) (geo.Coordinate, error)
}

// Router reports the road distance between two locations in miles.
type Router interface {
	DrivingMiles(ctx context.Context, from, to string) (float64, error)
}

// LocalHaversine geocodes both ends and applies the haversine formula.
// The result is a straight-line approximation, not road distance.
type LocalHaversine struct {
	geocoder Geocoder
}

// NewLocalHaversine creates a haversine provider over the given geocoder.
func NewLocalHaversine(g Geocoder) *LocalHaversine {
	return &LocalHaversine{geocoder: g}
}

func (p *LocalHaversine) Name() string { return ProviderHaversine }

// Distance geocodes origin and destination concurrently. If either lookup
// fails the whole estimate fails; there is no partial result.
func (p *LocalHaversine) Distance(ctx context.Context, origin, destination string) (int, error) {
	var from, to geo.Coordinate

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := p.geocoder.Coordinate(gctx, origin)
		if err != nil {
			return &LookupError{Location: origin, Cause: err}
		}
		from = c
		return nil
	})
	g.Go(func() error {
		c, err := p.geocoder.Coordinate(gctx, destination)
		if err != nil {
			return &LookupError{Location: destination, Cause: err}
		}
		to = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return geo.Miles(from, to), nil
}

// DelegatedRouting takes the road distance from an external directions call.
type DelegatedRouting struct {
	router Router
}

// NewDelegatedRouting creates a routing provider.
func NewDelegatedRouting(r Router) *DelegatedRouting {
	return &DelegatedRouting{router: r}
}

func (p *DelegatedRouting) Name() string { return ProviderRouting }

// Distance rounds the reported road distance to the nearest mile.
func (p *DelegatedRouting) Distance(ctx context.Context, origin, destination string) (int, error) {
	miles, err := p.router.DrivingMiles(ctx, origin, destination)
	if err != nil {
		return 0, &LookupError{Location: origin + " -> " + destination, Cause: err}
	}
	return int(math.Round(miles)), nil
}

// Backend is a lookup service able to serve both strategies.
type Backend interface {
	Geocoder
	Router
}

// NewByName returns a Provider by strategy name.
// Unknown or empty names fall back to the haversine strategy.
func NewByName(name string, backend Backend) Provider {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProviderRouting:
		return NewDelegatedRouting(backend)
	default:
		return NewLocalHaversine(backend)
	}
}
