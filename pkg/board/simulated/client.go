// Package simulated provides freight boards whose rates are randomly
// perturbed around a base rate. They stand in for boards without a
// public API.
package simulated

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/tournevent/freightbench/pkg/board"
)

// DefaultSpread is the maximum deviation from the base rate.
const DefaultSpread = 0.15

// Preset describes a simulated board.
type Preset struct {
	Name     string
	Scope    board.Scope
	Unit     board.Unit
	BaseRate float64
}

// DomesticPresets are per-mile truckload boards.
var DomesticPresets = []Preset{
	{Name: "Truckstop", Scope: board.ScopeDomestic, Unit: board.UnitPerMile, BaseRate: 2.45},
	{Name: "123Loadboard", Scope: board.ScopeDomestic, Unit: board.UnitPerMile, BaseRate: 2.35},
	{Name: "DirectFreight", Scope: board.ScopeDomestic, Unit: board.UnitPerMile, BaseRate: 2.55},
}

// InternationalPresets are per-kilogram air/ocean benchmarks.
var InternationalPresets = []Preset{
	{Name: "Freightos", Scope: board.ScopeInternational, Unit: board.UnitPerKilogram, BaseRate: 4.20},
	{Name: "Xeneta", Scope: board.ScopeInternational, Unit: board.UnitPerKilogram, BaseRate: 3.90},
	{Name: "Flexport", Scope: board.ScopeInternational, Unit: board.UnitPerKilogram, BaseRate: 4.50},
}

// Client is a simulated board.
type Client struct {
	preset Preset
	spread float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a simulated board drawing perturbations from rng.
func New(p Preset, rng *rand.Rand) *Client {
	return &Client{preset: p, spread: DefaultSpread, rng: rng}
}

// NewAll creates one board per preset, each with its own generator
// derived from seed so runs with the same seed are reproducible.
func NewAll(presets []Preset, seed uint64) []*Client {
	clients := make([]*Client, len(presets))
	for i, p := range presets {
		clients[i] = New(p, rand.New(rand.NewPCG(seed, uint64(i)+1)))
	}
	return clients
}

// WithSpread overrides DefaultSpread.
func (c *Client) WithSpread(spread float64) *Client {
	c.spread = spread
	return c
}

// Name returns the board name.
func (c *Client) Name() string {
	return c.preset.Name
}

// Scope returns the board scope.
func (c *Client) Scope() board.Scope {
	return c.preset.Scope
}

// GetRate returns the base rate perturbed by at most the spread, in cents.
func (c *Client) GetRate(ctx context.Context, req *board.RateRequest) (*board.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	delta := (c.rng.Float64()*2 - 1) * c.spread
	c.mu.Unlock()

	rate := math.Round((c.preset.BaseRate+delta)*100) / 100
	if rate < 0 {
		rate = 0
	}

	return &board.Quote{
		Board:       c.preset.Name,
		AverageRate: rate,
		Unit:        c.preset.Unit,
		Currency:    "USD",
		RetrievedAt: time.Now(),
	}, nil
}
