// Package mock provides a fixed-rate board implementation for testing.
package mock

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/tournevent/freightbench/pkg/board"
)

// Client is a mock board returning a fixed rate.
type Client struct {
	name  string
	scope board.Scope
	unit  board.Unit
	rate  float64
	err   error
	delay time.Duration
	calls atomic.Int32
}

// New creates a domestic mock board quoting 2.50 USD per mile.
func New(name string) *Client {
	return &Client{
		name:  name,
		scope: board.ScopeDomestic,
		unit:  board.UnitPerMile,
		rate:  2.50,
	}
}

// NewInternational creates an international mock board quoting per kilogram.
func NewInternational(name string, rate float64) *Client {
	return &Client{
		name:  name,
		scope: board.ScopeInternational,
		unit:  board.UnitPerKilogram,
		rate:  rate,
	}
}

// WithRate sets the quoted rate.
func (c *Client) WithRate(rate float64) *Client {
	c.rate = rate
	return c
}

// WithError makes every GetRate call fail with err.
func (c *Client) WithError(err error) *Client {
	c.err = err
	return c
}

// WithDelay makes GetRate wait before answering.
func (c *Client) WithDelay(d time.Duration) *Client {
	c.delay = d
	return c
}

// Calls returns how many times GetRate was invoked.
func (c *Client) Calls() int {
	return int(c.calls.Load())
}

// Name returns the board name.
func (c *Client) Name() string {
	return c.name
}

// Scope returns the board scope.
func (c *Client) Scope() board.Scope {
	return c.scope
}

// GetRate returns the fixed mock rate.
func (c *Client) GetRate(ctx context.Context, req *board.RateRequest) (*board.Quote, error) {
	c.calls.Add(1)
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	return &board.Quote{
		Board:       c.name,
		AverageRate: c.rate,
		Unit:        c.unit,
		Currency:    "USD",
		RetrievedAt: time.Now(),
	}, nil
}
