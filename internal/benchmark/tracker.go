package benchmark

import (
	"context"
	"errors"
	"sync"

	"github.com/tournevent/freightbench/pkg/lane"
)

// ErrSuperseded is returned to a search that finished after a newer one started.
var ErrSuperseded = errors.New("search superseded by a newer search")

// Status is the phase of the latest search.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// State is a snapshot of the latest search. Result is set only on success;
// Err and Message only on failure.
type State struct {
	Status     Status
	Generation uint64
	Route      lane.Route
	Result     *RouteResult
	Err        error
	Message    string
}

// Searcher runs a single search and publishes accepted results.
type Searcher interface {
	Search(ctx context.Context, route lane.Route) (*RouteResult, error)
	Publish(res *RouteResult)
}

// Tracker owns the search state. Starting a search cancels the one in
// flight, and a search that is no longer the latest neither writes state
// nor publishes its summary.
type Tracker struct {
	searcher Searcher

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State
	last   *RouteResult
}

// NewTracker creates an idle tracker.
func NewTracker(s Searcher) *Tracker {
	return &Tracker{
		searcher: s,
		state:    State{Status: StatusIdle},
	}
}

// Run starts a search and waits for it.
func (t *Tracker) Run(ctx context.Context, route lane.Route) (*RouteResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen := t.gen
	t.cancel = cancel
	t.state = State{Status: StatusLoading, Generation: gen, Route: route}
	t.mu.Unlock()

	res, err := t.searcher.Search(ctx, route)

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		return nil, ErrSuperseded
	}
	t.cancel = nil
	if err != nil {
		t.state = State{
			Status:     StatusFailed,
			Generation: gen,
			Route:      route,
			Err:        err,
			Message:    UserMessage(err),
		}
		return nil, err
	}
	t.state = State{Status: StatusSuccess, Generation: gen, Route: route, Result: res}
	t.last = res
	t.searcher.Publish(res)
	return res, nil
}

// State returns the current snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// LastResult returns the most recent successful result, or nil.
func (t *Tracker) LastResult() *RouteResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}
