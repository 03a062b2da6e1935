package board

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Registry manages registered freight boards.
type Registry struct {
	boards map[string]Board
	order  []string
	mu     sync.RWMutex
}

// NewRegistry creates a new board registry.
func NewRegistry() *Registry {
	return &Registry{
		boards: make(map[string]Board),
	}
}

// Register adds a board to the registry. Registering an existing name
// replaces the board but keeps its original position.
func (r *Registry) Register(b Board) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[b.Name()]; !ok {
		r.order = append(r.order, b.Name())
	}
	r.boards[b.Name()] = b
}

// Get returns a board by name.
func (r *Registry) Get(name string) (Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.boards[name]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, name)
}

// All returns all registered boards in registration order.
func (r *Registry) All() []Board {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Board, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.boards[name])
	}
	return result
}

// ForScope returns the boards serving a scope in registration order.
func (r *Registry) ForScope(scope Scope) []Board {
	all := r.All()
	result := make([]Board, 0, len(all))
	for _, b := range all {
		if b.Scope() == scope {
			result = append(result, b)
		}
	}
	return result
}

// Names returns the names of all registered boards in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Count returns the number of registered boards.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.boards)
}

// GetQuotes fetches rates from every board of the scope in parallel.
// Errors from individual boards are collected but don't fail the request.
// Quotes are returned in registration order.
func (r *Registry) GetQuotes(ctx context.Context, req *RateRequest, scope Scope) ([]Quote, []error) {
	boards := r.ForScope(scope)
	if len(boards) == 0 {
		return nil, []error{fmt.Errorf("%w: %s", ErrNoBoards, scope)}
	}

	slots := make([]*Quote, len(boards))
	errs := make([]error, 0)
	mu := &sync.Mutex{}

	g, ctx := errgroup.WithContext(ctx)

	for i, b := range boards {
		g.Go(func() error {
			q, err := b.GetRate(ctx, req)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
				mu.Unlock()
				return nil // Don't fail the group, continue with other boards
			}
			slots[i] = q
			return nil
		})
	}

	g.Wait()

	quotes := make([]Quote, 0, len(slots))
	for _, q := range slots {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes, errs
}
