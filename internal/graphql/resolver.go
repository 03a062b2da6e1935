// Package graphql serves the benchmark services over GraphQL.
package graphql

import (
	"context"

	"github.com/tournevent/freightbench/internal/account"
	"github.com/tournevent/freightbench/internal/benchmark"
	"github.com/tournevent/freightbench/internal/compare"
	"github.com/tournevent/freightbench/pkg/board"
	"github.com/tournevent/freightbench/pkg/lane"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Searches   *benchmark.Service
	Tracker    *benchmark.Tracker
	Registry   *board.Registry
	Comparator *compare.Comparator
	Accounts   *account.Service
	Logger     *otelzap.Logger
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(
	searches *benchmark.Service,
	tracker *benchmark.Tracker,
	registry *board.Registry,
	comparator *compare.Comparator,
	accounts *account.Service,
	logger *otelzap.Logger,
) *Resolver {
	return &Resolver{
		Searches:   searches,
		Tracker:    tracker,
		Registry:   registry,
		Comparator: comparator,
		Accounts:   accounts,
		Logger:     logger,
	}
}

// Query returns the query resolver.
func (r *Resolver) Query() *QueryResolver { return &QueryResolver{r} }

// Mutation returns the mutation resolver.
func (r *Resolver) Mutation() *MutationResolver { return &MutationResolver{r} }

// QueryResolver resolves the Query root type.
type QueryResolver struct{ *Resolver }

func (r *QueryResolver) Health(ctx context.Context) (bool, error) {
	return true, nil
}

func (r *QueryResolver) Boards(ctx context.Context) ([]*Board, error) {
	all := r.Registry.All()
	out := make([]*Board, len(all))
	for i, b := range all {
		out[i] = NewBoard(b)
	}
	return out, nil
}

func (r *QueryResolver) Quota(ctx context.Context) (*Quota, error) {
	d, err := r.Searches.Quota(ctx)
	if err != nil {
		return nil, err
	}
	return NewQuota(d, r.Searches.QuotaLimit()), nil
}

func (r *QueryResolver) SearchState(ctx context.Context) (*SearchState, error) {
	return NewSearchState(r.Tracker.State()), nil
}

// MarketAverage is null until a search has completed.
func (r *QueryResolver) MarketAverage(ctx context.Context) (*float64, error) {
	avg, ok := r.Comparator.MarketAverage()
	if !ok {
		return nil, nil
	}
	return &avg, nil
}

func (r *QueryResolver) Estimate(ctx context.Context, origin, destination string) (*Estimate, error) {
	miles, cached, err := r.Searches.Estimate(ctx, lane.New(origin, destination))
	if err != nil {
		return nil, err
	}
	return &Estimate{Mileage: miles, FromCache: cached}, nil
}

func (r *QueryResolver) Plans(ctx context.Context) ([]*Plan, error) {
	out := make([]*Plan, len(account.Plans))
	for i, p := range account.Plans {
		out[i] = NewPlan(p)
	}
	return out, nil
}

func (r *QueryResolver) Account(ctx context.Context, email string) (*Account, error) {
	a, err := r.Accounts.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	return NewAccount(a), nil
}

// MutationResolver resolves the Mutation root type.
type MutationResolver struct{ *Resolver }

func (r *MutationResolver) Search(ctx context.Context, origin, destination string) (*SearchResult, error) {
	res, err := r.Tracker.Run(ctx, lane.New(origin, destination))
	if err != nil {
		r.Logger.Ctx(ctx).Info("GraphQL search failed", zap.Error(err))
		return nil, err
	}
	return NewSearchResult(res), nil
}

func (r *MutationResolver) CompareRate(ctx context.Context, rate string) (*Comparison, error) {
	c, err := r.Comparator.Compare(rate)
	if err != nil {
		return nil, err
	}
	return NewComparison(c), nil
}

func (r *MutationResolver) SignUp(ctx context.Context, input SignUpInput) (*Account, error) {
	req := account.SignUpRequest{Email: input.Email, Password: input.Password}
	if input.Plan != nil {
		req.Plan = *input.Plan
	}
	a, err := r.Accounts.SignUp(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewAccount(a), nil
}

func (r *MutationResolver) LogIn(ctx context.Context, email, password string) (*Account, error) {
	a, err := r.Accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return NewAccount(a), nil
}
