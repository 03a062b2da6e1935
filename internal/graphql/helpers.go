package graphql

import (
	"errors"
	"time"

	"github.com/tournevent/freightbench/internal/account"
	"github.com/tournevent/freightbench/internal/benchmark"
	"github.com/tournevent/freightbench/internal/compare"
	"github.com/tournevent/freightbench/internal/quota"
	"github.com/tournevent/freightbench/internal/rates"
	"github.com/tournevent/freightbench/pkg/board"
	"github.com/tournevent/freightbench/pkg/distance"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Error codes reported in the "code" extension.
const (
	CodeValidation     = "VALIDATION"
	CodeQuotaExhausted = "QUOTA_EXHAUSTED"
	CodeLookupFailed   = "LOOKUP_FAILED"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeSuperseded     = "SUPERSEDED"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInternal       = "INTERNAL"
)

func scopeToEnum(s board.Scope) string {
	if s == board.ScopeInternational {
		return ScopeInternational
	}
	return ScopeDomestic
}

func unitToEnum(u board.Unit) string {
	if u == board.UnitPerKilogram {
		return UnitPerKG
	}
	return UnitPerMile
}

// NewBoard describes a registered board.
func NewBoard(b board.Board) *Board {
	return &Board{Name: b.Name(), Scope: scopeToEnum(b.Scope())}
}

// NewQuota converts a quota decision.
func NewQuota(d quota.Decision, limit int) *Quota {
	state := QuotaAvailable
	if d.State == quota.StateExhausted {
		state = QuotaExhausted
	}
	return &Quota{
		Allowed:   d.Allowed,
		Remaining: d.Remaining,
		Limit:     limit,
		State:     state,
	}
}

func newQuote(l rates.Line) *Quote {
	return &Quote{
		Board:       l.Quote.Board,
		AverageRate: rates.Round2(l.Quote.AverageRate),
		Unit:        unitToEnum(l.Quote.Unit),
		Currency:    l.Quote.Currency,
		TotalCost:   l.TotalCost,
	}
}

// NewSearchResult converts a search result. A nil result stays nil.
func NewSearchResult(res *benchmark.RouteResult) *SearchResult {
	if res == nil {
		return nil
	}
	out := &SearchResult{
		Origin:            string(res.Route.Origin),
		Destination:       string(res.Route.Destination),
		Mileage:           res.Mileage,
		International:     res.International,
		FromCache:         res.FromCache,
		Quotes:            make([]*Quote, len(res.Summary.Lines)),
		AverageRate:       rates.Round2(res.Summary.AverageRate),
		BoardErrors:       make([]string, len(res.BoardErrors)),
		SearchesRemaining: res.Quota.Remaining,
	}
	for i, l := range res.Summary.Lines {
		out.Quotes[i] = newQuote(l)
		if res.Summary.TopCarrier == &res.Summary.Lines[i].Quote {
			out.TopCarrier = out.Quotes[i]
		}
	}
	for i, err := range res.BoardErrors {
		out.BoardErrors[i] = err.Error()
	}
	return out
}

// NewSearchState converts a tracker snapshot.
func NewSearchState(s benchmark.State) *SearchState {
	out := &SearchState{Generation: s.Generation}
	switch s.Status {
	case benchmark.StatusLoading:
		out.Status = StatusLoading
	case benchmark.StatusSuccess:
		out.Status = StatusSuccess
		out.Result = NewSearchResult(s.Result)
	case benchmark.StatusFailed:
		out.Status = StatusFailed
		out.Message = &s.Message
	default:
		out.Status = StatusIdle
		return out
	}
	origin, destination := string(s.Route.Origin), string(s.Route.Destination)
	out.Origin = &origin
	out.Destination = &destination
	return out
}

// NewComparison converts a rate comparison.
func NewComparison(c compare.Comparison) *Comparison {
	return &Comparison{
		UserRate:      c.UserRate,
		MarketAverage: rates.Round2(c.MarketAverage),
		Difference:    c.Difference,
		Verdict:       c.Verdict,
	}
}

// NewPlan converts a subscription plan.
func NewPlan(p account.Plan) *Plan {
	return &Plan{
		ID:              p.ID,
		Name:            p.Name,
		MonthlyPrice:    p.MonthlyPrice,
		MonthlySearches: p.MonthlySearches,
	}
}

// NewAccount converts an account.
func NewAccount(a *account.Account) *Account {
	return &Account{
		ID:                a.ID,
		Email:             a.Email,
		Plan:              NewPlan(a.Plan),
		SearchesRemaining: a.SearchesRemaining(),
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
}

// toGraphQLError turns a service error into a client-facing error with a
// stable code. Internal failures are not echoed to the client.
func toGraphQLError(err error) *gqlerror.Error {
	var (
		searchErr  *benchmark.ValidationError
		compareErr *compare.ValidationError
		accountErr *account.ValidationError
	)
	code, msg := CodeInternal, "Internal error"
	switch {
	case errors.As(err, &searchErr):
		code, msg = CodeValidation, searchErr.Error()
	case errors.As(err, &compareErr):
		code, msg = CodeValidation, compareErr.Error()
	case errors.As(err, &accountErr):
		code, msg = CodeValidation, accountErr.Error()
	case errors.Is(err, benchmark.ErrQuotaExhausted):
		code, msg = CodeQuotaExhausted, benchmark.UserMessage(err)
	case errors.Is(err, benchmark.ErrSuperseded):
		code, msg = CodeSuperseded, err.Error()
	case distance.IsLookupError(err):
		code, msg = CodeLookupFailed, benchmark.UserMessage(err)
	case errors.Is(err, account.ErrInvalidCredentials):
		code, msg = CodeUnauthorized, err.Error()
	case errors.Is(err, account.ErrNotFound):
		code, msg = CodeNotFound, err.Error()
	case errors.Is(err, account.ErrEmailTaken):
		code, msg = CodeConflict, err.Error()
	}
	return &gqlerror.Error{
		Message:    msg,
		Extensions: map[string]interface{}{"code": code},
	}
}
