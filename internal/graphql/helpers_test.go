package graphql_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/freightbench/internal/account"
	"github.com/tournevent/freightbench/internal/benchmark"
	"github.com/tournevent/freightbench/internal/compare"
	"github.com/tournevent/freightbench/internal/graphql"
	"github.com/tournevent/freightbench/internal/quota"
	"github.com/tournevent/freightbench/internal/rates"
	"github.com/tournevent/freightbench/pkg/board"
	"github.com/tournevent/freightbench/pkg/board/mock"
	"github.com/tournevent/freightbench/pkg/lane"
)

func TestNewSearchResult(t *testing.T) {
	assert.Nil(t, graphql.NewSearchResult(nil))

	res := &benchmark.RouteResult{
		Route:         lane.New("Toronto, M5V 1A1", "London, SW1A 1AA"),
		Mileage:       3550,
		International: true,
		Summary: rates.Aggregate([]board.Quote{
			{Board: "Freightos", AverageRate: 4.2, Unit: board.UnitPerKilogram, Currency: "USD"},
			{Board: "Flexport", AverageRate: 4.5, Unit: board.UnitPerKilogram, Currency: "USD"},
		}, 3550),
		BoardErrors: []error{errors.New("Xeneta: service unavailable")},
		Quota:       quota.Decision{Remaining: 2},
	}

	got := graphql.NewSearchResult(res)

	assert.Equal(t, "Toronto, M5V 1A1", got.Origin)
	assert.True(t, got.International)
	require.Len(t, got.Quotes, 2)
	assert.Equal(t, graphql.UnitPerKG, got.Quotes[0].Unit)
	assert.Nil(t, got.Quotes[0].TotalCost)
	require.NotNil(t, got.TopCarrier)
	assert.Same(t, got.Quotes[1], got.TopCarrier)
	assert.Equal(t, 4.35, got.AverageRate)
	assert.Equal(t, []string{"Xeneta: service unavailable"}, got.BoardErrors)
	assert.Equal(t, 2, got.SearchesRemaining)
}

func TestNewSearchState(t *testing.T) {
	idle := graphql.NewSearchState(benchmark.State{Status: benchmark.StatusIdle})
	assert.Equal(t, graphql.StatusIdle, idle.Status)
	assert.Nil(t, idle.Origin)

	failed := graphql.NewSearchState(benchmark.State{
		Status:     benchmark.StatusFailed,
		Generation: 3,
		Route:      lane.New("10001", "90210"),
		Message:    "Failed to fetch mileage. Please try again.",
	})
	assert.Equal(t, graphql.StatusFailed, failed.Status)
	require.NotNil(t, failed.Message)
	assert.Equal(t, "Failed to fetch mileage. Please try again.", *failed.Message)
	assert.Equal(t, "90210", *failed.Destination)
	assert.Nil(t, failed.Result)
}

func TestNewQuota(t *testing.T) {
	q := graphql.NewQuota(quota.Decision{Allowed: true, Remaining: 1, State: quota.StateAvailable}, 1)
	assert.Equal(t, graphql.QuotaAvailable, q.State)

	q = graphql.NewQuota(quota.Decision{State: quota.StateExhausted}, 1)
	assert.Equal(t, graphql.QuotaExhausted, q.State)
	assert.False(t, q.Allowed)
}

func TestNewBoard(t *testing.T) {
	assert.Equal(t, &graphql.Board{Name: "DAT", Scope: graphql.ScopeDomestic}, graphql.NewBoard(mock.New("DAT")))
	assert.Equal(t, graphql.ScopeInternational, graphql.NewBoard(mock.NewInternational("Xeneta", 3.9)).Scope)
}

func TestNewComparison(t *testing.T) {
	c := graphql.NewComparison(compare.Against(2.0, 2.456))
	assert.Equal(t, compare.VerdictBelow, c.Verdict)
	assert.Equal(t, 2.46, c.MarketAverage)
}

func TestNewAccount(t *testing.T) {
	plan, _ := account.PlanByID("basic")
	a := graphql.NewAccount(&account.Account{
		ID:        "id-1",
		Email:     "a@example.com",
		Plan:      plan,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	assert.Equal(t, "2026-01-02T03:04:05Z", a.CreatedAt)
	assert.Equal(t, 50, a.SearchesRemaining)
	assert.Equal(t, 9.99, a.Plan.MonthlyPrice)
}
