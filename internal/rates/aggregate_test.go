package rates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/freightbench/internal/rates"
	"github.com/tournevent/freightbench/pkg/board"
)

func perMile(name string, rate float64) board.Quote {
	return board.Quote{Board: name, AverageRate: rate, Unit: board.UnitPerMile, Currency: "USD"}
}

func perKG(name string, rate float64) board.Quote {
	return board.Quote{Board: name, AverageRate: rate, Unit: board.UnitPerKilogram, Currency: "USD"}
}

func TestAggregate_AverageAndTop(t *testing.T) {
	s := rates.Aggregate([]board.Quote{perMile("A", 2.5), perMile("B", 2.7), perMile("C", 2.3)}, 100)

	assert.Equal(t, "2.50", rates.FormatMoney(s.AverageRate))
	assert.InDelta(t, 2.5, s.AverageRate, 1e-12)
	require.NotNil(t, s.TopCarrier)
	assert.Equal(t, "B", s.TopCarrier.Board)
}

func TestAggregate_Empty(t *testing.T) {
	s := rates.Aggregate(nil, 500)

	assert.Equal(t, 0.0, s.AverageRate)
	assert.Nil(t, s.TopCarrier)
	assert.Empty(t, s.Lines)
	assert.Empty(t, s.Quotes())
}

func TestAggregate_TieFirstOccurrenceWins(t *testing.T) {
	s := rates.Aggregate([]board.Quote{perMile("A", 2.1), perMile("B", 2.9), perMile("C", 2.9)}, 10)

	require.NotNil(t, s.TopCarrier)
	assert.Equal(t, "B", s.TopCarrier.Board)
}

func TestAggregate_TopCarrierIsMember(t *testing.T) {
	quotes := []board.Quote{perMile("A", 2.5), perMile("B", 2.7)}
	s := rates.Aggregate(quotes, 10)

	assert.Contains(t, s.Quotes(), *s.TopCarrier)
}

func TestAggregate_Totals(t *testing.T) {
	s := rates.Aggregate([]board.Quote{perMile("DAT", 2.6), perMile("X", 2.345)}, 2453)

	require.NotNil(t, s.Lines[0].TotalCost)
	assert.Equal(t, 6377.8, *s.Lines[0].TotalCost)
	require.NotNil(t, s.Lines[1].TotalCost)
	assert.Equal(t, 5752.29, *s.Lines[1].TotalCost)
}

func TestAggregate_PerKilogramHasNoTotal(t *testing.T) {
	s := rates.Aggregate([]board.Quote{perKG("Freightos", 4.2), perKG("Xeneta", 3.9)}, 3500)

	assert.Nil(t, s.Lines[0].TotalCost)
	assert.Nil(t, s.Lines[1].TotalCost)
	assert.InDelta(t, 4.05, s.AverageRate, 1e-12)
	assert.Equal(t, "Freightos", s.TopCarrier.Board)
}

func TestAggregate_FullPrecisionRetained(t *testing.T) {
	s := rates.Aggregate([]board.Quote{perMile("A", 2.501), perMile("B", 2.502)}, 1)

	assert.InDelta(t, 2.5015, s.AverageRate, 1e-12)
	assert.Equal(t, "2.50", rates.FormatMoney(s.AverageRate))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, rates.Round2(1.234))
	assert.Equal(t, 1.24, rates.Round2(1.236))
	assert.Equal(t, 0.0, rates.Round2(0))
}

func TestPublisher_SynchronousInOrder(t *testing.T) {
	p := rates.NewPublisher()
	var calls []string
	p.Subscribe(func(s rates.Summary) { calls = append(calls, "first") })
	p.Subscribe(func(s rates.Summary) { calls = append(calls, "second") })

	p.Publish(rates.Aggregate([]board.Quote{perMile("A", 1)}, 1))

	assert.Equal(t, []string{"first", "second"}, calls)
}
