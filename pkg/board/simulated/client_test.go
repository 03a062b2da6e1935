package simulated_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/freightbench/pkg/board"
	"github.com/tournevent/freightbench/pkg/board/simulated"
)

func TestClient_GetRate_WithinSpread(t *testing.T) {
	preset := simulated.DomesticPresets[0]
	client := simulated.New(preset, rand.New(rand.NewPCG(1, 2)))

	for i := 0; i < 200; i++ {
		q, err := client.GetRate(context.Background(), &board.RateRequest{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, q.AverageRate, preset.BaseRate-simulated.DefaultSpread-0.005)
		assert.LessOrEqual(t, q.AverageRate, preset.BaseRate+simulated.DefaultSpread+0.005)
		assert.Equal(t, board.UnitPerMile, q.Unit)
	}
}

func TestClient_GetRate_NeverNegative(t *testing.T) {
	preset := simulated.Preset{Name: "Cheap", Scope: board.ScopeDomestic, Unit: board.UnitPerMile, BaseRate: 0.05}
	client := simulated.New(preset, rand.New(rand.NewPCG(7, 7))).WithSpread(1)

	for i := 0; i < 100; i++ {
		q, err := client.GetRate(context.Background(), &board.RateRequest{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, q.AverageRate, 0.0)
	}
}

func TestNewAll_Reproducible(t *testing.T) {
	a := simulated.NewAll(simulated.InternationalPresets, 42)
	b := simulated.NewAll(simulated.InternationalPresets, 42)
	require.Len(t, a, 3)

	for i := range a {
		qa, err := a[i].GetRate(context.Background(), &board.RateRequest{})
		require.NoError(t, err)
		qb, err := b[i].GetRate(context.Background(), &board.RateRequest{})
		require.NoError(t, err)

		assert.Equal(t, qa.AverageRate, qb.AverageRate)
		assert.Equal(t, board.ScopeInternational, a[i].Scope())
		assert.Equal(t, board.UnitPerKilogram, qa.Unit)
	}
}

func TestClient_GetRate_CancelledContext(t *testing.T) {
	client := simulated.New(simulated.DomesticPresets[1], rand.New(rand.NewPCG(1, 1)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetRate(ctx, &board.RateRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
