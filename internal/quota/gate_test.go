package quota_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/freightbench/internal/kvstore"
	"github.com/tournevent/freightbench/internal/quota"
)

func TestGate_SingleFreeSearch(t *testing.T) {
	store := kvstore.NewMemory()
	gate := quota.New(store, 1)
	ctx := context.Background()

	first, err := gate.TryConsume(ctx)
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 0, first.Remaining)
	assert.Equal(t, quota.StateExhausted, first.State)

	second, err := gate.TryConsume(ctx)
	require.NoError(t, err)
	assert.False(t, second.Allowed)

	v, err := store.Get(ctx, quota.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	for i := 0; i < 5; i++ {
		d, err := gate.TryConsume(ctx)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	}
	v, err = store.Get(ctx, quota.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "1", v, "exhausted gate must not write")
}

func TestGate_SurvivesRestart(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()

	_, err := quota.New(store, 1).TryConsume(ctx)
	require.NoError(t, err)

	d, err := quota.New(store, 1).TryConsume(ctx)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
}

func TestGate_Status(t *testing.T) {
	gate := quota.New(kvstore.NewMemory(), 3)
	ctx := context.Background()

	d, err := gate.Status(ctx)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 3, d.Remaining)
	assert.Equal(t, quota.StateAvailable, d.State)

	_, err = gate.TryConsume(ctx)
	require.NoError(t, err)

	d, err = gate.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Remaining)
}

func TestGate_ConcurrentConsumers(t *testing.T) {
	gate := quota.New(kvstore.NewMemory(), 5)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := gate.TryConsume(ctx)
			assert.NoError(t, err)
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, allowed)
}

func TestGate_SeparateGatesShareOneCounter(t *testing.T) {
	store := kvstore.NewMemory()
	ctx := context.Background()

	start := make(chan struct{})
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 8; i++ {
		gate := quota.New(store, 1)
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			d, err := gate.TryConsume(ctx)
			assert.NoError(t, err)
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, allowed)
	v, err := store.Get(ctx, quota.DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestGate_ZeroLimit(t *testing.T) {
	gate := quota.New(kvstore.NewMemory(), 0)

	d, err := gate.TryConsume(context.Background())
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, quota.StateExhausted, d.State)
}

func TestGate_CorruptCounter(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), quota.DefaultKey, "many"))

	_, err := quota.New(store, 1).TryConsume(context.Background())
	assert.Error(t, err)
}
