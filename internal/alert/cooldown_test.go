package alert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCooldownStoreAcquire(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryCooldownStore(clock)
	ctx := context.Background()

	ok, err := store.Acquire(ctx, "email:zendesk", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Acquire(ctx, "email:zendesk", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	clock.Advance(61 * time.Second)

	ok, err = store.Acquire(ctx, "email:zendesk", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCooldownStoreReset(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryCooldownStore(clock)
	ctx := context.Background()

	_, err := store.Acquire(ctx, "k", time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Reset(ctx))

	ok, err := store.Acquire(ctx, "k", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCooldownStoreSnapshotSkipsExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryCooldownStore(clock)
	ctx := context.Background()

	_, err := store.Acquire(ctx, "short", time.Second)
	require.NoError(t, err)
	_, err = store.Acquire(ctx, "long", time.Hour)
	require.NoError(t, err)

	clock.Advance(2 * time.Second)

	snapshot := store.Snapshot()
	assert.NotContains(t, snapshot, "short")
	assert.Contains(t, snapshot, "long")
}

func TestMemoryCooldownStoreConcurrentAcquireSingleWinner(t *testing.T) {
	clock := clockwork.NewFakeClock()
	store := NewMemoryCooldownStore(clock)
	ctx := context.Background()

	const goroutines = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Acquire(ctx, "contested", time.Minute)
			assert.NoError(t, err)
			if ok {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	assert.Equal(t, 1, count)
}
