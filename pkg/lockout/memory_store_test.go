package lockout_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sitetrack/authkit/pkg/lockout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRecordFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clock := newFakeClock()
	store := lockout.NewMemoryStore(
		lockout.WithCleanupInterval(0),
		lockout.WithMemoryTimeSource(clock.Now),
	)
	t.Cleanup(store.Close)
	cfg := testConfig()

	state, err := store.RecordFailure(ctx, "k", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)

	state, err = store.RecordFailure(ctx, "k", cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Count)

	state, err = store.RecordFailure(ctx, "k", cfg)
	require.NoError(t, err)
	assert.Zero(t, state.Count)
	assert.Equal(t, cfg.Lockout, state.LockedFor)

	// Failures during the lockout are ignored, not counted.
	clock.Advance(time.Minute)
	state, err = store.RecordFailure(ctx, "k", cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Lockout-time.Minute, state.LockedFor)
}

func TestMemoryStoreLockoutExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clock := newFakeClock()
	store := lockout.NewMemoryStore(
		lockout.WithCleanupInterval(0),
		lockout.WithMemoryTimeSource(clock.Now),
	)
	t.Cleanup(store.Close)
	cfg := testConfig()

	for i := 0; i < 3; i++ {
		_, err := store.RecordFailure(ctx, "k", cfg)
		require.NoError(t, err)
	}

	clock.Advance(cfg.Lockout + time.Second)

	state, err := store.State(ctx, "k", cfg)
	require.NoError(t, err)
	assert.Zero(t, state.LockedFor)
	assert.Zero(t, state.Count)

	state, err = store.RecordFailure(ctx, "k", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count, "expired lockout restarts a fresh window")
}

func TestMemoryStoreUnknownKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := lockout.NewMemoryStore(lockout.WithCleanupInterval(0))
	t.Cleanup(store.Close)

	state, err := store.State(ctx, "missing", testConfig())
	require.NoError(t, err)
	assert.Zero(t, state.Count)
	assert.Zero(t, state.LockedFor)

	require.NoError(t, store.Reset(ctx, "missing"))
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := lockout.NewMemoryStore(lockout.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	cfg := lockout.Config{Threshold: 100, Window: time.Hour, Lockout: time.Hour}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.RecordFailure(ctx, "k", cfg)
		}()
	}
	wg.Wait()

	state, err := store.State(ctx, "k", cfg)
	require.NoError(t, err)
	assert.Equal(t, 50, state.Count, "every concurrent failure is counted")
}
