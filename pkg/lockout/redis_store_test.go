package lockout_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitetrack/authkit/pkg/lockout"
)

func newRedisStore(t *testing.T) (*lockout.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := lockout.NewRedisStore(client)
	require.NoError(t, err)
	return store, mr
}

func testConfig() lockout.Config {
	return lockout.Config{
		Threshold: 3,
		Window:    15 * time.Minute,
		Lockout:   15 * time.Minute,
	}
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	t.Parallel()
	_, err := lockout.NewRedisStore(nil)
	assert.ErrorIs(t, err, lockout.ErrStoreRequired)
}

func TestRedisStoreCountsFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newRedisStore(t)
	cfg := testConfig()

	state, err := store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
	assert.Zero(t, state.LockedFor)

	state, err = store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Count)

	state, err = store.State(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Count)
}

func TestRedisStoreLocksAtThreshold(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newRedisStore(t)
	cfg := testConfig()

	for i := 0; i < 2; i++ {
		_, err := store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
		require.NoError(t, err)
	}

	state, err := store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Zero(t, state.Count)
	assert.Greater(t, state.LockedFor, 14*time.Minute)

	// The lockout is visible to the immediately following read.
	state, err = store.State(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Greater(t, state.LockedFor, 14*time.Minute)

	// Further failures do not extend or restart the lockout.
	state, err = store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Greater(t, state.LockedFor, 14*time.Minute)
}

func TestRedisStoreLockoutExpires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, mr := newRedisStore(t)
	cfg := testConfig()

	for i := 0; i < 3; i++ {
		_, err := store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
		require.NoError(t, err)
	}

	mr.FastForward(15*time.Minute + time.Second)

	state, err := store.State(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Zero(t, state.LockedFor)
	assert.Zero(t, state.Count, "counter was cleared when the lockout tripped")

	// The next failure starts a fresh window.
	state, err = store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count)
}

func TestRedisStoreWindowExpires(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, mr := newRedisStore(t)
	cfg := testConfig()

	for i := 0; i < 2; i++ {
		_, err := store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
		require.NoError(t, err)
	}

	mr.FastForward(16 * time.Minute)

	state, err := store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Count, "aged-out window restarts the count")
}

func TestRedisStoreReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newRedisStore(t)
	cfg := testConfig()

	for i := 0; i < 3; i++ {
		_, err := store.RecordFailure(ctx, "2fa-verify:user-1", cfg)
		require.NoError(t, err)
	}

	require.NoError(t, store.Reset(ctx, "2fa-verify:user-1"))

	state, err := store.State(ctx, "2fa-verify:user-1", cfg)
	require.NoError(t, err)
	assert.Zero(t, state.Count)
	assert.Zero(t, state.LockedFor)
}

func TestRedisStoreWithLimiter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, _ := newRedisStore(t)

	limiter, err := lockout.New(store)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := limiter.RecordFailure(ctx, "user-1", "2fa-verify")
		require.NoError(t, err)
	}

	locked, until, err := limiter.IsLocked(ctx, "user-1", "2fa-verify")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.True(t, until.After(time.Now()))
}
