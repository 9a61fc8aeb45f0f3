package lockout

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key layout: "<prefix><key>" carries the failure counter with the window as
// its TTL, "<prefix><key>:lock" carries the lockout with its own TTL. The
// failure script touches both in one atomic step so a lockout transition is
// visible to the very next attempt and no concurrent failure is lost.
var recordFailureScript = redis.NewScript(`
local lock = redis.call('PTTL', KEYS[2])
if lock > 0 then
	return {0, lock}
end
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
if count >= tonumber(ARGV[3]) then
	redis.call('SET', KEYS[2], '1', 'PX', ARGV[2])
	redis.call('DEL', KEYS[1])
	return {0, redis.call('PTTL', KEYS[2])}
end
return {count, 0}
`)

// RedisStore implements Store on a shared Redis instance so every process in
// the deployment draws from one failure budget.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix namespaces the limiter keys, default "lockout:".
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) { rs.prefix = prefix }
}

// NewRedisStore creates a store over an existing Redis client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}

	rs := &RedisStore{
		client: client,
		prefix: "lockout:",
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs, nil
}

func (rs *RedisStore) failKey(key string) string { return rs.prefix + key }
func (rs *RedisStore) lockKey(key string) string { return rs.prefix + key + ":lock" }

func (rs *RedisStore) RecordFailure(ctx context.Context, key string, cfg Config) (State, error) {
	// A locked key stays locked; the script ignores failures during the
	// lockout rather than counting them toward the next window.
	raw, err := recordFailureScript.Run(ctx, rs.client,
		[]string{rs.failKey(key), rs.lockKey(key)},
		cfg.Window.Milliseconds(),
		cfg.Lockout.Milliseconds(),
		cfg.Threshold,
	).Int64Slice()
	if err != nil {
		return State{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(raw) != 2 {
		return State{}, ErrStoreUnavailable
	}

	return State{
		Count:     int(raw[0]),
		LockedFor: time.Duration(raw[1]) * time.Millisecond,
	}, nil
}

func (rs *RedisStore) State(ctx context.Context, key string, cfg Config) (State, error) {
	pipe := rs.client.Pipeline()
	countCmd := pipe.Get(ctx, rs.failKey(key))
	lockCmd := pipe.PTTL(ctx, rs.lockKey(key))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return State{}, errors.Join(ErrStoreUnavailable, err)
	}

	if ttl := lockCmd.Val(); ttl > 0 {
		return State{LockedFor: ttl}, nil
	}

	count, err := countCmd.Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, nil
		}
		return State{}, errors.Join(ErrStoreUnavailable, err)
	}
	return State{Count: count}, nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.failKey(key), rs.lockKey(key)).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
