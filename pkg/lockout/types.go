package lockout

import (
	"context"
	"time"
)

// Config defines the failure budget for one action.
type Config struct {
	Threshold int           // Failures within the window before the key locks
	Window    time.Duration // Sliding failure window measured from the first failure
	Lockout   time.Duration // How long a lockout blocks attempts once tripped
}

// DefaultConfig returns the policy applied to two-factor verification:
// three failures within fifteen minutes lock the key for fifteen minutes.
func DefaultConfig() Config {
	return Config{
		Threshold: 3,
		Window:    15 * time.Minute,
		Lockout:   15 * time.Minute,
	}
}

func (c Config) validate() error {
	if c.Threshold <= 0 {
		return ErrInvalidThreshold
	}
	if c.Window <= 0 || c.Lockout <= 0 {
		return ErrInvalidInterval
	}
	return nil
}

// State is the raw per-key counter state reported by a Store.
type State struct {
	// Count is the number of failures recorded in the current window.
	// Zero while locked; the lockout itself is carried by LockedFor.
	Count int

	// LockedFor is the remaining lockout duration, zero when the key is open.
	// Stores report a relative duration so callers with an injected clock can
	// derive the absolute deadline themselves.
	LockedFor time.Duration
}

// Status is the caller-facing view of one (identity, action) key.
type Status struct {
	Locked            bool
	LockedUntil       time.Time // Zero when not locked; surfaced for UX countdowns
	AttemptsRemaining int       // max(0, threshold-count); zero while locked
}

// Store is the external keyed TTL store backing the limiter. Both operations
// that mutate state must be atomic read-modify-write calls: concurrent
// failures for one key must each be counted, and a lockout transition must be
// visible to the very next attempt.
type Store interface {
	// RecordFailure atomically increments the failure count for key within
	// the window, tripping the lockout when the threshold is reached, and
	// returns the post-update state.
	RecordFailure(ctx context.Context, key string, cfg Config) (State, error)

	// State reports the current state without modifying it.
	State(ctx context.Context, key string, cfg Config) (State, error)

	// Reset clears the failure count and any lockout for key.
	Reset(ctx context.Context, key string) error
}
