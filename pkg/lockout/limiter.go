package lockout

import (
	"context"
	"time"
)

// Limiter applies per-action failure budgets on top of a Store.
type Limiter struct {
	store   Store
	cfg     Config
	actions map[string]Config
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithConfig replaces the default policy applied to actions without an
// explicit override.
func WithConfig(cfg Config) Option {
	return func(l *Limiter) { l.cfg = cfg }
}

// WithActionConfig sets a dedicated policy for one action.
func WithActionConfig(action string, cfg Config) Option {
	return func(l *Limiter) { l.actions[action] = cfg }
}

// WithTimeSource injects the clock used to derive absolute lockout deadlines.
// Defaults to time.Now.
func WithTimeSource(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter over the given store.
func New(store Store, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	l := &Limiter{
		store:   store,
		cfg:     DefaultConfig(),
		actions: make(map[string]Config),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	if err := l.cfg.validate(); err != nil {
		return nil, err
	}
	for _, cfg := range l.actions {
		if err := cfg.validate(); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Key builds the store key for an (identity, action) pair.
func Key(identity, action string) string {
	return action + ":" + identity
}

func (l *Limiter) config(action string) Config {
	if cfg, ok := l.actions[action]; ok {
		return cfg
	}
	return l.cfg
}

// IsLocked reports whether the key is currently locked and, if so, when the
// lockout ends.
func (l *Limiter) IsLocked(ctx context.Context, identity, action string) (bool, time.Time, error) {
	status, err := l.Status(ctx, identity, action)
	if err != nil {
		return false, time.Time{}, err
	}
	return status.Locked, status.LockedUntil, nil
}

// Status returns the caller-facing state of the key without modifying it.
func (l *Limiter) Status(ctx context.Context, identity, action string) (Status, error) {
	if identity == "" || action == "" {
		return Status{}, ErrKeyRequired
	}

	state, err := l.store.State(ctx, Key(identity, action), l.config(action))
	if err != nil {
		return Status{}, err
	}
	return l.status(state, l.config(action)), nil
}

// RecordFailure counts one failed attempt. When the count reaches the
// threshold within the window the key transitions to Locked and the returned
// status carries the lockout deadline. The increment and the lockout
// transition are a single atomic store operation, so a failure is never lost
// between check and update.
func (l *Limiter) RecordFailure(ctx context.Context, identity, action string) (Status, error) {
	if identity == "" || action == "" {
		return Status{}, ErrKeyRequired
	}

	state, err := l.store.RecordFailure(ctx, Key(identity, action), l.config(action))
	if err != nil {
		return Status{}, err
	}
	return l.status(state, l.config(action)), nil
}

// RecordSuccess unconditionally resets the key to Closed(count=0).
func (l *Limiter) RecordSuccess(ctx context.Context, identity, action string) error {
	if identity == "" || action == "" {
		return ErrKeyRequired
	}
	return l.store.Reset(ctx, Key(identity, action))
}

// AttemptsRemaining reports how many failures the key can still absorb before
// locking. Zero while locked. The value is informational - authorization
// decisions always go through IsLocked/RecordFailure - but it must be
// accurate because callers surface it to users.
func (l *Limiter) AttemptsRemaining(ctx context.Context, identity, action string) (int, error) {
	status, err := l.Status(ctx, identity, action)
	if err != nil {
		return 0, err
	}
	return status.AttemptsRemaining, nil
}

func (l *Limiter) status(state State, cfg Config) Status {
	if state.LockedFor > 0 {
		return Status{
			Locked:      true,
			LockedUntil: l.now().Add(state.LockedFor),
		}
	}
	return Status{
		AttemptsRemaining: max(0, cfg.Threshold-state.Count),
	}
}
