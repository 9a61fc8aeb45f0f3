package lockout

import (
	"context"
	"sync"
	"time"
)

// defaultCleanupInterval is how often the background pass scans for stale
// entries; override with WithCleanupInterval.
const defaultCleanupInterval = 5 * time.Minute

// staleAfter is how long an idle, unlocked entry survives before the cleanup
// pass drops it.
const staleAfter = time.Hour

// entry holds the failure window and lockout deadline for one key.
type entry struct {
	count       int
	windowStart time.Time
	lockedUntil time.Time
	lastAccess  time.Time // Used by cleanup to identify stale entries
}

// MemoryStore implements Store using mutex-guarded process memory. Suitable
// for tests and single-process deployments; multi-instance deployments share
// their failure budget through RedisStore instead.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the cleanup interval for removing stale entries.
// Set to 0 to disable automatic cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithMemoryTimeSource injects the clock used for window and lockout
// arithmetic. Defaults to time.Now.
func WithMemoryTimeSource(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory store with optional cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		entries:         make(map[string]*entry),
		now:             time.Now,
		cleanupInterval: defaultCleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}

	return ms
}

// RecordFailure increments the failure count under the store mutex, so the
// check-and-lock is atomic with respect to concurrent attempts for the key.
func (ms *MemoryStore) RecordFailure(ctx context.Context, key string, cfg Config) (State, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	e, exists := ms.entries[key]
	if !exists {
		e = &entry{}
		ms.entries[key] = e
	}
	e.lastAccess = now

	// An expired lockout behaves as if the key were never locked.
	if !e.lockedUntil.IsZero() && !e.lockedUntil.After(now) {
		e.lockedUntil = time.Time{}
		e.count = 0
	}

	if e.lockedUntil.After(now) {
		return State{LockedFor: e.lockedUntil.Sub(now)}, nil
	}

	if e.count == 0 || now.Sub(e.windowStart) > cfg.Window {
		e.count = 1
		e.windowStart = now
	} else {
		e.count++
	}

	if e.count >= cfg.Threshold {
		e.lockedUntil = now.Add(cfg.Lockout)
		e.count = 0
		return State{LockedFor: cfg.Lockout}, nil
	}

	return State{Count: e.count}, nil
}

func (ms *MemoryStore) State(ctx context.Context, key string, cfg Config) (State, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	e, exists := ms.entries[key]
	if !exists {
		return State{}, nil
	}

	now := ms.now()
	if e.lockedUntil.After(now) {
		return State{LockedFor: e.lockedUntil.Sub(now)}, nil
	}
	// An expired lockout or an aged-out window reads as a clean key.
	if !e.lockedUntil.IsZero() || now.Sub(e.windowStart) > cfg.Window {
		return State{}, nil
	}
	return State{Count: e.count}, nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.entries, key)
	return nil
}

// cleanup runs periodically to remove stale entries.
func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.removeStale()
		case <-ms.stopCleanup:
			return
		}
	}
}

// removeStale removes entries that have not been touched recently to prevent
// unbounded growth.
func (ms *MemoryStore) removeStale() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for key, e := range ms.entries {
		if now.Sub(e.lastAccess) > staleAfter && !e.lockedUntil.After(now) {
			delete(ms.entries, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	select {
	case <-ms.stopCleanup:
	default:
		close(ms.stopCleanup)
	}
}
