package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// CounterStore increments a per-key counter bound to a fixed window and
// reports the count after increment plus the time remaining in the window.
// Backends: in-process map (single instance) or Redis (shared across
// instances).
type CounterStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, remaining time.Duration, err error)
}

// Decision is the outcome of a limiter check.
type Decision struct {
	Allowed    bool
	RetryAfter int
}

// FixedWindowLimiter counts requests per key within non-overlapping
// windows of fixed length.
type FixedWindowLimiter struct {
	store  CounterStore
	limit  int
	window time.Duration
}

// NewFixedWindowLimiter constructs a limiter over the given counter store.
func NewFixedWindowLimiter(store CounterStore, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{store: store, limit: limit, window: window}
}

// CheckAndIncrement records one request for key and reports whether it is
// within the limit. When denied, RetryAfter holds the whole seconds until
// the window resets.
func (l *FixedWindowLimiter) CheckAndIncrement(ctx context.Context, key string) (Decision, error) {
	count, remaining, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return Decision{Allowed: true}, err
	}
	if count > int64(l.limit) {
		return Decision{
			Allowed:    false,
			RetryAfter: int(math.Ceil(remaining.Seconds())),
		}, nil
	}
	return Decision{Allowed: true}, nil
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryCounterStore is a process-local counter map. Expired entries are
// lazily treated as absent on next access; there is no sweeper. With
// multiple instances each process enforces its own independent limit --
// a documented accuracy gap, not a bug.
type MemoryCounterStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCounterStore constructs an empty store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Increment implements CounterStore.
func (s *MemoryCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[key]
	if !ok || !entry.expiresAt.After(now) {
		entry = memoryEntry{count: 0, expiresAt: now.Add(window)}
	}
	entry.count++
	s.entries[key] = entry
	return entry.count, entry.expiresAt.Sub(now), nil
}
