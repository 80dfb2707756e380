package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(limit int, window time.Duration) (*FixedWindowLimiter, *time.Time) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	store := NewMemoryCounterStore()
	store.now = func() time.Time { return now }
	return NewFixedWindowLimiter(store, limit, window), &now
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	limiter, _ := newTestLimiter(15, time.Minute)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		decision, err := limiter.CheckAndIncrement(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, decision.Allowed, "request %d should be allowed", i+1)
	}

	decision, err := limiter.CheckAndIncrement(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, decision.Allowed, "16th request within the window must be denied")
	assert.Equal(t, 60, decision.RetryAfter)
}

func TestLimiterResetsAfterWindow(t *testing.T) {
	limiter, now := newTestLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.CheckAndIncrement(ctx, "10.0.0.2")
		require.NoError(t, err)
	}

	*now = now.Add(61 * time.Second)
	decision, err := limiter.CheckAndIncrement(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "first request of a fresh window must be allowed")
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	first, err := limiter.CheckAndIncrement(ctx, "10.0.0.3")
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	denied, err := limiter.CheckAndIncrement(ctx, "10.0.0.3")
	require.NoError(t, err)
	assert.False(t, denied.Allowed)

	other, err := limiter.CheckAndIncrement(ctx, "10.0.0.4")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "a different key has its own window")
}

func TestLimiterRetryAfterShrinksWithWindow(t *testing.T) {
	limiter, now := newTestLimiter(1, time.Minute)
	ctx := context.Background()

	_, err := limiter.CheckAndIncrement(ctx, "10.0.0.5")
	require.NoError(t, err)

	*now = now.Add(45 * time.Second)
	decision, err := limiter.CheckAndIncrement(ctx, "10.0.0.5")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 15, decision.RetryAfter)
}
