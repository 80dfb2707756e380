package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rate-limit:"

// RedisCounterStore shares the fixed-window counters across instances
// through Redis. The key lives exactly one window: INCR creates it, the
// first increment attaches the expiry, and Redis removes it when the
// window ends.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore wraps an existing go-redis client.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

// Increment implements CounterStore.
func (s *RedisCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	redisKey := redisKeyPrefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}

	remaining, err := s.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if remaining < 0 {
		// Counter lost its expiry (e.g. a failed Expire on first hit);
		// re-attach it rather than letting the key live forever.
		_ = s.client.Expire(ctx, redisKey, window).Err()
		remaining = window
	}
	return count, remaining, nil
}
