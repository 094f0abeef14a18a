package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter in redis: the first hit on a key
// opens the window, later hits within it count against the limit.
type Limiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

func NewLimiter(client redis.UniversalClient, prefix string, limit int, window time.Duration) *Limiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &Limiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow reports whether the key is under its limit, and how long to
// wait when it is not.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	storeKey := l.prefix + ":" + key

	count, err := l.client.Incr(ctx, storeKey).Result()
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, storeKey, l.window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count <= int64(l.limit) {
		return true, 0, nil
	}

	ttl, err := l.client.PTTL(ctx, storeKey).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}
