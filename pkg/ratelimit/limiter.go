package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/config"
)

// Limiter is a fixed-window rate limiter backed by Redis.
type Limiter struct {
	client redis.Cmdable
	cfg    config.RateLimitConfig
	now    func() time.Time
}

const defaultWindowSeconds = 60

// NewLimiter creates a new rate limiter. A zero or negative window is
// normalized to the default so bucketing never divides by zero.
func NewLimiter(client redis.Cmdable, cfg config.RateLimitConfig) *Limiter {
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = defaultWindowSeconds
	}
	return &Limiter{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithNow overrides the clock, used by tests
func (l *Limiter) WithNow(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Window returns the configured window duration
func (l *Limiter) Window() time.Duration {
	return time.Duration(l.cfg.WindowSeconds) * time.Second
}

// Allow reports whether the given key may perform another action in the
// current window. The counter key is bucketed by window start so stale
// buckets expire on their own.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.cfg.Enabled {
		return true, nil
	}

	window := l.Window()
	bucket := l.now().Unix() / int64(l.cfg.WindowSeconds)
	redisKey := fmt.Sprintf("%s:%s:%d", l.cfg.RedisPrefix, key, bucket)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(l.cfg.MessageLimit), nil
}
