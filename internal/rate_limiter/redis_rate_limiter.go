package rate_limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimiter is a fixed window limiter shared by every API instance.
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "rate_limit:",
	}
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, ip string) (Result, error) {
	key := rl.prefix + ip

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, rl.window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("rate limiter unavailable: %w", err)
	}

	count := int(incr.Val())
	result := Result{
		Limit:      rl.limit,
		ResetAfter: ttl.Val(),
	}
	if result.ResetAfter < 0 {
		result.ResetAfter = rl.window
	}

	if count > rl.limit {
		return result, nil
	}

	result.Allowed = true
	result.Remaining = rl.limit - count
	return result, nil
}
