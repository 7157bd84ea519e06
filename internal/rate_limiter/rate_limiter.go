package rate_limiter

import (
	"context"
	"sync"
	"time"
)

// Result describes the outcome of one admission check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter admits or rejects a request identified by key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RateLimiter is an in-process sliding window limiter keyed by client ip.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter starts a limiter whose cleanup loop runs until ctx is done.
func NewRateLimiter(ctx context.Context, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}

	go rl.cleanupLoop(ctx)

	return rl
}

func (rl *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			windowStart := rl.now().Add(-rl.window)
			for ip := range rl.requests {
				rl.prune(ip, windowStart)
			}
			rl.mu.Unlock()
		}
	}
}

// prune drops timestamps older than windowStart. Callers hold rl.mu.
func (rl *RateLimiter) prune(ip string, windowStart time.Time) []time.Time {
	times := rl.requests[ip]
	validTimes := times[:0]
	for _, t := range times {
		if t.After(windowStart) {
			validTimes = append(validTimes, t)
		}
	}

	if len(validTimes) == 0 {
		delete(rl.requests, ip)
		return nil
	}
	rl.requests[ip] = validTimes
	return validTimes
}

func (rl *RateLimiter) Allow(_ context.Context, ip string) (Result, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	times := rl.prune(ip, now.Add(-rl.window))

	result := Result{Limit: rl.limit, ResetAfter: rl.window}
	if len(times) > 0 {
		result.ResetAfter = times[0].Add(rl.window).Sub(now)
	}

	if len(times) >= rl.limit {
		return result, nil
	}

	rl.requests[ip] = append(times, now)
	result.Allowed = true
	result.Remaining = rl.limit - len(times) - 1
	return result, nil
}
