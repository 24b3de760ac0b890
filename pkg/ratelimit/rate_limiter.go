package ratelimit

import (
	"context"
	"fmt"
	"time"

	"ticketly/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a fixed-window counter over Redis. It is used at
// the boundary to cap hold-grant requests per session; the arbiter itself
// never rate limits.
type RateLimiter struct {
	redis  *redis.Client
	limit  int
	window time.Duration
}

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

func NewRateLimiter(redisClient *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
	}
}

// Allow increments the session's counter for the current window and reports
// whether the request is within the limit. Redis being down fails open: the
// limiter protects capacity, it does not gate correctness.
func (rl *RateLimiter) Allow(ctx context.Context, sessionID string) (*Result, error) {
	now := time.Now()
	window := now.Unix() / int64(rl.window.Seconds())
	key := constants.BuildHoldRateLimitKey(sessionID, window)

	pipe := rl.redis.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return &Result{Allowed: true, Remaining: rl.limit}, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	resetAt := time.Unix((window+1)*int64(rl.window.Seconds()), 0)
	if count > rl.limit {
		return &Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}
	return &Result{Allowed: true, Remaining: rl.limit - count, ResetAt: resetAt}, nil
}
