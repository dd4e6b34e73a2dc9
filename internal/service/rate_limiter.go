package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pollboard/pkg/redis"
)

type rateLimiter struct {
	redis  *redis.Client
	window time.Duration
	max    int64
	logger *zap.Logger
}

// NewRateLimiter creates a fixed-window rate limiter backed by redis. The
// counter key is created by the first request in a window and expires with
// the window, so a client's first request after the window elapses starts a
// fresh count at 1. INCR is atomic, so concurrent requests from the same
// client cannot both slip under the threshold.
func NewRateLimiter(redisClient *redis.Client, window time.Duration, max int64, logger *zap.Logger) RateLimiter {
	return &rateLimiter{
		redis:  redisClient,
		window: window,
		max:    max,
		logger: logger,
	}
}

// Allow records a request for the client and decides whether it may proceed
func (l *rateLimiter) Allow(ctx context.Context, clientID string) (*RateLimitDecision, error) {
	key := l.redis.KeyBuilder.KeyRateLimit(clientID)

	count, err := l.redis.Incr(ctx, key)
	if err != nil {
		return nil, err
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window); err != nil {
			return nil, err
		}
	}

	if count > l.max {
		retryAfter := l.window
		if ttl, err := l.redis.TTL(ctx, key); err == nil && ttl > 0 {
			retryAfter = ttl
		}

		l.logger.Warn("rate limit exceeded",
			zap.String("client_id", clientID),
			zap.Int64("count", count))

		return &RateLimitDecision{
			Allowed:    false,
			Count:      count,
			RetryAfter: retryAfter,
		}, nil
	}

	return &RateLimitDecision{Allowed: true, Count: count}, nil
}
