package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Client struct {
	rdb        *redis.Client
	KeyBuilder *KeyBuilder
	log        *zap.Logger
}

// Nil is returned by Get when the key does not exist
var Nil = redis.Nil

// Cache key templates
const (
	KeyRateLimit   = "ratelimit:%s"    // ratelimit:{clientID}
	KeyPollResults = "poll:%s:results" // poll:{pollID}:results
)

// TTL constants
const (
	// TTLPollResults keeps derived results fresh enough for polling clients
	// while absorbing read bursts between votes.
	TTLPollResults = 30 * time.Second
)

// NewClient creates a new Redis client
func NewClient(redisURL string, environment string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 50
	opts.MinIdleConns = 5
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, KeyBuilder: NewKeyBuilder(environment), log: log}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Get retrieves a value from Redis
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Result()
	dur := time.Since(start)
	if err != nil && err != redis.Nil {
		c.log.Info("redis_get",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_get",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur))
	}
	return val, err
}

// Set stores a value in Redis with TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	start := time.Now()
	err := c.rdb.Set(ctx, key, value, ttl).Err()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_set",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_set",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur))
	}
	return err
}

// Delete removes keys from Redis
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.rdb.Del(ctx, keys...).Err()
	dur := time.Since(start)
	c.log.Debug("redis_del",
		zap.Int("keys", len(keys)),
		zap.Duration("duration", dur),
		zap.Error(err))
	return err
}

// Exists checks if a key exists
func (c *Client) Exists(ctx context.Context, keys ...string) (int64, error) {
	start := time.Now()
	n, err := c.rdb.Exists(ctx, keys...).Result()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_exists",
			zap.Int("keys", len(keys)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_exists",
			zap.Int64("result", n),
			zap.Int("keys", len(keys)),
			zap.Duration("duration", dur))
	}
	return n, err
}

// Incr increments a counter
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	start := time.Now()
	v, err := c.rdb.Incr(ctx, key).Result()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_incr",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_incr",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Int64("value", v),
			zap.Duration("duration", dur))
	}
	return v, err
}

// Expire sets a TTL on a key
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	start := time.Now()
	err := c.rdb.Expire(ctx, key, ttl).Err()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_expire",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_expire",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur))
	}
	return err
}

// TTL returns the remaining time to live of a key. A negative duration means
// the key has no expiry or does not exist.
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	start := time.Now()
	d, err := c.rdb.TTL(ctx, key).Result()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_ttl",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_ttl",
			zap.String("key_prefix", prefixForLog(key)),
			zap.Duration("ttl", d),
			zap.Duration("duration", dur))
	}
	return d, err
}

// Health checks the Redis connection
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	err := c.rdb.Ping(ctx).Err()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_ping",
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_ping", zap.Duration("duration", dur))
	}
	return err
}

// prefixForLog returns a safe prefix of a key to avoid logging PII
func prefixForLog(key string) string {
	if len(key) <= 24 {
		return key
	}
	return key[:24] + "..."
}
