package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	appexchange "github.com/retail/backend/internal/application/exchange"
	"github.com/redis/go-redis/v9"
	"github.com/retail/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
)

const rateKey = "exchange:current_rate"

// RedisRateCache implements the rate cache on Redis. This is suitable for
// deployments where multiple instances need to share the cached rate.
type RedisRateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRateCache creates a Redis-backed rate cache, verifying the
// connection before returning.
func NewRedisRateCache(cfg config.RedisConfig, ttl time.Duration) (*RedisRateCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRateCache{client: client, ttl: ttl}, nil
}

// NewRedisRateCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisRateCacheWithClient(client *redis.Client, ttl time.Duration) *RedisRateCache {
	return &RedisRateCache{client: client, ttl: ttl}
}

// Get returns the cached rate; a missing key is a miss, not an error
func (c *RedisRateCache) Get(ctx context.Context) (decimal.Decimal, bool, error) {
	value, err := c.client.Get(ctx, rateKey).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("reading cached rate: %w", err)
	}

	rate, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parsing cached rate %q: %w", value, err)
	}
	return rate, true, nil
}

// Set stores the rate with the configured TTL
func (c *RedisRateCache) Set(ctx context.Context, rate decimal.Decimal) error {
	if err := c.client.Set(ctx, rateKey, rate.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("writing cached rate: %w", err)
	}
	return nil
}

// Invalidate deletes the cached rate
func (c *RedisRateCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, rateKey).Err(); err != nil {
		return fmt.Errorf("invalidating cached rate: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisRateCache) Close() error {
	return c.client.Close()
}

var _ appexchange.RateCache = (*RedisRateCache)(nil)
