package cache

import (
	"context"
	"sync"
	"time"

	appexchange "github.com/retail/backend/internal/application/exchange"
	"github.com/shopspring/decimal"
)

// InMemoryRateCache implements the rate cache using a mutex-guarded value.
// This is suitable for single-instance deployments and testing.
type InMemoryRateCache struct {
	mu        sync.RWMutex
	rate      decimal.Decimal
	expiresAt time.Time
	set       bool
	ttl       time.Duration
}

// NewInMemoryRateCache creates a new in-memory rate cache with the given TTL
func NewInMemoryRateCache(ttl time.Duration) *InMemoryRateCache {
	return &InMemoryRateCache{ttl: ttl}
}

// Get returns the cached rate if present and not expired
func (c *InMemoryRateCache) Get(ctx context.Context) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set || time.Now().After(c.expiresAt) {
		return decimal.Zero, false, nil
	}
	return c.rate, true, nil
}

// Set stores the rate until the TTL elapses
func (c *InMemoryRateCache) Set(ctx context.Context, rate decimal.Decimal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rate = rate
	c.expiresAt = time.Now().Add(c.ttl)
	c.set = true
	return nil
}

// Invalidate drops the cached rate
func (c *InMemoryRateCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.set = false
	return nil
}

var _ appexchange.RateCache = (*InMemoryRateCache)(nil)
