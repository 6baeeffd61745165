package cache

import (
	"time"

	appexchange "github.com/retail/backend/internal/application/exchange"
	"github.com/retail/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewRateCache creates a rate cache based on configuration. When Redis is
// enabled but unreachable it falls back to the in-memory cache with a
// warning rather than failing startup; the cache is an optimization, not a
// source of truth.
func NewRateCache(cfg config.RedisConfig, ttl time.Duration, logger *zap.Logger) appexchange.RateCache {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Enabled {
		return NewInMemoryRateCache(ttl)
	}

	redisCache, err := NewRedisRateCache(cfg, ttl)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory rate cache",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryRateCache(ttl)
	}

	logger.Info("using Redis rate cache", zap.String("addr", cfg.Addr()))
	return redisCache
}
