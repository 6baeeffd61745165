package exchange

import (
	"context"
	"time"

	"github.com/retail/backend/internal/domain/exchange"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateCache holds the current rate close to the request path. Implementations
// live in infrastructure; misses are not errors.
type RateCache interface {
	Get(ctx context.Context) (decimal.Decimal, bool, error)
	Set(ctx context.Context, rate decimal.Decimal) error
	Invalidate(ctx context.Context) error
}

// RateService records daily rate snapshots and serves the current rate,
// fronted by a cache. It also owns the background refresher, the only
// background task in the system.
type RateService struct {
	snapshots exchange.SnapshotRepository
	oracle    *exchange.Oracle
	feed      exchange.ReferenceProvider
	cache     RateCache
	logger    *zap.Logger
}

// NewRateService creates a RateService
func NewRateService(snapshots exchange.SnapshotRepository, oracle *exchange.Oracle, feed exchange.ReferenceProvider, cache RateCache, logger *zap.Logger) *RateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateService{
		snapshots: snapshots,
		oracle:    oracle,
		feed:      feed,
		cache:     cache,
		logger:    logger,
	}
}

// Record upserts the snapshot for a date, last write wins, and invalidates
// the cached current rate.
func (s *RateService) Record(ctx context.Context, date time.Time, rate decimal.Decimal, source string) error {
	snapshot, err := exchange.NewRateSnapshot(date, rate, source)
	if err != nil {
		return err
	}
	if err := s.snapshots.Upsert(ctx, snapshot); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("rate cache invalidation failed", zap.Error(err))
	}

	s.logger.Info("exchange rate recorded",
		zap.Time("date", snapshot.Date),
		zap.String("rate", rate.String()),
		zap.String("source", source))
	return nil
}

// CurrentRate returns the most recent recorded rate, consulting the cache
// first. Cache failures fall through to the store.
func (s *RateService) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	if rate, ok, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn("rate cache read failed", zap.Error(err))
	} else if ok {
		return rate, nil
	}

	rate, err := s.oracle.CurrentRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if err := s.cache.Set(ctx, rate); err != nil {
		s.logger.Warn("rate cache write failed", zap.Error(err))
	}
	return rate, nil
}

// Validate checks a candidate rate against the oracle's reference
func (s *RateService) Validate(ctx context.Context, candidate decimal.Decimal) error {
	return s.oracle.Validate(ctx, candidate)
}

// StartRefresher launches the best-effort daily rate refresher. Each tick
// pulls the feed and records the day's snapshot; failures are logged and
// the next tick tries again. The goroutine stops when ctx is cancelled.
func (s *RateService) StartRefresher(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("rate refresher stopped")
				return
			case <-ticker.C:
				s.refreshOnce(ctx)
			}
		}
	}()
}

func (s *RateService) refreshOnce(ctx context.Context) {
	rate, err := s.feed.FetchReferenceRate(ctx)
	if err != nil {
		s.logger.Warn("rate refresh failed", zap.Error(err))
		return
	}
	if err := s.Record(ctx, time.Now().UTC(), rate, "feed"); err != nil {
		s.logger.Warn("rate refresh could not record snapshot", zap.Error(err))
	}
}
