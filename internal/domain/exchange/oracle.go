package exchange

import (
	"context"
	"errors"
	"fmt"

	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReferenceProvider fetches the authoritative reference rate from an
// external feed. Implementations live in infrastructure.
type ReferenceProvider interface {
	FetchReferenceRate(ctx context.Context) (decimal.Decimal, error)
}

// Oracle supplies the daily local-per-USD exchange rate and validates
// candidate rates submitted alongside local-currency operations.
type Oracle struct {
	snapshots SnapshotRepository
	feed      ReferenceProvider
	maxDiff   decimal.Decimal
	failOpen  bool
	logger    *zap.Logger
}

// NewOracle creates an Oracle.
// maxDiff is the absolute tolerance a candidate rate may deviate from the
// reference. failOpen controls behavior when the external feed is
// unreachable and no local snapshot can serve as fallback reference:
// true accepts the candidate (availability over strictness), false rejects.
func NewOracle(snapshots SnapshotRepository, feed ReferenceProvider, maxDiff decimal.Decimal, failOpen bool, logger *zap.Logger) *Oracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Oracle{
		snapshots: snapshots,
		feed:      feed,
		maxDiff:   maxDiff,
		failOpen:  failOpen,
		logger:    logger,
	}
}

// CurrentRate returns the most recent snapshot's rate.
// When no snapshot exists it returns ErrRateNotAvailable: callers must treat
// this as "no local-currency operations possible", never as a zero rate.
func (o *Oracle) CurrentRate(ctx context.Context) (decimal.Decimal, error) {
	snap, err := o.snapshots.Latest(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, ErrRateNotAvailable
		}
		return decimal.Zero, fmt.Errorf("loading latest rate snapshot: %w", err)
	}
	return snap.Rate, nil
}

// Validate accepts the candidate rate iff it is positive and within maxDiff
// of the reference rate. The reference is taken from the external feed;
// when the feed is unreachable the most recent local snapshot serves as
// fallback reference, and when neither is available the failOpen flag
// decides the outcome.
func (o *Oracle) Validate(ctx context.Context, candidate decimal.Decimal) error {
	if candidate.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidExchangeRate
	}

	reference, err := o.feed.FetchReferenceRate(ctx)
	if err != nil {
		o.logger.Warn("external rate feed unreachable, falling back to local snapshot",
			zap.Error(err))

		snap, snapErr := o.snapshots.Latest(ctx)
		if snapErr != nil {
			if o.failOpen {
				o.logger.Warn("no reference rate available, accepting candidate rate",
					zap.String("candidate", candidate.String()))
				return nil
			}
			return ErrRateNotAvailable
		}
		reference = snap.Rate
	}

	diff := candidate.Sub(reference).Abs()
	if diff.GreaterThan(o.maxDiff) {
		o.logger.Info("candidate rate rejected",
			zap.String("candidate", candidate.String()),
			zap.String("reference", reference.String()),
			zap.String("max_diff", o.maxDiff.String()))
		return ErrInvalidExchangeRate
	}

	return nil
}
