package exchange

import (
	"time"

	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Rate-related domain errors
var (
	ErrRateNotAvailable    = shared.NewDomainError("RATE_NOT_AVAILABLE", "No exchange rate snapshot is available")
	ErrInvalidExchangeRate = shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate is invalid or outside tolerance")
)

// RateSnapshot records the local-per-USD exchange rate for one calendar date.
// There is at most one snapshot per date; recording again for the same date
// replaces the prior value (last-write-wins).
type RateSnapshot struct {
	shared.BaseEntity
	Date   time.Time       `gorm:"type:date;not null;uniqueIndex:idx_rate_snapshots_date"`
	Rate   decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Source string          `gorm:"size:100;not null"`
}

// TableName returns the table name for GORM
func (RateSnapshot) TableName() string {
	return "exchange_rate_snapshots"
}

// NewRateSnapshot creates a snapshot for the given date.
// The rate must be strictly positive; zero is never a valid rate.
func NewRateSnapshot(date time.Time, rate decimal.Decimal, source string) (*RateSnapshot, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate must be positive")
	}
	if source == "" {
		return nil, shared.NewValidationError("Rate source cannot be empty")
	}

	return &RateSnapshot{
		BaseEntity: shared.NewBaseEntity(),
		Date:       truncateToDate(date),
		Rate:       rate,
		Source:     source,
	}, nil
}

// truncateToDate drops the time-of-day component, keeping the calendar date in UTC
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
