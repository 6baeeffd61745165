package exchange

import (
	"context"
	"time"
)

// SnapshotRepository persists exchange rate snapshots
type SnapshotRepository interface {
	// Upsert stores the snapshot for its date, replacing any prior value
	// for the same date (last-write-wins).
	Upsert(ctx context.Context, snapshot *RateSnapshot) error
	// Latest returns the most recent snapshot, or shared.ErrNotFound
	Latest(ctx context.Context) (*RateSnapshot, error)
	// FindByDate returns the snapshot for a calendar date, or shared.ErrNotFound
	FindByDate(ctx context.Context, date time.Time) (*RateSnapshot, error)
}
