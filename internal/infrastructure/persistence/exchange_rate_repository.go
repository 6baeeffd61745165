package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retail/backend/internal/domain/exchange"
	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSnapshotRepository implements exchange.SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Upsert inserts the day's snapshot, last write wins per date
func (r *GormSnapshotRepository) Upsert(ctx context.Context, snapshot *exchange.RateSnapshot) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"rate", "source", "updated_at"}),
		}).
		Create(snapshot).Error; err != nil {
		return fmt.Errorf("upserting rate snapshot: %w", mapError(err))
	}
	return nil
}

// Latest returns the most recent snapshot by date
func (r *GormSnapshotRepository) Latest(ctx context.Context) (*exchange.RateSnapshot, error) {
	var snapshot exchange.RateSnapshot
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &snapshot, nil
}

// FindByDate returns the snapshot for a calendar date
func (r *GormSnapshotRepository) FindByDate(ctx context.Context, date time.Time) (*exchange.RateSnapshot, error) {
	day := date.UTC().Truncate(24 * time.Hour)

	var snapshot exchange.RateSnapshot
	if err := r.db.WithContext(ctx).
		First(&snapshot, "date = ?", day).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &snapshot, nil
}

var _ exchange.SnapshotRepository = (*GormSnapshotRepository)(nil)
