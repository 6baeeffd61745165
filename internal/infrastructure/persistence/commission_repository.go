package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCommissionRepository implements finance.CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// Save persists a commission record
func (r *GormCommissionRepository) Save(ctx context.Context, commission *finance.Commission) error {
	if err := r.db.WithContext(ctx).Create(commission).Error; err != nil {
		return fmt.Errorf("saving commission: %w", mapError(err))
	}
	return nil
}

// FindByOrder finds the commission recorded for an order
func (r *GormCommissionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*finance.Commission, error) {
	var commission finance.Commission
	if err := r.db.WithContext(ctx).
		First(&commission, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &commission, nil
}

// FindByUser returns all commissions attributed to a user
func (r *GormCommissionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]finance.Commission, error) {
	var commissions []finance.Commission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&commissions).Error; err != nil {
		return nil, mapError(err)
	}
	return commissions, nil
}

var _ finance.CommissionRepository = (*GormCommissionRepository)(nil)
