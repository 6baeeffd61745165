package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/finance"
	"gorm.io/gorm"
)

// GormPaymentRepository implements finance.PaymentRepository using GORM.
// Payments are append-only; there is no update path.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save persists a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *finance.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("saving payment: %w", mapError(err))
	}
	return nil
}

// FindByAccount returns all payments applied to an account
func (r *GormPaymentRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) ([]finance.Payment, error) {
	var payments []finance.Payment
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("paid_at ASC").
		Find(&payments).Error; err != nil {
		return nil, mapError(err)
	}
	return payments, nil
}

// FindByDate returns all payments made on the given UTC calendar date
func (r *GormPaymentRepository) FindByDate(ctx context.Context, date time.Time) ([]finance.Payment, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	next := day.Add(24 * time.Hour)

	var payments []finance.Payment
	if err := r.db.WithContext(ctx).
		Where("paid_at >= ? AND paid_at < ?", day, next).
		Order("paid_at ASC").
		Find(&payments).Error; err != nil {
		return nil, mapError(err)
	}
	return payments, nil
}

var _ finance.PaymentRepository = (*GormPaymentRepository)(nil)
