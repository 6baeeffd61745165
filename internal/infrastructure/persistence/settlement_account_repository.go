package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountRepository implements finance.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Save persists a new settlement account
func (r *GormAccountRepository) Save(ctx context.Context, account *finance.SettlementAccount) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("saving settlement account: %w", mapError(err))
	}
	return nil
}

// Update persists changes to an existing settlement account
func (r *GormAccountRepository) Update(ctx context.Context, account *finance.SettlementAccount) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		return fmt.Errorf("updating settlement account: %w", mapError(err))
	}
	return nil
}

// FindByID finds an account by its ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.SettlementAccount, error) {
	return r.findOne(ctx, false, "id = ?", id)
}

// FindByIDForUpdate loads an account under a row lock
func (r *GormAccountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.SettlementAccount, error) {
	return r.findOne(ctx, true, "id = ?", id)
}

// FindByOrder finds the account opened for an order
func (r *GormAccountRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*finance.SettlementAccount, error) {
	return r.findOne(ctx, false, "order_id = ?", orderID)
}

// FindByOrderForUpdate loads an order's account under a row lock
func (r *GormAccountRepository) FindByOrderForUpdate(ctx context.Context, orderID uuid.UUID) (*finance.SettlementAccount, error) {
	return r.findOne(ctx, true, "order_id = ?", orderID)
}

func (r *GormAccountRepository) findOne(ctx context.Context, forUpdate bool, cond string, arg any) (*finance.SettlementAccount, error) {
	db := r.db.WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var account finance.SettlementAccount
	if err := db.First(&account, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &account, nil
}

// FindAll returns accounts matching the filter, sorted and paginated
func (r *GormAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.SettlementAccount, error) {
	var accounts []finance.SettlementAccount
	db := applyFilter(r.db.WithContext(ctx).Model(&finance.SettlementAccount{}), filter, AccountSortFields, AccountFilterFields)
	if err := db.Find(&accounts).Error; err != nil {
		return nil, mapError(err)
	}
	return accounts, nil
}

// Count returns the number of accounts matching the filter
func (r *GormAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	db := applyFilterForCount(r.db.WithContext(ctx).Model(&finance.SettlementAccount{}), filter, AccountFilterFields)
	if err := db.Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

var _ finance.AccountRepository = (*GormAccountRepository)(nil)
