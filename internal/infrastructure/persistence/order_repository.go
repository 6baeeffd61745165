package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save persists a new order with its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("saving order: %w", mapError(err))
	}
	return nil
}

// Update persists changes to an existing order. Lines are immutable after
// completion, so only the order row is written.
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	if err := r.db.WithContext(ctx).Omit("Lines").Save(order).Error; err != nil {
		return fmt.Errorf("updating order: %w", mapError(err))
	}
	return nil
}

// FindByID finds an order by its ID, lines included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &order, nil
}

// FindByIDForUpdate loads an order under a row lock. The lock covers the
// order row only; lines are loaded after the lock is held.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}

	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Find(&order.Lines).Error; err != nil {
		return nil, mapError(err)
	}
	return &order, nil
}

// FindByCode finds an order by its human-readable code
func (r *GormOrderRepository) FindByCode(ctx context.Context, code string) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &order, nil
}

// FindAll returns orders matching the filter, sorted and paginated
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	db := applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}), filter, OrderSortFields, OrderFilterFields)
	if err := db.Preload("Lines").Find(&orders).Error; err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// Count returns the number of orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	db := applyFilterForCount(r.db.WithContext(ctx).Model(&trade.Order{}), filter, OrderFilterFields)
	if err := db.Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
