package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPositionRepository implements inventory.PositionRepository using GORM
type GormPositionRepository struct {
	db *gorm.DB
}

// NewGormPositionRepository creates a new GormPositionRepository
func NewGormPositionRepository(db *gorm.DB) *GormPositionRepository {
	return &GormPositionRepository{db: db}
}

// FindByVariant finds the position for a variant
func (r *GormPositionRepository) FindByVariant(ctx context.Context, variantID uuid.UUID) (*inventory.InventoryPosition, error) {
	var position inventory.InventoryPosition
	if err := r.db.WithContext(ctx).
		First(&position, "variant_id = ?", variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &position, nil
}

// GetOrCreate returns the variant's position, inserting an empty one when
// missing. The insert tolerates a concurrent creator via ON CONFLICT.
func (r *GormPositionRepository) GetOrCreate(ctx context.Context, variantID uuid.UUID) (*inventory.InventoryPosition, error) {
	position, err := r.FindByVariant(ctx, variantID)
	if err == nil {
		return position, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := inventory.NewInventoryPosition(variantID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, fmt.Errorf("creating position: %w", mapError(err))
	}
	return r.FindByVariant(ctx, variantID)
}

// AdjustForUpdate applies a signed delta under SELECT ... FOR UPDATE and
// returns the new quantity. Concurrent adjustments of the same variant
// serialize on the row lock; a lock wait beyond the transaction's
// lock_timeout surfaces as LOCK_TIMEOUT.
func (r *GormPositionRepository) AdjustForUpdate(ctx context.Context, variantID uuid.UUID, delta int64, reason inventory.AdjustmentReason) (int64, error) {
	position, err := r.lockPosition(ctx, variantID)
	if err != nil {
		return 0, err
	}

	newQty, err := position.Apply(delta, reason)
	if err != nil {
		return position.QuantityOnHand, err
	}

	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryPosition{}).
		Where("id = ?", position.ID).
		Updates(map[string]any{
			"quantity_on_hand": position.QuantityOnHand,
			"version":          position.Version,
			"updated_at":       position.UpdatedAt,
		}).Error; err != nil {
		return 0, fmt.Errorf("adjusting position: %w", mapError(err))
	}
	return newQty, nil
}

// lockPosition loads the position under a row lock, creating it first when
// the variant has never had stock.
func (r *GormPositionRepository) lockPosition(ctx context.Context, variantID uuid.UUID) (*inventory.InventoryPosition, error) {
	var position inventory.InventoryPosition
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&position, "variant_id = ?", variantID).Error
	if err == nil {
		return &position, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapError(err)
	}

	if _, err := r.GetOrCreate(ctx, variantID); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&position, "variant_id = ?", variantID).Error; err != nil {
		return nil, mapError(err)
	}
	return &position, nil
}

// CheckAvailable reports whether the variant holds at least the quantity.
// Pre-flight only; the authoritative check runs inside AdjustForUpdate.
func (r *GormPositionRepository) CheckAvailable(ctx context.Context, variantID uuid.UUID, quantity int64) (bool, error) {
	position, err := r.FindByVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return position.CanFulfill(quantity), nil
}

// Save persists a position
func (r *GormPositionRepository) Save(ctx context.Context, position *inventory.InventoryPosition) error {
	if err := r.db.WithContext(ctx).Save(position).Error; err != nil {
		return fmt.Errorf("saving position: %w", mapError(err))
	}
	return nil
}

// FindAll returns positions matching the filter
func (r *GormPositionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryPosition, error) {
	var positions []inventory.InventoryPosition
	db := applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryPosition{}), filter, PositionSortFields, PositionFilterFields)
	if err := db.Find(&positions).Error; err != nil {
		return nil, mapError(err)
	}
	return positions, nil
}

// Count returns the number of positions matching the filter
func (r *GormPositionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	db := applyFilterForCount(r.db.WithContext(ctx).Model(&inventory.InventoryPosition{}), filter, PositionFilterFields)
	if err := db.Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

var _ inventory.PositionRepository = (*GormPositionRepository)(nil)

// GormLotRepository implements inventory.LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// Save persists a stock lot
func (r *GormLotRepository) Save(ctx context.Context, lot *inventory.StockLot) error {
	if err := r.db.WithContext(ctx).Save(lot).Error; err != nil {
		return fmt.Errorf("saving stock lot: %w", mapError(err))
	}
	return nil
}

// FindByOrder returns the lots received against an order
func (r *GormLotRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("received_at ASC").
		Find(&lots).Error; err != nil {
		return nil, mapError(err)
	}
	return lots, nil
}

// FindByVariant returns the lots holding a variant
func (r *GormLotRepository) FindByVariant(ctx context.Context, variantID uuid.UUID) ([]inventory.StockLot, error) {
	var lots []inventory.StockLot
	if err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("received_at ASC").
		Find(&lots).Error; err != nil {
		return nil, mapError(err)
	}
	return lots, nil
}

var _ inventory.LotRepository = (*GormLotRepository)(nil)
