package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// PositionRepository persists inventory positions.
//
// Concurrency contract: AdjustForUpdate acquires a row-level lock
// (SELECT ... FOR UPDATE) on the variant's position before computing the
// new value, serializing concurrent mutations of the same variant.
// Different variants adjust independently. CheckAvailable is only a
// pre-flight read; the authoritative check happens inside AdjustForUpdate
// under the lock.
type PositionRepository interface {
	FindByVariant(ctx context.Context, variantID uuid.UUID) (*InventoryPosition, error)
	// GetOrCreate returns the position for a variant, creating an empty
	// one if none exists yet.
	GetOrCreate(ctx context.Context, variantID uuid.UUID) (*InventoryPosition, error)
	// AdjustForUpdate applies a signed delta under a row lock and returns
	// the new quantity. Fails with INSUFFICIENT_STOCK when the delta would
	// drive the quantity below zero, and LOCK_TIMEOUT when the row lock
	// cannot be acquired in time.
	AdjustForUpdate(ctx context.Context, variantID uuid.UUID, delta int64, reason AdjustmentReason) (int64, error)
	// CheckAvailable reports whether the variant currently holds at least
	// the given quantity. Pre-flight only; never authoritative.
	CheckAvailable(ctx context.Context, variantID uuid.UUID, quantity int64) (bool, error)
	Save(ctx context.Context, position *InventoryPosition) error
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryPosition, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// LotRepository persists stock lots
type LotRepository interface {
	Save(ctx context.Context, lot *StockLot) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]StockLot, error)
	FindByVariant(ctx context.Context, variantID uuid.UUID) ([]StockLot, error)
}
