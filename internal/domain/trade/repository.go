package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// OrderRepository persists orders with their lines
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	Update(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUpdate loads the order under a row lock so that state
	// transitions (cancel, receive) serialize per order.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByCode(ctx context.Context, code string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
