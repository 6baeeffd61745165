package trade

import (
	"context"

	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/retail/backend/internal/domain/trade"
)

// Repositories bundles everything an order transaction touches. All of
// them operate on the same database transaction.
type Repositories struct {
	Orders      trade.OrderRepository
	Positions   inventory.PositionRepository
	Lots        inventory.LotRepository
	Accounts    finance.AccountRepository
	Commissions finance.CommissionRepository
}

// TransactionScope runs a function inside a single database transaction.
// Any error returned by fn rolls everything back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
