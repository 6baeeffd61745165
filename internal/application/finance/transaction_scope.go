package finance

import (
	"context"

	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/trade"
)

// Repositories bundles what a settlement touches inside one transaction.
// Orders are needed to flip the paid reporting flag when a receivable
// settles in full.
type Repositories struct {
	Accounts finance.AccountRepository
	Payments finance.PaymentRepository
	Orders   trade.OrderRepository
}

// TransactionScope runs a function inside a single database transaction.
// Any error returned by fn rolls everything back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
