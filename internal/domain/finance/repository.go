package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AccountRepository persists settlement accounts
type AccountRepository interface {
	Save(ctx context.Context, account *SettlementAccount) error
	Update(ctx context.Context, account *SettlementAccount) error
	FindByID(ctx context.Context, id uuid.UUID) (*SettlementAccount, error)
	// FindByIDForUpdate loads the account under a row lock so concurrent
	// settlements of the same account serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*SettlementAccount, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*SettlementAccount, error)
	FindByOrderForUpdate(ctx context.Context, orderID uuid.UUID) (*SettlementAccount, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SettlementAccount, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// MethodTotal is one row of the daily settlement summary
type MethodTotal struct {
	MethodID uuid.UUID            `json:"method_id"`
	Currency valueobject.Currency `json:"currency"`
	Total    decimal.Decimal      `json:"total"`
}

// PaymentRepository persists payments. Payments are append-only.
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	FindByAccount(ctx context.Context, accountID uuid.UUID) ([]Payment, error)
	// FindByDate returns all payments whose PaidAt falls on the given
	// calendar date (UTC). Used by the daily reconciliation summary.
	FindByDate(ctx context.Context, date time.Time) ([]Payment, error)
}

// CommissionRepository persists sale commissions
type CommissionRepository interface {
	Save(ctx context.Context, commission *Commission) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Commission, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Commission, error)
}
