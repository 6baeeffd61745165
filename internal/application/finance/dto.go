package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// SplitRequest is one payment method's share of a settlement
type SplitRequest struct {
	MethodID uuid.UUID       `json:"method_id" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Currency string          `json:"currency" validate:"required,oneof=USD VES"`
}

// ApplySettlementRequest applies one payment against an account. FxRate is
// required when any split is in the local currency.
type ApplySettlementRequest struct {
	AccountID    uuid.UUID        `json:"account_id" validate:"required"`
	Splits       []SplitRequest   `json:"splits" validate:"required,min=1,dive"`
	FxRate       *decimal.Decimal `json:"fx_rate,omitempty"`
	Observations string           `json:"observations"`
}

// SettlementResponse reports the account state after a payment
type SettlementResponse struct {
	AccountID     uuid.UUID             `json:"account_id"`
	PaymentID     uuid.UUID             `json:"payment_id"`
	AppliedBase   decimal.Decimal       `json:"applied_base"`
	RemainingBase decimal.Decimal       `json:"remaining_base"`
	Status        finance.AccountStatus `json:"status"`
}

// AccountResponse mirrors a persisted settlement account
type AccountResponse struct {
	ID            uuid.UUID             `json:"id"`
	OrderID       uuid.UUID             `json:"order_id"`
	Direction     finance.Direction     `json:"direction"`
	OriginalBase  decimal.Decimal       `json:"original_base"`
	RemainingBase decimal.Decimal       `json:"remaining_base"`
	Status        finance.AccountStatus `json:"status"`
	DueDate       *time.Time            `json:"due_date,omitempty"`
}

func toAccountResponse(a *finance.SettlementAccount) *AccountResponse {
	return &AccountResponse{
		ID:            a.ID,
		OrderID:       a.OrderID,
		Direction:     a.Direction,
		OriginalBase:  a.OriginalBase,
		RemainingBase: a.RemainingBase,
		Status:        a.Status,
		DueDate:       a.DueDate,
	}
}

// DailySummaryResponse is the cash-register reconciliation for one date:
// payment totals broken down by method and currency.
type DailySummaryResponse struct {
	Date         time.Time             `json:"date"`
	PaymentCount int                   `json:"payment_count"`
	TotalBase    decimal.Decimal       `json:"total_base"`
	MethodTotals []finance.MethodTotal `json:"method_totals"`
}
