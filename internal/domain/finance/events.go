package finance

import (
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the finance context
const (
	EventTypeAccountSettled = "finance.account_settled"
	EventTypeAccountVoided  = "finance.account_voided"
)

// AccountSettledEvent is emitted when an account's balance clears in full
type AccountSettledEvent struct {
	shared.BaseDomainEvent
	OrderID      string          `json:"order_id"`
	Direction    Direction       `json:"direction"`
	OriginalBase decimal.Decimal `json:"original_base"`
}

// NewAccountSettledEvent creates an AccountSettledEvent
func NewAccountSettledEvent(a *SettlementAccount) *AccountSettledEvent {
	return &AccountSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountSettled, "SettlementAccount", a.ID),
		OrderID:         a.OrderID.String(),
		Direction:       a.Direction,
		OriginalBase:    a.OriginalBase,
	}
}

// AccountVoidedEvent is emitted when an account closes through a reversal
type AccountVoidedEvent struct {
	shared.BaseDomainEvent
	OrderID   string    `json:"order_id"`
	Direction Direction `json:"direction"`
}

// NewAccountVoidedEvent creates an AccountVoidedEvent
func NewAccountVoidedEvent(a *SettlementAccount) *AccountVoidedEvent {
	return &AccountVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountVoided, "SettlementAccount", a.ID),
		OrderID:         a.OrderID.String(),
		Direction:       a.Direction,
	}
}
