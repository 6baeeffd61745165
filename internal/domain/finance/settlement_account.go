package finance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Direction tells whether the account tracks money owed to us or by us
type Direction string

const (
	DirectionReceivable Direction = "RECEIVABLE"
	DirectionPayable    Direction = "PAYABLE"
)

// IsValid checks if the direction is known
func (d Direction) IsValid() bool {
	return d == DirectionReceivable || d == DirectionPayable
}

// AccountStatus represents the settlement state of an account
type AccountStatus string

const (
	StatusPending          AccountStatus = "PENDING"
	StatusPartiallySettled AccountStatus = "PARTIALLY_SETTLED"
	StatusSettled          AccountStatus = "SETTLED"
	StatusVoided           AccountStatus = "VOIDED"
)

// SettlementTolerance absorbs rounding residue from currency conversion.
// A remaining balance at or below it counts as fully settled, and a payment
// exceeding the remaining balance by no more than it is not an overpayment.
var SettlementTolerance = decimal.NewFromFloat(0.01)

// SettlementAccount tracks the outstanding balance of one order. All
// amounts are in the base currency; remaining only ever decreases and is
// clamped at zero.
type SettlementAccount struct {
	shared.BaseAggregateRoot
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	CounterpartyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Direction      Direction       `gorm:"type:varchar(16);not null;index"`
	OriginalBase   decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	RemainingBase  decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	Status         AccountStatus   `gorm:"type:varchar(20);not null;index"`
	DueDate        *time.Time      `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (SettlementAccount) TableName() string {
	return "settlement_accounts"
}

// NewSettlementAccount opens an account for an order's full base total
func NewSettlementAccount(orderID, counterpartyID uuid.UUID, direction Direction, originalBase decimal.Decimal, dueDate *time.Time) (*SettlementAccount, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("Order ID cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("Counterparty ID cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewValidationError("Unknown account direction")
	}
	if originalBase.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Original amount must be positive")
	}

	return &SettlementAccount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		CounterpartyID:    counterpartyID,
		Direction:         direction,
		OriginalBase:      originalBase,
		RemainingBase:     originalBase,
		Status:            StatusPending,
		DueDate:           dueDate,
	}, nil
}

// Apply reduces the remaining balance by a settled base amount. An amount
// exceeding remaining plus the tolerance fails with OVER_PAYMENT and the
// account is left untouched. Within tolerance the remainder clamps at zero
// and the account settles.
func (a *SettlementAccount) Apply(appliedBase decimal.Decimal) error {
	if a.Status == StatusVoided {
		return shared.NewDomainError("INVALID_STATE", "Cannot settle a voided account")
	}
	if a.Status == StatusSettled {
		return shared.NewDomainError("INVALID_STATE", "Account is already settled")
	}
	if appliedBase.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Settled amount must be positive")
	}
	if appliedBase.GreaterThan(a.RemainingBase.Add(SettlementTolerance)) {
		return shared.NewDomainError("OVER_PAYMENT",
			fmt.Sprintf("Payment of %s exceeds remaining balance of %s", appliedBase.StringFixed(2), a.RemainingBase.StringFixed(2)))
	}

	a.RemainingBase = a.RemainingBase.Sub(appliedBase)
	if a.RemainingBase.IsNegative() {
		a.RemainingBase = decimal.Zero
	}

	if a.RemainingBase.LessThanOrEqual(SettlementTolerance) {
		a.RemainingBase = decimal.Zero
		a.Status = StatusSettled
		a.AddDomainEvent(NewAccountSettledEvent(a))
	} else {
		a.Status = StatusPartiallySettled
	}

	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Void closes the account as part of an order reversal
func (a *SettlementAccount) Void() error {
	if a.Status == StatusVoided {
		return shared.NewDomainError("INVALID_STATE", "Account is already voided")
	}

	a.Status = StatusVoided
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	a.AddDomainEvent(NewAccountVoidedEvent(a))
	return nil
}

// IsUntouched reports whether no payment has been applied yet
func (a *SettlementAccount) IsUntouched() bool {
	return a.RemainingBase.Equal(a.OriginalBase)
}

// IsSettled returns true once the balance is fully cleared
func (a *SettlementAccount) IsSettled() bool {
	return a.Status == StatusSettled
}
