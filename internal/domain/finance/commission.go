package finance

import (
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CalculateCommission computes the flat commission on a sale's base total.
// No tiering; the rate comes from configuration.
func CalculateCommission(totalBase, rate decimal.Decimal) decimal.Decimal {
	return totalBase.Mul(rate).Round(2)
}

// Commission attributes a sale commission to the acting user
type Commission struct {
	shared.BaseEntity
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Rate       decimal.Decimal `gorm:"type:decimal(8,6);not null"`
	AmountBase decimal.Decimal `gorm:"type:decimal(18,6);not null"`
}

// TableName returns the table name for GORM
func (Commission) TableName() string {
	return "commissions"
}

// NewCommission creates a commission record for a completed sale
func NewCommission(orderID, userID uuid.UUID, totalBase, rate decimal.Decimal) (*Commission, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("Order ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("User ID cannot be empty")
	}
	if rate.IsNegative() {
		return nil, shared.NewValidationError("Commission rate cannot be negative")
	}

	return &Commission{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		UserID:     userID,
		Rate:       rate,
		AmountBase: CalculateCommission(totalBase, rate),
	}, nil
}
