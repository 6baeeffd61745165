package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// StockLot is a batch of inventory received from a specific purchase order,
// kept for traceability and reversal granularity. Lots are append-only;
// a reversed purchase marks its lots instead of deleting them.
type StockLot struct {
	shared.BaseEntity
	VariantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int64     `gorm:"not null"`
	ReceivedAt time.Time `gorm:"not null"`
	ReversedAt *time.Time
}

// TableName returns the table name for GORM
func (StockLot) TableName() string {
	return "stock_lots"
}

// NewStockLot creates a lot for goods received against a purchase order
func NewStockLot(variantID, orderID uuid.UUID, quantity int64) (*StockLot, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewValidationError("Variant ID cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("Order ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Lot quantity must be positive")
	}

	return &StockLot{
		BaseEntity: shared.NewBaseEntity(),
		VariantID:  variantID,
		OrderID:    orderID,
		Quantity:   quantity,
		ReceivedAt: time.Now(),
	}, nil
}

// MarkReversed records that the lot's purchase was reversed
func (l *StockLot) MarkReversed() {
	now := time.Now()
	l.ReversedAt = &now
	l.UpdatedAt = now
}

// IsReversed returns true if the lot's purchase was reversed
func (l *StockLot) IsReversed() bool {
	return l.ReversedAt != nil
}
