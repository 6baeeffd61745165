package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
)

// AdjustmentReason classifies why a stock quantity changed.
// Every mutation of a position carries a reason; the reason also decides
// whether the zero floor applies.
type AdjustmentReason string

const (
	ReasonSale             AdjustmentReason = "SALE"
	ReasonSaleReversal     AdjustmentReason = "SALE_REVERSAL"
	ReasonPurchaseReceipt  AdjustmentReason = "PURCHASE_RECEIPT"
	ReasonPurchaseReversal AdjustmentReason = "PURCHASE_REVERSAL"
	ReasonManual           AdjustmentReason = "MANUAL"
)

// IsValid checks if the reason is a known AdjustmentReason
func (r AdjustmentReason) IsValid() bool {
	switch r {
	case ReasonSale, ReasonSaleReversal, ReasonPurchaseReceipt, ReasonPurchaseReversal, ReasonManual:
		return true
	}
	return false
}

// InventoryPosition holds the quantity on hand for one product variant.
// It is the aggregate root for stock operations; quantity is mutated only
// through Apply, never written directly from client input.
type InventoryPosition struct {
	shared.BaseAggregateRoot
	VariantID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_positions_variant"`
	QuantityOnHand int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryPosition) TableName() string {
	return "inventory_positions"
}

// NewInventoryPosition creates an empty position for a variant
func NewInventoryPosition(variantID uuid.UUID) (*InventoryPosition, error) {
	if variantID == uuid.Nil {
		return nil, shared.NewValidationError("Variant ID cannot be empty")
	}
	return &InventoryPosition{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VariantID:         variantID,
		QuantityOnHand:    0,
	}, nil
}

// Apply adds a signed delta to the quantity on hand and returns the new
// quantity. A delta that would drive the quantity below zero fails with
// INSUFFICIENT_STOCK; increments are unconditional. A zero delta is
// rejected as a caller bug.
func (p *InventoryPosition) Apply(delta int64, reason AdjustmentReason) (int64, error) {
	if delta == 0 {
		return p.QuantityOnHand, shared.NewValidationError("Adjustment delta cannot be zero")
	}
	if !reason.IsValid() {
		return p.QuantityOnHand, shared.NewValidationError("Unknown adjustment reason")
	}

	next := p.QuantityOnHand + delta
	if next < 0 {
		return p.QuantityOnHand, shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for variant %s: have %d, requested %d", p.VariantID, p.QuantityOnHand, -delta))
	}

	p.QuantityOnHand = next
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewStockAdjustedEvent(p, delta, reason))

	return next, nil
}

// CanFulfill returns true if the position holds at least the given quantity
func (p *InventoryPosition) CanFulfill(quantity int64) bool {
	return quantity > 0 && p.QuantityOnHand >= quantity
}
