package inventory

import (
	"github.com/retail/backend/internal/domain/shared"
)

// Event types for the inventory context
const (
	EventTypeStockAdjusted = "inventory.stock_adjusted"
)

// StockAdjustedEvent is emitted whenever a position's quantity changes
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	VariantID   string           `json:"variant_id"`
	Delta       int64            `json:"delta"`
	NewQuantity int64            `json:"new_quantity"`
	Reason      AdjustmentReason `json:"reason"`
}

// NewStockAdjustedEvent creates a StockAdjustedEvent
func NewStockAdjustedEvent(p *InventoryPosition, delta int64, reason AdjustmentReason) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "InventoryPosition", p.ID),
		VariantID:       p.VariantID.String(),
		Delta:           delta,
		NewQuantity:     p.QuantityOnHand,
		Reason:          reason,
	}
}
