package trade

import (
	"github.com/retail/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the trade context
const (
	EventTypeOrderCompleted = "trade.order_completed"
	EventTypeOrderCancelled = "trade.order_cancelled"
	EventTypeOrderPaid      = "trade.order_paid"
	EventTypeGoodsReceived  = "trade.goods_received"
)

// OrderCompletedEvent is emitted when an order transitions to COMPLETED
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	Code      string          `json:"code"`
	Kind      OrderKind       `json:"kind"`
	TotalBase decimal.Decimal `json:"total_base"`
}

// NewOrderCompletedEvent creates an OrderCompletedEvent
func NewOrderCompletedEvent(o *Order) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, "Order", o.ID),
		Code:            o.Code,
		Kind:            o.Kind,
		TotalBase:       o.TotalBase,
	}
}

// OrderCancelledEvent is emitted when an order is reversed
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	Code   string    `json:"code"`
	Kind   OrderKind `json:"kind"`
	Reason string    `json:"reason"`
}

// NewOrderCancelledEvent creates an OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, "Order", o.ID),
		Code:            o.Code,
		Kind:            o.Kind,
		Reason:          reason,
	}
}

// OrderPaidEvent is emitted when a sale's receivable settles in full
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewOrderPaidEvent creates an OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, "Order", o.ID),
		Code:            o.Code,
	}
}

// GoodsReceivedEvent is emitted when purchased goods arrive
type GoodsReceivedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewGoodsReceivedEvent creates a GoodsReceivedEvent
func NewGoodsReceivedEvent(o *Order) *GoodsReceivedEvent {
	return &GoodsReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeGoodsReceived, "Order", o.ID),
		Code:            o.Code,
	}
}
