package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one line of an order creation request
type OrderLineRequest struct {
	VariantID  uuid.UUID       `json:"variant_id" validate:"required"`
	Quantity   int64           `json:"quantity" validate:"required,gt=0"`
	UnitAmount decimal.Decimal `json:"unit_amount" validate:"required"`
}

// CreateSaleRequest creates a completed sale order
type CreateSaleRequest struct {
	CounterpartyID uuid.UUID          `json:"counterparty_id" validate:"required"`
	UserID         uuid.UUID          `json:"user_id" validate:"required"`
	Currency       string             `json:"currency" validate:"required,oneof=USD VES"`
	FxRate         *decimal.Decimal   `json:"fx_rate,omitempty"`
	Lines          []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreatePurchaseRequest creates a completed purchase order. CreditDays
// derives the payable due date; zero means due immediately.
type CreatePurchaseRequest struct {
	CounterpartyID uuid.UUID          `json:"counterparty_id" validate:"required"`
	Currency       string             `json:"currency" validate:"required,oneof=USD VES"`
	FxRate         *decimal.Decimal   `json:"fx_rate,omitempty"`
	CreditDays     int                `json:"credit_days" validate:"gte=0"`
	Lines          []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CancelOrderRequest reverses a completed order
type CancelOrderRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Reason  string    `json:"reason" validate:"required"`
}

// OrderLineResponse mirrors a persisted order line
type OrderLineResponse struct {
	ID             uuid.UUID       `json:"id"`
	VariantID      uuid.UUID       `json:"variant_id"`
	Quantity       int64           `json:"quantity"`
	UnitAmount     decimal.Decimal `json:"unit_amount"`
	UnitAmountBase decimal.Decimal `json:"unit_amount_base"`
}

// OrderResponse mirrors a persisted order
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Code          string              `json:"code"`
	Kind          trade.OrderKind     `json:"kind"`
	Status        trade.OrderStatus   `json:"status"`
	Currency      string              `json:"currency"`
	FxRate        *decimal.Decimal    `json:"fx_rate,omitempty"`
	TotalBase     decimal.Decimal     `json:"total_base"`
	Paid          bool                `json:"paid"`
	GoodsReceived bool                `json:"goods_received"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
	Lines         []OrderLineResponse `json:"lines"`
	CreatedAt     time.Time           `json:"created_at"`
}

func toOrderResponse(o *trade.Order) *OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ID:             line.ID,
			VariantID:      line.VariantID,
			Quantity:       line.Quantity,
			UnitAmount:     line.UnitAmount,
			UnitAmountBase: line.UnitAmountBase,
		})
	}
	return &OrderResponse{
		ID:            o.ID,
		Code:          o.Code,
		Kind:          o.Kind,
		Status:        o.Status,
		Currency:      o.Currency.String(),
		FxRate:        o.FxRate,
		TotalBase:     o.TotalBase,
		Paid:          o.Paid,
		GoodsReceived: o.GoodsReceived,
		DueDate:       o.DueDate,
		Lines:         lines,
		CreatedAt:     o.CreatedAt,
	}
}
