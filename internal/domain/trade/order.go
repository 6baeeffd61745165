package trade

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderKind distinguishes sales from purchases
type OrderKind string

const (
	KindSale     OrderKind = "SALE"
	KindPurchase OrderKind = "PURCHASE"
)

// IsValid checks if the kind is a known OrderKind
func (k OrderKind) IsValid() bool {
	return k == KindSale || k == KindPurchase
}

// codePrefix returns the human-readable code prefix for the kind
func (k OrderKind) codePrefix() string {
	if k == KindSale {
		return "SO"
	}
	return "PO"
}

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	// StatusOpen exists only transiently inside order creation; a persisted
	// order is COMPLETED or CANCELLED.
	StatusOpen      OrderStatus = "OPEN"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is the aggregate root for both sales and purchases. Monetary totals
// are always carried in the base currency; VES orders record the fx rate
// used for conversion at creation time.
type Order struct {
	shared.BaseAggregateRoot
	Kind           OrderKind            `gorm:"type:varchar(16);not null;index"`
	Code           string               `gorm:"type:varchar(32);not null;uniqueIndex"`
	CounterpartyID uuid.UUID            `gorm:"type:uuid;not null;index"`
	Currency       valueobject.Currency `gorm:"type:varchar(3);not null"`
	FxRate         *decimal.Decimal     `gorm:"type:decimal(18,6)"`
	Status         OrderStatus          `gorm:"type:varchar(20);not null;index"`
	Paid           bool                 `gorm:"not null;default:false"`
	GoodsReceived  bool                 `gorm:"not null;default:false"`
	DueDate        *time.Time           `gorm:"type:date"`
	TotalBase      decimal.Decimal      `gorm:"type:decimal(18,6);not null"`
	CancelReason   string               `gorm:"type:text"`
	CancelledAt    *time.Time
	Lines          []OrderLine `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderLine is a line item of an order. Unit amounts are stored both in the
// order currency and converted to base; lines are immutable once the order
// is completed.
type OrderLine struct {
	shared.BaseEntity
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity       int64           `gorm:"not null"`
	UnitAmount     decimal.Decimal `gorm:"type:decimal(18,6);not null"`
	UnitAmountBase decimal.Decimal `gorm:"type:decimal(18,6);not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderCode generates a human-readable unique order code, prefix plus
// the uppercased base36 unix-milli timestamp.
func NewOrderCode(kind OrderKind) string {
	return fmt.Sprintf("%s-%s", kind.codePrefix(),
		strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36)))
}

// NewSaleOrder creates a sale order in the transient OPEN state
func NewSaleOrder(counterpartyID uuid.UUID, currency valueobject.Currency, fxRate *decimal.Decimal) (*Order, error) {
	return newOrder(KindSale, counterpartyID, currency, fxRate, nil)
}

// NewPurchaseOrder creates a purchase order in the transient OPEN state.
// dueDate is the payable due date derived from supplier credit terms.
func NewPurchaseOrder(counterpartyID uuid.UUID, currency valueobject.Currency, fxRate *decimal.Decimal, dueDate *time.Time) (*Order, error) {
	return newOrder(KindPurchase, counterpartyID, currency, fxRate, dueDate)
}

func newOrder(kind OrderKind, counterpartyID uuid.UUID, currency valueobject.Currency, fxRate *decimal.Decimal, dueDate *time.Time) (*Order, error) {
	if counterpartyID == uuid.Nil {
		return nil, shared.NewValidationError("Counterparty ID cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("Unsupported currency: %s", currency))
	}
	if currency != valueobject.BaseCurrency {
		if fxRate == nil || fxRate.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewValidationError("A positive exchange rate is required for local-currency orders")
		}
	} else if fxRate != nil {
		return nil, shared.NewValidationError("Exchange rate is not applicable to base-currency orders")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Code:              NewOrderCode(kind),
		CounterpartyID:    counterpartyID,
		Currency:          currency,
		FxRate:            fxRate,
		Status:            StatusOpen,
		DueDate:           dueDate,
		TotalBase:         decimal.Zero,
		Lines:             make([]OrderLine, 0),
	}, nil
}

// AddLine appends a line item while the order is still OPEN. The unit amount
// is converted to base using the order's fx rate and the running total is
// recomputed.
func (o *Order) AddLine(variantID uuid.UUID, quantity int64, unitAmount decimal.Decimal) error {
	if o.Status != StatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be added to an open order")
	}
	if variantID == uuid.Nil {
		return shared.NewValidationError("Variant ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewValidationError("Line quantity must be positive")
	}
	if unitAmount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Unit amount must be positive")
	}

	unit, err := valueobject.NewMoney(unitAmount, o.Currency)
	if err != nil {
		return shared.NewValidationError(err.Error())
	}
	rate := decimal.NewFromInt(1)
	if o.FxRate != nil {
		rate = *o.FxRate
	}
	unitBase, err := unit.ToBase(rate)
	if err != nil {
		return shared.NewValidationError(err.Error())
	}

	line := OrderLine{
		BaseEntity:     shared.NewBaseEntity(),
		OrderID:        o.ID,
		VariantID:      variantID,
		Quantity:       quantity,
		UnitAmount:     unitAmount,
		UnitAmountBase: unitBase.Amount(),
	}
	o.Lines = append(o.Lines, line)
	o.TotalBase = o.TotalBase.Add(unitBase.Amount().Mul(decimal.NewFromInt(quantity)))
	o.UpdatedAt = time.Now()
	return nil
}

// Complete transitions the order from OPEN to COMPLETED
func (o *Order) Complete() error {
	if o.Status != StatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only an open order can be completed")
	}
	if len(o.Lines) == 0 {
		return shared.NewValidationError("An order needs at least one line")
	}

	o.Status = StatusCompleted
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderCompletedEvent(o))
	return nil
}

// Cancel reverses a completed order. Cancelling an already cancelled order
// fails with ALREADY_CANCELLED so reversal is not idempotent by accident.
func (o *Order) Cancel(reason string) error {
	if o.Status == StatusCancelled {
		return shared.NewDomainError("ALREADY_CANCELLED", fmt.Sprintf("Order %s is already cancelled", o.Code))
	}
	if o.Status != StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only a completed order can be cancelled")
	}

	now := time.Now()
	o.Status = StatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))
	return nil
}

// MarkPaid sets the reporting flag when the linked receivable settles in full
func (o *Order) MarkPaid() error {
	if o.Kind != KindSale {
		return shared.NewDomainError("INVALID_STATE", "Only sale orders carry the paid flag")
	}
	if o.Status != StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only a completed order can be marked paid")
	}
	if o.Paid {
		return nil
	}

	o.Paid = true
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

// MarkReceived records the goods-receipt transition on a purchase order.
// The flag guards against double receipt.
func (o *Order) MarkReceived() error {
	if o.Kind != KindPurchase {
		return shared.NewDomainError("INVALID_STATE", "Only purchase orders receive goods")
	}
	if o.Status != StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only a completed purchase can receive goods")
	}
	if o.GoodsReceived {
		return shared.NewDomainError("ALREADY_RECEIVED", fmt.Sprintf("Goods for order %s were already received", o.Code))
	}

	o.GoodsReceived = true
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	o.AddDomainEvent(NewGoodsReceivedEvent(o))
	return nil
}

// IsCompleted returns true if the order is in COMPLETED status
func (o *Order) IsCompleted() bool {
	return o.Status == StatusCompleted
}

// TotalQuantity sums the quantities across all lines
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, line := range o.Lines {
		total += line.Quantity
	}
	return total
}
