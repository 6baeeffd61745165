package finance

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentSplit is one method's share of a payment. The base amount is fixed
// at the moment the split is added using the payment's fx rate.
type PaymentSplit struct {
	MethodID   uuid.UUID            `json:"method_id"`
	Amount     decimal.Decimal      `json:"amount"`
	Currency   valueobject.Currency `json:"currency"`
	AmountBase decimal.Decimal      `json:"amount_base"`
}

// PaymentSplits is stored as JSONB
type PaymentSplits []PaymentSplit

// Value implements driver.Valuer
func (s PaymentSplits) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *PaymentSplits) Scan(value any) error {
	if value == nil {
		*s = PaymentSplits{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentSplits", value)
	}
	return json.Unmarshal(data, s)
}

// Payment is one settlement transaction against an account, append-only.
// A payment may be split across several methods and currencies; the total
// applied to the account is the sum of the split base amounts.
type Payment struct {
	shared.BaseEntity
	AccountID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Splits           PaymentSplits    `gorm:"type:jsonb;not null;default:'[]'"`
	TotalAppliedBase decimal.Decimal  `gorm:"type:decimal(18,6);not null"`
	FxRate           *decimal.Decimal `gorm:"type:decimal(18,6)"`
	Observations     string           `gorm:"type:text"`
	PaidAt           time.Time        `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment starts an empty payment against an account. fxRate converts
// local-currency splits and is required only when such splits are added.
func NewPayment(accountID uuid.UUID, fxRate *decimal.Decimal, observations string) (*Payment, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewValidationError("Account ID cannot be empty")
	}
	if fxRate != nil && fxRate.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Exchange rate must be positive")
	}

	return &Payment{
		BaseEntity:       shared.NewBaseEntity(),
		AccountID:        accountID,
		Splits:           make(PaymentSplits, 0),
		TotalAppliedBase: decimal.Zero,
		FxRate:           fxRate,
		Observations:     observations,
		PaidAt:           time.Now(),
	}, nil
}

// AddSplit appends a method's share, converting to base through the
// payment's fx rate. Local-currency splits without a rate are rejected.
func (p *Payment) AddSplit(methodID uuid.UUID, amount decimal.Decimal, currency valueobject.Currency) error {
	if methodID == uuid.Nil {
		return shared.NewValidationError("Payment method ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Split amount must be positive")
	}
	if !currency.IsValid() {
		return shared.NewValidationError(fmt.Sprintf("Unsupported currency: %s", currency))
	}
	if currency != valueobject.BaseCurrency && p.FxRate == nil {
		return shared.NewValidationError("A positive exchange rate is required for local-currency splits")
	}

	money, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return shared.NewValidationError(err.Error())
	}
	rate := decimal.NewFromInt(1)
	if p.FxRate != nil {
		rate = *p.FxRate
	}
	base, err := money.ToBase(rate)
	if err != nil {
		return shared.NewValidationError(err.Error())
	}

	p.Splits = append(p.Splits, PaymentSplit{
		MethodID:   methodID,
		Amount:     amount,
		Currency:   currency,
		AmountBase: base.Amount(),
	})
	p.TotalAppliedBase = p.TotalAppliedBase.Add(base.Amount())
	p.UpdatedAt = time.Now()
	return nil
}
