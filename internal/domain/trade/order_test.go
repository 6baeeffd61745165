package trade

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateOf(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func newCompletedSale(t *testing.T) *Order {
	t.Helper()
	order, err := NewSaleOrder(uuid.New(), valueobject.USD, nil)
	require.NoError(t, err)
	require.NoError(t, order.AddLine(uuid.New(), 2, decimal.NewFromInt(10)))
	require.NoError(t, order.Complete())
	return order
}

func TestNewOrder(t *testing.T) {
	t.Run("sale in base currency", func(t *testing.T) {
		order, err := NewSaleOrder(uuid.New(), valueobject.USD, nil)
		require.NoError(t, err)
		assert.Equal(t, KindSale, order.Kind)
		assert.Equal(t, StatusOpen, order.Status)
		assert.True(t, strings.HasPrefix(order.Code, "SO-"))
		assert.False(t, order.Paid)
	})

	t.Run("purchase with due date", func(t *testing.T) {
		due := time.Now().AddDate(0, 0, 30)
		order, err := NewPurchaseOrder(uuid.New(), valueobject.USD, nil, &due)
		require.NoError(t, err)
		assert.Equal(t, KindPurchase, order.Kind)
		assert.True(t, strings.HasPrefix(order.Code, "PO-"))
		require.NotNil(t, order.DueDate)
	})

	t.Run("local currency requires positive rate", func(t *testing.T) {
		_, err := NewSaleOrder(uuid.New(), valueobject.VES, nil)
		assert.Equal(t, "VALIDATION_ERROR", shared.CodeOf(err))

		_, err = NewSaleOrder(uuid.New(), valueobject.VES, rateOf(0))
		assert.Equal(t, "VALIDATION_ERROR", shared.CodeOf(err))

		_, err = NewSaleOrder(uuid.New(), valueobject.VES, rateOf(40))
		assert.NoError(t, err)
	})

	t.Run("base currency rejects a rate", func(t *testing.T) {
		_, err := NewSaleOrder(uuid.New(), valueobject.USD, rateOf(40))
		assert.Equal(t, "VALIDATION_ERROR", shared.CodeOf(err))
	})

	t.Run("rejects nil counterparty and bad currency", func(t *testing.T) {
		_, err := NewSaleOrder(uuid.Nil, valueobject.USD, nil)
		assert.Error(t, err)
		_, err = NewSaleOrder(uuid.New(), valueobject.Currency("EUR"), nil)
		assert.Error(t, err)
	})
}

func TestOrder_AddLine(t *testing.T) {
	t.Run("accumulates base total in USD", func(t *testing.T) {
		order, err := NewSaleOrder(uuid.New(), valueobject.USD, nil)
		require.NoError(t, err)

		require.NoError(t, order.AddLine(uuid.New(), 3, decimal.NewFromInt(10)))
		require.NoError(t, order.AddLine(uuid.New(), 1, decimal.NewFromFloat(5.5)))

		assert.True(t, order.TotalBase.Equal(decimal.NewFromFloat(35.5)), order.TotalBase.String())
		assert.Equal(t, int64(4), order.TotalQuantity())
	})

	t.Run("converts local amounts through the order rate", func(t *testing.T) {
		order, err := NewSaleOrder(uuid.New(), valueobject.VES, rateOf(40))
		require.NoError(t, err)

		require.NoError(t, order.AddLine(uuid.New(), 2, decimal.NewFromInt(400)))

		// 400 VES / 40 = 10 USD per unit
		require.Len(t, order.Lines, 1)
		assert.True(t, order.Lines[0].UnitAmountBase.Equal(decimal.NewFromInt(10)))
		assert.True(t, order.TotalBase.Equal(decimal.NewFromInt(20)))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		order, err := NewSaleOrder(uuid.New(), valueobject.USD, nil)
		require.NoError(t, err)

		assert.Error(t, order.AddLine(uuid.Nil, 1, decimal.NewFromInt(1)))
		assert.Error(t, order.AddLine(uuid.New(), 0, decimal.NewFromInt(1)))
		assert.Error(t, order.AddLine(uuid.New(), 1, decimal.Zero))
	})

	t.Run("rejects lines after completion", func(t *testing.T) {
		order := newCompletedSale(t)
		err := order.AddLine(uuid.New(), 1, decimal.NewFromInt(1))
		assert.Equal(t, "INVALID_STATE", shared.CodeOf(err))
	})
}

func TestOrder_Complete(t *testing.T) {
	t.Run("completes an open order with lines", func(t *testing.T) {
		order := newCompletedSale(t)
		assert.Equal(t, StatusCompleted, order.Status)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCompleted, events[0].EventType())
	})

	t.Run("rejects empty order", func(t *testing.T) {
		order, err := NewSaleOrder(uuid.New(), valueobject.USD, nil)
		require.NoError(t, err)
		assert.Error(t, order.Complete())
	})

	t.Run("rejects double completion", func(t *testing.T) {
		order := newCompletedSale(t)
		assert.Equal(t, "INVALID_STATE", shared.CodeOf(order.Complete()))
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancels a completed order", func(t *testing.T) {
		order := newCompletedSale(t)
		require.NoError(t, order.Cancel("customer returned goods"))
		assert.Equal(t, StatusCancelled, order.Status)
		assert.Equal(t, "customer returned goods", order.CancelReason)
		require.NotNil(t, order.CancelledAt)
	})

	t.Run("second cancel fails with ALREADY_CANCELLED", func(t *testing.T) {
		order := newCompletedSale(t)
		require.NoError(t, order.Cancel("first"))
		err := order.Cancel("second")
		assert.Equal(t, "ALREADY_CANCELLED", shared.CodeOf(err))
	})

	t.Run("open order cannot be cancelled", func(t *testing.T) {
		order, err := NewSaleOrder(uuid.New(), valueobject.USD, nil)
		require.NoError(t, err)
		assert.Equal(t, "INVALID_STATE", shared.CodeOf(order.Cancel("nope")))
	})
}

func TestOrder_MarkPaid(t *testing.T) {
	t.Run("marks a completed sale paid once", func(t *testing.T) {
		order := newCompletedSale(t)
		require.NoError(t, order.MarkPaid())
		assert.True(t, order.Paid)

		// idempotent
		require.NoError(t, order.MarkPaid())
	})

	t.Run("purchases carry no paid flag", func(t *testing.T) {
		due := time.Now()
		order, err := NewPurchaseOrder(uuid.New(), valueobject.USD, nil, &due)
		require.NoError(t, err)
		require.NoError(t, order.AddLine(uuid.New(), 1, decimal.NewFromInt(1)))
		require.NoError(t, order.Complete())

		assert.Equal(t, "INVALID_STATE", shared.CodeOf(order.MarkPaid()))
	})
}

func TestOrder_MarkReceived(t *testing.T) {
	newCompletedPurchase := func(t *testing.T) *Order {
		t.Helper()
		order, err := NewPurchaseOrder(uuid.New(), valueobject.USD, nil, nil)
		require.NoError(t, err)
		require.NoError(t, order.AddLine(uuid.New(), 5, decimal.NewFromInt(2)))
		require.NoError(t, order.Complete())
		return order
	}

	t.Run("first receipt succeeds, second fails", func(t *testing.T) {
		order := newCompletedPurchase(t)
		require.NoError(t, order.MarkReceived())
		assert.True(t, order.GoodsReceived)

		err := order.MarkReceived()
		assert.Equal(t, "ALREADY_RECEIVED", shared.CodeOf(err))
	})

	t.Run("sales do not receive goods", func(t *testing.T) {
		order := newCompletedSale(t)
		assert.Equal(t, "INVALID_STATE", shared.CodeOf(order.MarkReceived()))
	})
}

func TestNewOrderCode(t *testing.T) {
	code := NewOrderCode(KindSale)
	assert.True(t, strings.HasPrefix(code, "SO-"))
	assert.Equal(t, code, strings.ToUpper(code))
}
