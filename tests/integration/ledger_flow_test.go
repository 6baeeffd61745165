package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	tradeapp "github.com/retail/backend/internal/application/trade"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseToSaleFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newServices(t, tdb)
	ctx := context.Background()

	variantID := uuid.New()
	supplierID := uuid.New()
	customerID := uuid.New()
	sellerID := uuid.New()

	// Purchase 10 units on 30 days credit
	purchase, err := svc.orders.CreatePurchase(ctx, &tradeapp.CreatePurchaseRequest{
		CounterpartyID: supplierID,
		Currency:       "USD",
		CreditDays:     30,
		Lines: []tradeapp.OrderLineRequest{
			{VariantID: variantID, Quantity: 10, UnitAmount: decimal.NewFromInt(4)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, trade.KindPurchase, purchase.Kind)
	assert.Equal(t, trade.StatusCompleted, purchase.Status)
	assert.False(t, purchase.GoodsReceived)
	require.NotNil(t, purchase.DueDate)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), *purchase.DueDate, time.Minute)

	// A payable account opened for the full total
	account, err := svc.accounts.FindByOrder(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.DirectionPayable, account.Direction)
	assert.True(t, account.RemainingBase.Equal(decimal.NewFromInt(40)))

	// Stock moves only at receipt
	assert.Equal(t, int64(0), stockOf(t, svc, variantID))

	received, err := svc.orders.ReceivePurchase(ctx, purchase.ID)
	require.NoError(t, err)
	assert.True(t, received.GoodsReceived)
	assert.Equal(t, int64(10), stockOf(t, svc, variantID))

	lots, err := svc.lots.FindByOrder(ctx, purchase.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, int64(10), lots[0].Quantity)

	// Second receipt is rejected
	_, err = svc.orders.ReceivePurchase(ctx, purchase.ID)
	assert.Equal(t, "ALREADY_RECEIVED", shared.CodeOf(err))

	// Sell 3 units
	sale, err := svc.orders.CreateSale(ctx, &tradeapp.CreateSaleRequest{
		CounterpartyID: customerID,
		UserID:         sellerID,
		Currency:       "USD",
		Lines: []tradeapp.OrderLineRequest{
			{VariantID: variantID, Quantity: 3, UnitAmount: decimal.NewFromInt(10)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), stockOf(t, svc, variantID))
	assert.True(t, sale.TotalBase.Equal(decimal.NewFromInt(30)))

	// Receivable and commission created alongside the sale
	receivable, err := svc.accounts.FindByOrder(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.DirectionReceivable, receivable.Direction)
	assert.True(t, receivable.RemainingBase.Equal(decimal.NewFromInt(30)))

	commission, err := svc.commissions.FindByOrder(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, commission.AmountBase.Equal(decimal.NewFromFloat(1.5)))

	// Overselling is rejected and leaves nothing behind
	_, err = svc.orders.CreateSale(ctx, &tradeapp.CreateSaleRequest{
		CounterpartyID: customerID,
		UserID:         sellerID,
		Currency:       "USD",
		Lines: []tradeapp.OrderLineRequest{
			{VariantID: variantID, Quantity: 8, UnitAmount: decimal.NewFromInt(10)},
		},
	})
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.CodeOf(err))
	assert.Equal(t, int64(7), stockOf(t, svc, variantID))
}

func TestLocalCurrencySale(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newServices(t, tdb)
	ctx := context.Background()

	variantID := uuid.New()
	seedStock(t, svc, variantID, 5)

	require.NoError(t, svc.rates.Record(ctx, time.Now(), decimal.NewFromFloat(36.5), "manual"))

	t.Run("rate within tolerance converts to base", func(t *testing.T) {
		rate := decimal.NewFromFloat(36.5)
		sale, err := svc.orders.CreateSale(ctx, &tradeapp.CreateSaleRequest{
			CounterpartyID: uuid.New(),
			UserID:         uuid.New(),
			Currency:       "VES",
			FxRate:         &rate,
			Lines: []tradeapp.OrderLineRequest{
				{VariantID: variantID, Quantity: 2, UnitAmount: decimal.NewFromInt(365)},
			},
		})
		require.NoError(t, err)
		// 365 VES / 36.5 = 10 USD per unit
		assert.True(t, sale.TotalBase.Equal(decimal.NewFromInt(20)), "got %s", sale.TotalBase)
		assert.Equal(t, int64(3), stockOf(t, svc, variantID))
	})

	t.Run("rate outside tolerance is rejected", func(t *testing.T) {
		rate := decimal.NewFromInt(50)
		_, err := svc.orders.CreateSale(ctx, &tradeapp.CreateSaleRequest{
			CounterpartyID: uuid.New(),
			UserID:         uuid.New(),
			Currency:       "VES",
			FxRate:         &rate,
			Lines: []tradeapp.OrderLineRequest{
				{VariantID: variantID, Quantity: 1, UnitAmount: decimal.NewFromInt(365)},
			},
		})
		assert.Equal(t, "INVALID_EXCHANGE_RATE", shared.CodeOf(err))
		assert.Equal(t, int64(3), stockOf(t, svc, variantID))
	})

	t.Run("missing rate is rejected", func(t *testing.T) {
		_, err := svc.orders.CreateSale(ctx, &tradeapp.CreateSaleRequest{
			CounterpartyID: uuid.New(),
			UserID:         uuid.New(),
			Currency:       "VES",
			Lines: []tradeapp.OrderLineRequest{
				{VariantID: variantID, Quantity: 1, UnitAmount: decimal.NewFromInt(365)},
			},
		})
		assert.Equal(t, "VALIDATION_ERROR", shared.CodeOf(err))
	})
}

func TestReversalFlows(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tdb := NewTestDB(t)
	svc := newServices(t, tdb)
	ctx := context.Background()

	t.Run("cancelled sale restores stock and voids the receivable", func(t *testing.T) {
		variantID := uuid.New()
		seedStock(t, svc, variantID, 10)

		sale, err := svc.orders.CreateSale(ctx, &tradeapp.CreateSaleRequest{
			CounterpartyID: uuid.New(),
			UserID:         uuid.New(),
			Currency:       "USD",
			Lines: []tradeapp.OrderLineRequest{
				{VariantID: variantID, Quantity: 4, UnitAmount: decimal.NewFromInt(5)},
			},
		})
		require.NoError(t, err)
		require.Equal(t, int64(6), stockOf(t, svc, variantID))

		cancelled, err := svc.orders.CancelOrder(ctx, &tradeapp.CancelOrderRequest{
			OrderID: sale.ID,
			Reason:  "customer returned goods",
		})
		require.NoError(t, err)
		assert.Equal(t, trade.StatusCancelled, cancelled.Status)
		assert.Equal(t, int64(10), stockOf(t, svc, variantID))

		account, err := svc.accounts.FindByOrder(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.StatusVoided, account.Status)

		// Second cancellation is rejected
		_, err = svc.orders.CancelOrder(ctx, &tradeapp.CancelOrderRequest{
			OrderID: sale.ID,
			Reason:  "again",
		})
		assert.Equal(t, "ALREADY_CANCELLED", shared.CodeOf(err))
	})

	t.Run("cancelled received purchase deducts stock and marks lots", func(t *testing.T) {
		variantID := uuid.New()

		purchase, err := svc.orders.CreatePurchase(ctx, &tradeapp.CreatePurchaseRequest{
			CounterpartyID: uuid.New(),
			Currency:       "USD",
			Lines: []tradeapp.OrderLineRequest{
				{VariantID: variantID, Quantity: 6, UnitAmount: decimal.NewFromInt(2)},
			},
		})
		require.NoError(t, err)
		_, err = svc.orders.ReceivePurchase(ctx, purchase.ID)
		require.NoError(t, err)
		require.Equal(t, int64(6), stockOf(t, svc, variantID))

		_, err = svc.orders.CancelOrder(ctx, &tradeapp.CancelOrderRequest{
			OrderID: purchase.ID,
			Reason:  "wrong shipment",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), stockOf(t, svc, variantID))

		lots, err := svc.lots.FindByOrder(ctx, purchase.ID)
		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.True(t, lots[0].IsReversed())
	})

	t.Run("reversal blocked when received goods were already sold", func(t *testing.T) {
		variantID := uuid.New()

		purchase, err := svc.orders.CreatePurchase(ctx, &tradeapp.CreatePurchaseRequest{
			CounterpartyID: uuid.New(),
			Currency:       "USD",
			Lines: []tradeapp.OrderLineRequest{
				{VariantID: variantID, Quantity: 5, UnitAmount: decimal.NewFromInt(2)},
			},
		})
		require.NoError(t, err)
		_, err = svc.orders.ReceivePurchase(ctx, purchase.ID)
		require.NoError(t, err)

		// Sell part of the received batch
		_, err = svc.orders.CreateSale(ctx, &tradeapp.CreateSaleRequest{
			CounterpartyID: uuid.New(),
			UserID:         uuid.New(),
			Currency:       "USD",
			Lines: []tradeapp.OrderLineRequest{
				{VariantID: variantID, Quantity: 2, UnitAmount: decimal.NewFromInt(4)},
			},
		})
		require.NoError(t, err)
		require.Equal(t, int64(3), stockOf(t, svc, variantID))

		// Taking back 5 from a stock of 3 must fail and change nothing
		_, err = svc.orders.CancelOrder(ctx, &tradeapp.CancelOrderRequest{
			OrderID: purchase.ID,
			Reason:  "supplier recall",
		})
		assert.Equal(t, "INSUFFICIENT_STOCK", shared.CodeOf(err))
		assert.Equal(t, int64(3), stockOf(t, svc, variantID))

		loaded, err := svc.orders.GetOrder(ctx, purchase.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.StatusCompleted, loaded.Status)

		account, err := svc.accounts.FindByOrder(ctx, purchase.ID)
		require.NoError(t, err)
		assert.NotEqual(t, finance.StatusVoided, account.Status)
	})
}
