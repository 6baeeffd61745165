package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPaymentRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()

	t.Run("splits survive the round trip", func(t *testing.T) {
		rate := decimal.NewFromInt(40)
		payment, err := finance.NewPayment(uuid.New(), &rate, "counter sale")
		require.NoError(t, err)
		require.NoError(t, payment.AddSplit(uuid.New(), decimal.NewFromInt(10), valueobject.USD))
		require.NoError(t, payment.AddSplit(uuid.New(), decimal.NewFromInt(400), valueobject.VES))

		require.NoError(t, repo.Save(ctx, payment))

		payments, err := repo.FindByAccount(ctx, payment.AccountID)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		require.Len(t, payments[0].Splits, 2)
		assert.Equal(t, valueobject.VES, payments[0].Splits[1].Currency)
		assert.True(t, payments[0].Splits[1].AmountBase.Equal(decimal.NewFromInt(10)))
		assert.True(t, payments[0].TotalAppliedBase.Equal(decimal.NewFromInt(20)))
	})

	t.Run("find by date bounds to one utc day", func(t *testing.T) {
		accountID := uuid.New()
		day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

		inDay, err := finance.NewPayment(accountID, nil, "")
		require.NoError(t, err)
		require.NoError(t, inDay.AddSplit(uuid.New(), decimal.NewFromInt(5), valueobject.USD))
		inDay.PaidAt = day.Add(13 * time.Hour)
		require.NoError(t, repo.Save(ctx, inDay))

		nextDay, err := finance.NewPayment(accountID, nil, "")
		require.NoError(t, err)
		require.NoError(t, nextDay.AddSplit(uuid.New(), decimal.NewFromInt(7), valueobject.USD))
		nextDay.PaidAt = day.Add(25 * time.Hour)
		require.NoError(t, repo.Save(ctx, nextDay))

		payments, err := repo.FindByDate(ctx, day.Add(2*time.Hour))
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, inDay.ID, payments[0].ID)
	})

	t.Run("account history is ordered by paid_at", func(t *testing.T) {
		accountID := uuid.New()
		base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

		for i := 2; i >= 0; i-- {
			payment, err := finance.NewPayment(accountID, nil, "")
			require.NoError(t, err)
			require.NoError(t, payment.AddSplit(uuid.New(), decimal.NewFromInt(1), valueobject.USD))
			payment.PaidAt = base.Add(time.Duration(i) * time.Hour)
			require.NoError(t, repo.Save(ctx, payment))
		}

		payments, err := repo.FindByAccount(ctx, accountID)
		require.NoError(t, err)
		require.Len(t, payments, 3)
		assert.True(t, payments[0].PaidAt.Before(payments[1].PaidAt))
		assert.True(t, payments[1].PaidAt.Before(payments[2].PaidAt))
	})
}

func TestGormCommissionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCommissionRepository(db)
	ctx := context.Background()

	t.Run("save and find by order", func(t *testing.T) {
		orderID := uuid.New()
		commission, err := finance.NewCommission(orderID, uuid.New(), decimal.NewFromInt(200), decimal.NewFromFloat(0.05))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, commission))

		loaded, err := repo.FindByOrder(ctx, orderID)
		require.NoError(t, err)
		assert.True(t, loaded.AmountBase.Equal(decimal.NewFromInt(10)))
	})

	t.Run("find by user", func(t *testing.T) {
		userID := uuid.New()
		for i := 0; i < 2; i++ {
			commission, err := finance.NewCommission(uuid.New(), userID, decimal.NewFromInt(100), decimal.NewFromFloat(0.05))
			require.NoError(t, err)
			require.NoError(t, repo.Save(ctx, commission))
		}

		commissions, err := repo.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, commissions, 2)
	})
}
