package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPositionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPositionRepository(db)
	ctx := context.Background()

	t.Run("get or create is idempotent", func(t *testing.T) {
		variantID := uuid.New()

		first, err := repo.GetOrCreate(ctx, variantID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), first.QuantityOnHand)

		second, err := repo.GetOrCreate(ctx, variantID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("check available", func(t *testing.T) {
		variantID := uuid.New()
		position, err := repo.GetOrCreate(ctx, variantID)
		require.NoError(t, err)

		_, err = position.Apply(5, inventory.ReasonPurchaseReceipt)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, position))

		ok, err := repo.CheckAvailable(ctx, variantID, 5)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.CheckAvailable(ctx, variantID, 6)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown variant has nothing available", func(t *testing.T) {
		ok, err := repo.CheckAvailable(ctx, uuid.New(), 1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestGormLotRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLotRepository(db)
	ctx := context.Background()

	t.Run("save and query by order and variant", func(t *testing.T) {
		variantID := uuid.New()
		orderID := uuid.New()

		lot, err := inventory.NewStockLot(variantID, orderID, 10)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, lot))

		byOrder, err := repo.FindByOrder(ctx, orderID)
		require.NoError(t, err)
		require.Len(t, byOrder, 1)
		assert.Equal(t, int64(10), byOrder[0].Quantity)

		byVariant, err := repo.FindByVariant(ctx, variantID)
		require.NoError(t, err)
		assert.Len(t, byVariant, 1)
	})

	t.Run("reversal flag round trips", func(t *testing.T) {
		lot, err := inventory.NewStockLot(uuid.New(), uuid.New(), 3)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, lot))

		lot.MarkReversed()
		require.NoError(t, repo.Save(ctx, lot))

		lots, err := repo.FindByOrder(ctx, lot.OrderID)
		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.True(t, lots[0].IsReversed())
	})
}
