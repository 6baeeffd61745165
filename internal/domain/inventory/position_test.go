package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInventoryPosition(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		variantID := uuid.New()
		pos, err := NewInventoryPosition(variantID)
		require.NoError(t, err)
		assert.Equal(t, variantID, pos.VariantID)
		assert.Equal(t, int64(0), pos.QuantityOnHand)
	})

	t.Run("rejects nil variant", func(t *testing.T) {
		_, err := NewInventoryPosition(uuid.Nil)
		assert.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", shared.CodeOf(err))
	})
}

func TestInventoryPosition_Apply(t *testing.T) {
	newPosition := func(t *testing.T, qty int64) *InventoryPosition {
		t.Helper()
		pos, err := NewInventoryPosition(uuid.New())
		require.NoError(t, err)
		pos.QuantityOnHand = qty
		return pos
	}

	tests := []struct {
		name     string
		initial  int64
		delta    int64
		reason   AdjustmentReason
		wantQty  int64
		wantCode string
	}{
		{
			name:    "receipt increments",
			initial: 0,
			delta:   10,
			reason:  ReasonPurchaseReceipt,
			wantQty: 10,
		},
		{
			name:    "sale decrements",
			initial: 10,
			delta:   -4,
			reason:  ReasonSale,
			wantQty: 6,
		},
		{
			name:    "sale drains to exactly zero",
			initial: 4,
			delta:   -4,
			reason:  ReasonSale,
			wantQty: 0,
		},
		{
			name:     "sale below zero fails",
			initial:  3,
			delta:    -4,
			reason:   ReasonSale,
			wantQty:  3,
			wantCode: "INSUFFICIENT_STOCK",
		},
		{
			name:     "purchase reversal below zero fails",
			initial:  2,
			delta:    -5,
			reason:   ReasonPurchaseReversal,
			wantQty:  2,
			wantCode: "INSUFFICIENT_STOCK",
		},
		{
			name:    "sale reversal restores stock",
			initial: 0,
			delta:   4,
			reason:  ReasonSaleReversal,
			wantQty: 4,
		},
		{
			name:     "zero delta rejected",
			initial:  5,
			delta:    0,
			reason:   ReasonManual,
			wantQty:  5,
			wantCode: "VALIDATION_ERROR",
		},
		{
			name:     "unknown reason rejected",
			initial:  5,
			delta:    1,
			reason:   AdjustmentReason("GUESS"),
			wantQty:  5,
			wantCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := newPosition(t, tt.initial)
			got, err := pos.Apply(tt.delta, tt.reason)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, shared.CodeOf(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantQty, got)
			assert.Equal(t, tt.wantQty, pos.QuantityOnHand)
		})
	}

	t.Run("successful apply records an event and bumps version", func(t *testing.T) {
		pos := newPosition(t, 5)
		before := pos.Version
		_, err := pos.Apply(-2, ReasonSale)
		require.NoError(t, err)
		assert.Equal(t, before+1, pos.Version)

		events := pos.GetDomainEvents()
		require.Len(t, events, 1)
		adjusted, ok := events[0].(*StockAdjustedEvent)
		require.True(t, ok)
		assert.Equal(t, int64(-2), adjusted.Delta)
		assert.Equal(t, int64(3), adjusted.NewQuantity)
		assert.Equal(t, ReasonSale, adjusted.Reason)
	})

	t.Run("failed apply leaves no event", func(t *testing.T) {
		pos := newPosition(t, 1)
		_, err := pos.Apply(-2, ReasonSale)
		require.Error(t, err)
		assert.Empty(t, pos.GetDomainEvents())
	})
}

func TestInventoryPosition_CanFulfill(t *testing.T) {
	pos, err := NewInventoryPosition(uuid.New())
	require.NoError(t, err)
	pos.QuantityOnHand = 5

	assert.True(t, pos.CanFulfill(5))
	assert.True(t, pos.CanFulfill(1))
	assert.False(t, pos.CanFulfill(6))
	assert.False(t, pos.CanFulfill(0))
	assert.False(t, pos.CanFulfill(-1))
}

func TestStockLot(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		lot, err := NewStockLot(uuid.New(), uuid.New(), 12)
		require.NoError(t, err)
		assert.False(t, lot.IsReversed())

		lot.MarkReversed()
		assert.True(t, lot.IsReversed())
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := NewStockLot(uuid.Nil, uuid.New(), 1)
		assert.Error(t, err)
		_, err = NewStockLot(uuid.New(), uuid.Nil, 1)
		assert.Error(t, err)
		_, err = NewStockLot(uuid.New(), uuid.New(), 0)
		assert.Error(t, err)
	})
}
