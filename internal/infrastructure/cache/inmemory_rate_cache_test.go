package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateCache(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cache misses", func(t *testing.T) {
		c := NewInMemoryRateCache(time.Minute)

		_, ok, err := c.Get(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("set then get", func(t *testing.T) {
		c := NewInMemoryRateCache(time.Minute)
		require.NoError(t, c.Set(ctx, decimal.NewFromFloat(36.5)))

		rate, ok, err := c.Get(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, rate.Equal(decimal.NewFromFloat(36.5)))
	})

	t.Run("expired entry misses", func(t *testing.T) {
		c := NewInMemoryRateCache(10 * time.Millisecond)
		require.NoError(t, c.Set(ctx, decimal.NewFromFloat(36.5)))

		assert.Eventually(t, func() bool {
			_, ok, err := c.Get(ctx)
			return err == nil && !ok
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("invalidate drops the value", func(t *testing.T) {
		c := NewInMemoryRateCache(time.Minute)
		require.NoError(t, c.Set(ctx, decimal.NewFromFloat(36.5)))
		require.NoError(t, c.Invalidate(ctx))

		_, ok, err := c.Get(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
