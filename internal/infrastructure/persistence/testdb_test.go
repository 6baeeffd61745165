package persistence

import (
	"testing"

	"github.com/retail/backend/internal/domain/exchange"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/retail/backend/internal/domain/trade"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database for repository tests.
// Row-locking paths (FOR UPDATE, lock_timeout) need real Postgres and are
// covered by the integration tests instead.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&trade.Order{},
		&trade.OrderLine{},
		&inventory.InventoryPosition{},
		&inventory.StockLot{},
		&finance.SettlementAccount{},
		&finance.Payment{},
		&finance.Commission{},
		&exchange.RateSnapshot{},
	)
	require.NoError(t, err)

	return db
}
