package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	appexchange "github.com/retail/backend/internal/application/exchange"
	financeapp "github.com/retail/backend/internal/application/finance"
	tradeapp "github.com/retail/backend/internal/application/trade"
	"github.com/retail/backend/internal/domain/exchange"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/retail/backend/internal/infrastructure/cache"
	"github.com/retail/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const lockTimeout = 3 * time.Second

// fixedFeed is a reference-rate provider pinned to one value
type fixedFeed struct {
	rate decimal.Decimal
}

func (f fixedFeed) FetchReferenceRate(ctx context.Context) (decimal.Decimal, error) {
	return f.rate, nil
}

// testServices wires the full application stack against a test database
type testServices struct {
	orders      *tradeapp.OrderService
	settlements *financeapp.SettlementService
	rates       *appexchange.RateService
	positions   inventory.PositionRepository
	lots        inventory.LotRepository
	accounts    finance.AccountRepository
	commissions finance.CommissionRepository
}

func newServices(t *testing.T, tdb *TestDB) *testServices {
	t.Helper()

	positionRepo := persistence.NewGormPositionRepository(tdb.DB)
	lotRepo := persistence.NewGormLotRepository(tdb.DB)
	accountRepo := persistence.NewGormAccountRepository(tdb.DB)
	commissionRepo := persistence.NewGormCommissionRepository(tdb.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(tdb.DB)

	feed := fixedFeed{rate: decimal.NewFromFloat(36.5)}
	oracle := exchange.NewOracle(snapshotRepo, feed, decimal.NewFromFloat(2.0), true, zap.NewNop())
	rateCache := cache.NewInMemoryRateCache(time.Minute)
	rateService := appexchange.NewRateService(snapshotRepo, oracle, feed, rateCache, zap.NewNop())

	tradeScope := persistence.NewTradeTransactionScope(tdb.DB, lockTimeout)
	financeScope := persistence.NewFinanceTransactionScope(tdb.DB, lockTimeout)

	return &testServices{
		orders: tradeapp.NewOrderService(
			tradeScope, positionRepo, rateService, decimal.NewFromFloat(0.05), zap.NewNop()),
		settlements: financeapp.NewSettlementService(financeScope, zap.NewNop()),
		rates:       rateService,
		positions:   positionRepo,
		lots:        lotRepo,
		accounts:    accountRepo,
		commissions: commissionRepo,
	}
}

// seedStock puts quantity on hand for a variant without going through an order
func seedStock(t *testing.T, svc *testServices, variantID uuid.UUID, quantity int64) {
	t.Helper()

	ctx := context.Background()
	position, err := svc.positions.GetOrCreate(ctx, variantID)
	require.NoError(t, err)
	_, err = position.Apply(quantity, inventory.ReasonManual)
	require.NoError(t, err)
	require.NoError(t, svc.positions.Save(ctx, position))
}

// stockOf reads the quantity on hand for a variant
func stockOf(t *testing.T, svc *testServices, variantID uuid.UUID) int64 {
	t.Helper()

	position, err := svc.positions.GetOrCreate(context.Background(), variantID)
	require.NoError(t, err)
	return position.QuantityOnHand
}
