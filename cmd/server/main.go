package main

import (
	"context"
	"os/signal"
	"syscall"

	appexchange "github.com/retail/backend/internal/application/exchange"
	financeapp "github.com/retail/backend/internal/application/finance"
	tradeapp "github.com/retail/backend/internal/application/trade"
	"github.com/retail/backend/internal/domain/exchange"
	"github.com/retail/backend/internal/infrastructure/cache"
	"github.com/retail/backend/internal/infrastructure/config"
	"github.com/retail/backend/internal/infrastructure/fxfeed"
	"github.com/retail/backend/internal/infrastructure/logger"
	"github.com/retail/backend/internal/infrastructure/migration"
	"github.com/retail/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const migrationsPath = "migrations"

// application holds the wired services for the process lifetime
type application struct {
	orders      *tradeapp.OrderService
	settlements *financeapp.SettlementService
	rates       *appexchange.RateService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ledger engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories
	positionRepo := persistence.NewGormPositionRepository(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)

	// Exchange rate oracle, feed and cache
	feedClient := fxfeed.NewClient(cfg.Exchange)
	oracle := exchange.NewOracle(
		snapshotRepo,
		feedClient,
		decimal.NewFromFloat(cfg.Exchange.MaxDiff),
		cfg.Exchange.FailOpen,
		log,
	)
	rateCache := cache.NewRateCache(cfg.Redis, cfg.Exchange.CacheTTL, log)

	// Transaction scopes
	tradeScope := persistence.NewTradeTransactionScope(db.DB, cfg.Database.LockTimeout)
	financeScope := persistence.NewFinanceTransactionScope(db.DB, cfg.Database.LockTimeout)

	// Application services
	rateService := appexchange.NewRateService(snapshotRepo, oracle, feedClient, rateCache, log)
	app := &application{
		orders: tradeapp.NewOrderService(
			tradeScope,
			positionRepo,
			rateService,
			decimal.NewFromFloat(cfg.Commission.Rate),
			log,
		),
		settlements: financeapp.NewSettlementService(financeScope, log),
		rates:       rateService,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.rates.StartRefresher(ctx, cfg.Exchange.RefreshInterval)
	log.Info("Ledger engine started",
		zap.Duration("rate_refresh_interval", cfg.Exchange.RefreshInterval),
	)

	<-ctx.Done()
	log.Info("Shutting down")
}
