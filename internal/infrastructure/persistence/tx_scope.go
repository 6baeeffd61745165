package persistence

import (
	"context"
	"fmt"
	"time"

	appfinance "github.com/retail/backend/internal/application/finance"
	apptrade "github.com/retail/backend/internal/application/trade"
	"gorm.io/gorm"
)

// txRunner opens GORM transactions with the configured lock timeout.
// SET LOCAL scopes the timeout to the transaction, so a blocked row lock
// fails with 55P03 instead of waiting forever.
type txRunner struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func (r txRunner) run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("setting lock timeout: %w", err)
			}
		}
		return fn(tx)
	})
}

// TradeTransactionScope implements the order service's transaction scope
type TradeTransactionScope struct {
	runner txRunner
}

// NewTradeTransactionScope creates a TradeTransactionScope
func NewTradeTransactionScope(db *gorm.DB, lockTimeout time.Duration) *TradeTransactionScope {
	return &TradeTransactionScope{runner: txRunner{db: db, lockTimeout: lockTimeout}}
}

// Execute runs fn inside one database transaction. Any error rolls back.
func (s *TradeTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos apptrade.Repositories) error) error {
	return s.runner.run(ctx, func(tx *gorm.DB) error {
		return fn(ctx, apptrade.Repositories{
			Orders:      NewGormOrderRepository(tx),
			Positions:   NewGormPositionRepository(tx),
			Lots:        NewGormLotRepository(tx),
			Accounts:    NewGormAccountRepository(tx),
			Commissions: NewGormCommissionRepository(tx),
		})
	})
}

// FinanceTransactionScope implements the settlement service's transaction scope
type FinanceTransactionScope struct {
	runner txRunner
}

// NewFinanceTransactionScope creates a FinanceTransactionScope
func NewFinanceTransactionScope(db *gorm.DB, lockTimeout time.Duration) *FinanceTransactionScope {
	return &FinanceTransactionScope{runner: txRunner{db: db, lockTimeout: lockTimeout}}
}

// Execute runs fn inside one database transaction. Any error rolls back.
func (s *FinanceTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos appfinance.Repositories) error) error {
	return s.runner.run(ctx, func(tx *gorm.DB) error {
		return fn(ctx, appfinance.Repositories{
			Accounts: NewGormAccountRepository(tx),
			Payments: NewGormPaymentRepository(tx),
			Orders:   NewGormOrderRepository(tx),
		})
	})
}

var _ apptrade.TransactionScope = (*TradeTransactionScope)(nil)
var _ appfinance.TransactionScope = (*FinanceTransactionScope)(nil)
