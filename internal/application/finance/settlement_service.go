package finance

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettlementService applies payments to settlement accounts and answers
// reconciliation queries. Each settlement runs in one transaction with the
// account row locked.
type SettlementService struct {
	scope    TransactionScope
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSettlementService creates a SettlementService
func NewSettlementService(scope TransactionScope, logger *zap.Logger) *SettlementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettlementService{
		scope:    scope,
		validate: validator.New(),
		logger:   logger,
	}
}

// ApplySettlement records one payment against an account: converts each
// split to base, rejects overpayments, reduces the remaining balance and
// flips the linked sale's paid flag when a receivable settles in full.
func (s *SettlementService) ApplySettlement(ctx context.Context, req *ApplySettlementRequest) (*SettlementResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	for _, split := range req.Splits {
		if valueobject.Currency(split.Currency) != valueobject.BaseCurrency {
			if req.FxRate == nil || req.FxRate.LessThanOrEqual(decimal.Zero) {
				return nil, shared.NewValidationError("A positive exchange rate is required for local-currency splits")
			}
			break
		}
	}

	var resp *SettlementResponse
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		account, err := repos.Accounts.FindByIDForUpdate(ctx, req.AccountID)
		if err != nil {
			return err
		}

		payment, err := finance.NewPayment(account.ID, req.FxRate, req.Observations)
		if err != nil {
			return err
		}
		for _, split := range req.Splits {
			if err := payment.AddSplit(split.MethodID, split.Amount, valueobject.Currency(split.Currency)); err != nil {
				return err
			}
		}

		if err := account.Apply(payment.TotalAppliedBase); err != nil {
			return err
		}

		if err := repos.Payments.Save(ctx, payment); err != nil {
			return err
		}
		if err := repos.Accounts.Update(ctx, account); err != nil {
			return err
		}

		if account.IsSettled() && account.Direction == finance.DirectionReceivable {
			order, err := repos.Orders.FindByIDForUpdate(ctx, account.OrderID)
			if err != nil {
				return err
			}
			if err := order.MarkPaid(); err != nil {
				return err
			}
			if err := repos.Orders.Update(ctx, order); err != nil {
				return err
			}
		}

		resp = &SettlementResponse{
			AccountID:     account.ID,
			PaymentID:     payment.ID,
			AppliedBase:   payment.TotalAppliedBase,
			RemainingBase: account.RemainingBase,
			Status:        account.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("settlement applied",
		zap.String("account_id", resp.AccountID.String()),
		zap.String("applied_base", resp.AppliedBase.String()),
		zap.String("status", string(resp.Status)))
	return resp, nil
}

// GetAccount loads one settlement account by ID
func (s *SettlementService) GetAccount(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	var account *finance.SettlementAccount
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		account, err = repos.Accounts.FindByID(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// ListAccounts returns a filtered, paginated page of settlement accounts
func (s *SettlementService) ListAccounts(ctx context.Context, filter shared.Filter) (*shared.Paginated[AccountResponse], error) {
	var page shared.Paginated[AccountResponse]
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		accounts, err := repos.Accounts.FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err := repos.Accounts.Count(ctx, filter)
		if err != nil {
			return err
		}

		items := make([]AccountResponse, 0, len(accounts))
		for i := range accounts {
			items = append(items, *toAccountResponse(&accounts[i]))
		}
		page = shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// DailySummary totals the date's payments by method and currency for
// cash-register reconciliation.
func (s *SettlementService) DailySummary(ctx context.Context, date time.Time) (*DailySummaryResponse, error) {
	var payments []finance.Payment
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		payments, err = repos.Payments.FindByDate(ctx, date)
		return err
	})
	if err != nil {
		return nil, err
	}

	type key struct {
		method   uuid.UUID
		currency valueobject.Currency
	}
	totals := make(map[key]decimal.Decimal)
	totalBase := decimal.Zero
	for _, payment := range payments {
		totalBase = totalBase.Add(payment.TotalAppliedBase)
		for _, split := range payment.Splits {
			k := key{method: split.MethodID, currency: split.Currency}
			totals[k] = totals[k].Add(split.Amount)
		}
	}

	rows := make([]finance.MethodTotal, 0, len(totals))
	for k, total := range totals {
		rows = append(rows, finance.MethodTotal{
			MethodID: k.method,
			Currency: k.currency,
			Total:    total,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MethodID != rows[j].MethodID {
			return rows[i].MethodID.String() < rows[j].MethodID.String()
		}
		return rows[i].Currency < rows[j].Currency
	})

	return &DailySummaryResponse{
		Date:         date,
		PaymentCount: len(payments),
		TotalBase:    totalBase,
		MethodTotals: rows,
	}, nil
}
