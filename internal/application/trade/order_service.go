package trade

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/retail/backend/internal/domain/finance"
	"github.com/retail/backend/internal/domain/inventory"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/domain/shared/valueobject"
	"github.com/retail/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RateValidator checks candidate exchange rates against the oracle's
// reference before any transaction opens.
type RateValidator interface {
	Validate(ctx context.Context, candidate decimal.Decimal) error
}

// OrderService implements order creation, goods receipt and reversal.
// Every multi-step write runs inside one transaction scope; the rate
// oracle is only consulted before the transaction opens.
type OrderService struct {
	scope          TransactionScope
	positions      inventory.PositionRepository
	rates          RateValidator
	validate       *validator.Validate
	commissionRate decimal.Decimal
	logger         *zap.Logger
}

// NewOrderService creates an OrderService
func NewOrderService(scope TransactionScope, positions inventory.PositionRepository, rates RateValidator, commissionRate decimal.Decimal, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		scope:          scope,
		positions:      positions,
		rates:          rates,
		validate:       validator.New(),
		commissionRate: commissionRate,
		logger:         logger,
	}
}

// CreateSale creates a completed sale order together with its stock
// decrements, receivable account and commission, atomically. Stock is
// pre-checked before the transaction and re-checked under the row lock.
func (s *OrderService) CreateSale(ctx context.Context, req *CreateSaleRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	currency := valueobject.Currency(req.Currency)
	if err := s.checkRate(ctx, currency, req.FxRate); err != nil {
		return nil, err
	}

	order, err := trade.NewSaleOrder(req.CounterpartyID, currency, req.FxRate)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if err := order.AddLine(line.VariantID, line.Quantity, line.UnitAmount); err != nil {
			return nil, err
		}
	}
	if err := order.Complete(); err != nil {
		return nil, err
	}

	// Pre-flight availability check. Fail fast on the first shortfall;
	// the authoritative check happens again under the row lock.
	for _, line := range order.Lines {
		ok, err := s.positions.CheckAvailable(ctx, line.VariantID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for variant %s", line.VariantID))
		}
	}

	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		if err := repos.Orders.Save(ctx, order); err != nil {
			return err
		}

		for _, line := range order.Lines {
			if _, err := repos.Positions.AdjustForUpdate(ctx, line.VariantID, -line.Quantity, inventory.ReasonSale); err != nil {
				return err
			}
		}

		account, err := finance.NewSettlementAccount(order.ID, order.CounterpartyID,
			finance.DirectionReceivable, order.TotalBase, nil)
		if err != nil {
			return err
		}
		if err := repos.Accounts.Save(ctx, account); err != nil {
			return err
		}

		commission, err := finance.NewCommission(order.ID, req.UserID, order.TotalBase, s.commissionRate)
		if err != nil {
			return err
		}
		return repos.Commissions.Save(ctx, commission)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale order created",
		zap.String("code", order.Code),
		zap.String("total_base", order.TotalBase.String()))
	return toOrderResponse(order), nil
}

// CreatePurchase creates a completed purchase order and its payable
// account. Goods are not received at creation; stock moves only through
// ReceivePurchase.
func (s *OrderService) CreatePurchase(ctx context.Context, req *CreatePurchaseRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	currency := valueobject.Currency(req.Currency)
	if err := s.checkRate(ctx, currency, req.FxRate); err != nil {
		return nil, err
	}

	var dueDate *time.Time
	if req.CreditDays >= 0 {
		due := time.Now().AddDate(0, 0, req.CreditDays)
		dueDate = &due
	}

	order, err := trade.NewPurchaseOrder(req.CounterpartyID, currency, req.FxRate, dueDate)
	if err != nil {
		return nil, err
	}
	for _, line := range req.Lines {
		if err := order.AddLine(line.VariantID, line.Quantity, line.UnitAmount); err != nil {
			return nil, err
		}
	}
	if err := order.Complete(); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		if err := repos.Orders.Save(ctx, order); err != nil {
			return err
		}

		account, err := finance.NewSettlementAccount(order.ID, order.CounterpartyID,
			finance.DirectionPayable, order.TotalBase, order.DueDate)
		if err != nil {
			return err
		}
		return repos.Accounts.Save(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("code", order.Code),
		zap.String("total_base", order.TotalBase.String()))
	return toOrderResponse(order), nil
}

// ReceivePurchase records the arrival of purchased goods: increments the
// inventory per line and creates stock lots, once. A second receipt fails
// with ALREADY_RECEIVED.
func (s *OrderService) ReceivePurchase(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewValidationError("Order ID cannot be empty")
	}

	var order *trade.Order
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		order, err = repos.Orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if err := order.MarkReceived(); err != nil {
			return err
		}

		for _, line := range order.Lines {
			if _, err := repos.Positions.AdjustForUpdate(ctx, line.VariantID, line.Quantity, inventory.ReasonPurchaseReceipt); err != nil {
				return err
			}
			lot, err := inventory.NewStockLot(line.VariantID, order.ID, line.Quantity)
			if err != nil {
				return err
			}
			if err := repos.Lots.Save(ctx, lot); err != nil {
				return err
			}
		}

		return repos.Orders.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase goods received", zap.String("code", order.Code))
	return toOrderResponse(order), nil
}

// CancelOrder reverses a completed order: restores or deducts stock, voids
// the settlement account and marks the order cancelled, atomically.
// Purchases are reversible only while their payable is untouched.
func (s *OrderService) CancelOrder(ctx context.Context, req *CancelOrderRequest) (*OrderResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	var order *trade.Order
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		order, err = repos.Orders.FindByIDForUpdate(ctx, req.OrderID)
		if err != nil {
			return err
		}
		account, err := repos.Accounts.FindByOrderForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}

		if order.Kind == trade.KindPurchase && order.IsCompleted() && !account.IsUntouched() {
			return shared.NewDomainError("NOT_REVERSIBLE",
				fmt.Sprintf("Purchase %s already has payments applied and cannot be reversed", order.Code))
		}

		if err := order.Cancel(req.Reason); err != nil {
			return err
		}
		if err := account.Void(); err != nil {
			return err
		}

		switch order.Kind {
		case trade.KindSale:
			for _, line := range order.Lines {
				if _, err := repos.Positions.AdjustForUpdate(ctx, line.VariantID, line.Quantity, inventory.ReasonSaleReversal); err != nil {
					return err
				}
			}
		case trade.KindPurchase:
			// Goods never received means no stock to take back.
			if order.GoodsReceived {
				for _, line := range order.Lines {
					if _, err := repos.Positions.AdjustForUpdate(ctx, line.VariantID, -line.Quantity, inventory.ReasonPurchaseReversal); err != nil {
						return err
					}
				}
				lots, err := repos.Lots.FindByOrder(ctx, order.ID)
				if err != nil {
					return err
				}
				for i := range lots {
					lots[i].MarkReversed()
					if err := repos.Lots.Save(ctx, &lots[i]); err != nil {
						return err
					}
				}
			}
		}

		if err := repos.Orders.Update(ctx, order); err != nil {
			return err
		}
		return repos.Accounts.Update(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order cancelled",
		zap.String("code", order.Code),
		zap.String("reason", req.Reason))
	return toOrderResponse(order), nil
}

// GetOrder loads one order by ID
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var order *trade.Order
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		order, err = repos.Orders.FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ListOrders returns a filtered, paginated page of orders
func (s *OrderService) ListOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	var page shared.Paginated[OrderResponse]
	err := s.scope.Execute(ctx, func(ctx context.Context, repos Repositories) error {
		orders, err := repos.Orders.FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err := repos.Orders.Count(ctx, filter)
		if err != nil {
			return err
		}

		items := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			items = append(items, *toOrderResponse(&orders[i]))
		}
		page = shared.NewPaginated(items, total, filter.Page, filter.PageSize)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// checkRate enforces the fx-rate presence rule and consults the oracle for
// local-currency orders before any transaction opens.
func (s *OrderService) checkRate(ctx context.Context, currency valueobject.Currency, fxRate *decimal.Decimal) error {
	if currency == valueobject.BaseCurrency {
		if fxRate != nil {
			return shared.NewValidationError("Exchange rate is not applicable to base-currency orders")
		}
		return nil
	}
	if fxRate == nil || fxRate.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("A positive exchange rate is required for local-currency orders")
	}
	return s.rates.Validate(ctx, *fxRate)
}
