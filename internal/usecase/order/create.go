package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-procurement-service/internal/usecase/dto/order"
	"github.com/shopspring/decimal"
)

func (uc *DefaultOrderUsecase) CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error) {
	defer uc.observe("create_order", time.Now())

	if input.Plan != nil && hasNegativePct(*input.Plan) {
		return nil, domain.ErrInvalidOrder
	}

	order, err := domain.NewOrder(domain.NewOrderParams{
		Name:         input.Name,
		Supplier:     input.Supplier,
		Amount:       input.Amount,
		Currency:     input.Currency,
		ExchangeRate: input.ExchangeRate,
		Plan:         input.Plan,
		Notes:        input.Notes,
	}, uc.FeeFactor, uc.now())
	if err != nil {
		return nil, err
	}

	if err := uc.OrderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	uc.Logger.Info("order created", "order_id", order.ID, "total_cost", order.TotalCost.String())
	uc.Metrics.RecordOrderCreated(uc.Currency, order.TotalCost)
	uc.publish(ctx, domain.EventOrderCreated, order, decimal.Zero)

	return order, nil
}

func hasNegativePct(p domain.PaymentPlan) bool {
	return p.DepositPct.IsNegative() || p.ShippingPct.IsNegative() || p.ArrivalPct.IsNegative()
}
