package usecase

import (
	"context"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-procurement-service/internal/usecase/dto/order"
)

func (uc *DefaultOrderUsecase) GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(ctx, orderID)
}

func (uc *DefaultOrderUsecase) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	return uc.OrderRepo.ListOrders(ctx, filter)
}

func (uc *DefaultOrderUsecase) ListPayments(ctx context.Context, orderID uint64) ([]*domain.Payment, error) {
	if _, err := uc.OrderRepo.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}
	return uc.PaymentRepo.ListPaymentsByOrderID(ctx, orderID)
}

func (uc *DefaultOrderUsecase) ListAllPayments(ctx context.Context) ([]*domain.Payment, error) {
	return uc.PaymentRepo.ListPayments(ctx)
}

func (uc *DefaultOrderUsecase) GetPaymentPlan(ctx context.Context, orderID uint64) (*orderdto.PaymentPlanOutput, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &orderdto.PaymentPlanOutput{
		OrderID:      order.ID,
		TotalCost:    order.TotalCost,
		Plan:         order.Plan,
		Installments: order.PlanBreakdown(),
		Balanced:     order.Plan.Balanced(),
	}, nil
}

func (uc *DefaultOrderUsecase) GetTimeline(ctx context.Context) ([]domain.TimelineSegment, error) {
	orders, err := uc.OrderRepo.ListOrders(ctx, domain.OrderFilter{})
	if err != nil {
		return nil, err
	}
	return domain.ProjectTimeline(orders, uc.now()), nil
}

func (uc *DefaultOrderUsecase) GetSummary(ctx context.Context) (domain.Summary, error) {
	orders, err := uc.OrderRepo.ListOrders(ctx, domain.OrderFilter{})
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(orders), nil
}

func (uc *DefaultOrderUsecase) GetDashboard(ctx context.Context) (*orderdto.DashboardOutput, error) {
	orders, err := uc.OrderRepo.ListOrders(ctx, domain.OrderFilter{})
	if err != nil {
		return nil, err
	}
	return &orderdto.DashboardOutput{
		Summary:     domain.Summarize(orders),
		Incoming:    domain.IncomingShipments(orders),
		Outstanding: domain.OutstandingOrders(orders),
	}, nil
}
