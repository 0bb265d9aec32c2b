package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/metrics"
	orderdto "github.com/LavaJover/shvark-procurement-service/internal/usecase/dto/order"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

type OrderUsecase interface {
	CreateOrder(ctx context.Context, input *orderdto.CreateOrderInput) (*domain.Order, error)
	UpdateOrder(ctx context.Context, orderID uint64, input *orderdto.UpdateOrderInput) (*domain.Order, error)
	ChangeStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error)
	ApplyPayment(ctx context.Context, orderID uint64, input *orderdto.PaymentInput) (*orderdto.PaymentOutput, error)
	ReconcilePaid(ctx context.Context, orderID uint64) (*domain.Order, error)

	GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error)
	ListPayments(ctx context.Context, orderID uint64) ([]*domain.Payment, error)
	ListAllPayments(ctx context.Context) ([]*domain.Payment, error)
	GetPaymentPlan(ctx context.Context, orderID uint64) (*orderdto.PaymentPlanOutput, error)
	GetTimeline(ctx context.Context) ([]domain.TimelineSegment, error)
	GetSummary(ctx context.Context) (domain.Summary, error)
	GetDashboard(ctx context.Context) (*orderdto.DashboardOutput, error)

	ExportOrders(ctx context.Context) ([]*domain.Order, error)
	ImportOrders(ctx context.Context, orders []*domain.Order) (*orderdto.ImportResult, error)
	ImportPayments(ctx context.Context, payments []*domain.Payment) (*orderdto.ImportResult, error)
	ImportSnapshot(ctx context.Context, orders []*domain.Order, payments []*domain.Payment) (*orderdto.ImportResult, error)
}

type DefaultOrderUsecase struct {
	OrderRepo   domain.OrderRepository
	PaymentRepo domain.PaymentRepository
	Tx          domain.TxManager
	Publisher   domain.EventPublisher
	Metrics     *metrics.LedgerMetrics
	FeeFactor   decimal.Decimal
	Currency    string
	Now         func() time.Time
	Logger      *slog.Logger

	newPaymentID func() string
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	paymentRepo domain.PaymentRepository,
	tx domain.TxManager,
	eventPublisher domain.EventPublisher,
	ledgerMetrics *metrics.LedgerMetrics,
	feeFactor decimal.Decimal,
	currency string,
) (*DefaultOrderUsecase, error) {
	idGenerator, err := nanoid.Standard(15)
	if err != nil {
		return nil, fmt.Errorf("init payment id generator: %w", err)
	}

	return &DefaultOrderUsecase{
		OrderRepo:    orderRepo,
		PaymentRepo:  paymentRepo,
		Tx:           tx,
		Publisher:    eventPublisher,
		Metrics:      ledgerMetrics,
		FeeFactor:    feeFactor,
		Currency:     currency,
		Now:          time.Now,
		Logger:       slog.Default().With("component", "order-usecase"),
		newPaymentID: idGenerator,
	}, nil
}

func (uc *DefaultOrderUsecase) now() time.Time {
	if uc.Now == nil {
		return time.Now()
	}
	return uc.Now()
}

// publish is best effort: the write is already committed.
func (uc *DefaultOrderUsecase) publish(ctx context.Context, eventType domain.OrderEventType, order *domain.Order, amount decimal.Decimal) {
	if uc.Publisher == nil {
		return
	}
	event := domain.OrderEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		OrderID:    order.ID,
		Status:     order.Status,
		TotalCost:  order.TotalCost,
		Paid:       order.Paid,
		Remaining:  order.Remaining,
		Amount:     amount,
		OccurredAt: uc.now(),
	}
	if err := uc.Publisher.PublishOrderEvent(ctx, event); err != nil {
		uc.Logger.Error("failed to publish order event", "order_id", order.ID, "type", eventType, "error", err)
	}
}

func (uc *DefaultOrderUsecase) observe(operation string, start time.Time) {
	uc.Metrics.ObserveDuration(operation, time.Since(start).Seconds())
}
