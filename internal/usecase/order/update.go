package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-procurement-service/internal/usecase/dto/order"
	"github.com/shopspring/decimal"
)

// UpdateOrder edits base fields and cascades the recomputation of every
// derived field. A status change stamps milestones like ChangeStatus does.
func (uc *DefaultOrderUsecase) UpdateOrder(ctx context.Context, orderID uint64, input *orderdto.UpdateOrderInput) (*domain.Order, error) {
	defer uc.observe("update_order", time.Now())

	var (
		updated    *domain.Order
		prevStatus domain.OrderStatus
		changed    bool
	)
	err := uc.Tx.Transact(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if input.Version != 0 && input.Version != order.Version {
			return domain.ErrVersionConflict
		}
		prevStatus = order.Status

		if err := applyEdits(order, input); err != nil {
			return err
		}
		if input.Status != nil {
			if changed, err = order.TransitionTo(*input.Status, uc.now()); err != nil {
				return err
			}
		}
		// explicit expected dates win over the ones derived from the status
		if input.ShipmentExpected != nil {
			order.Milestones.ShipmentExpected = input.ShipmentExpected
		}
		if input.ArrivalExpected != nil {
			order.Milestones.ArrivalExpected = input.ArrivalExpected
		}

		order.Recalculate(uc.FeeFactor)
		if order.TotalCost.LessThan(order.Paid) {
			return domain.ErrTotalBelowPaid
		}

		if err := uc.OrderRepo.UpdateOrder(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			uc.Metrics.RecordVersionConflict("update_order")
		}
		return nil, err
	}

	eventType := domain.EventOrderUpdated
	if changed {
		eventType = domain.EventStatusChanged
		uc.Metrics.RecordStatusTransition(string(prevStatus), string(updated.Status))
		uc.Logger.Info("order status changed", "order_id", orderID, "from", prevStatus, "to", updated.Status)
	}
	uc.publish(ctx, eventType, updated, decimal.Zero)

	return updated, nil
}

func (uc *DefaultOrderUsecase) ChangeStatus(ctx context.Context, orderID uint64, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrUnknownStatus
	}
	return uc.UpdateOrder(ctx, orderID, &orderdto.UpdateOrderInput{Status: &status})
}

func applyEdits(order *domain.Order, input *orderdto.UpdateOrderInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return domain.ErrInvalidOrder
		}
		order.Name = name
	}
	if input.Supplier != nil {
		order.Supplier = strings.TrimSpace(*input.Supplier)
	}
	if input.Currency != nil {
		order.Currency = *input.Currency
	}
	if input.Amount != nil {
		if input.Amount.IsNegative() {
			return domain.ErrInvalidOrder
		}
		order.Amount = *input.Amount
	}
	if input.ExchangeRate != nil {
		if input.ExchangeRate.IsNegative() {
			return domain.ErrInvalidOrder
		}
		order.ExchangeRate = *input.ExchangeRate
	}
	if input.Plan != nil {
		if hasNegativePct(*input.Plan) {
			return domain.ErrInvalidOrder
		}
		order.Plan = *input.Plan
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}
	return nil
}
