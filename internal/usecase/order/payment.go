package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-procurement-service/internal/usecase/dto/order"
	"github.com/shopspring/decimal"
)

// ApplyPayment appends a payment to the log and refreshes the order in one
// transaction. Paid is always rebuilt from the log before the balance check,
// so a stale stored value can neither hide nor allow an overpayment.
func (uc *DefaultOrderUsecase) ApplyPayment(ctx context.Context, orderID uint64, input *orderdto.PaymentInput) (*orderdto.PaymentOutput, error) {
	defer uc.observe("apply_payment", time.Now())

	if input.Status != nil && !input.Status.Valid() {
		return nil, domain.ErrUnknownStatus
	}

	now := uc.now()
	var (
		out        orderdto.PaymentOutput
		prevStatus domain.OrderStatus
		changed    bool
	)
	err := uc.Tx.Transact(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		payments, err := uc.PaymentRepo.ListPaymentsByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		order.Paid = domain.SumPayments(payments)

		if err := order.ApplyPayment(input.Amount, uc.FeeFactor); err != nil {
			return err
		}

		prevStatus = order.Status
		if input.Status != nil {
			if changed, err = order.TransitionTo(*input.Status, now); err != nil {
				return err
			}
		}

		date := input.Date
		if date.IsZero() {
			date = now
		}
		payment := &domain.Payment{
			ID:         uc.newPaymentID(),
			OrderID:    order.ID,
			Date:       date,
			Amount:     input.Amount,
			Memo:       input.Memo,
			ReceiptURL: input.ReceiptURL,
			CreatedAt:  now,
		}
		if err := uc.PaymentRepo.CreatePayment(ctx, payment); err != nil {
			return err
		}
		if err := uc.OrderRepo.UpdateOrder(ctx, order); err != nil {
			return err
		}

		out.Order = order
		out.Payment = payment
		return nil
	})
	if err != nil {
		uc.recordPaymentFailure(orderID, input.Amount, err)
		return nil, err
	}

	uc.Logger.Info("payment applied",
		"order_id", orderID,
		"payment_id", out.Payment.ID,
		"amount", input.Amount.String(),
		"remaining", out.Order.Remaining.String(),
	)
	uc.Metrics.RecordPaymentApplied(string(out.Order.Status), input.Amount)
	if changed {
		uc.Metrics.RecordStatusTransition(string(prevStatus), string(out.Order.Status))
	}
	uc.publish(ctx, domain.EventPaymentApplied, out.Order, input.Amount)

	return &out, nil
}

func (uc *DefaultOrderUsecase) recordPaymentFailure(orderID uint64, amount decimal.Decimal, err error) {
	switch {
	case errors.Is(err, domain.ErrOverpayment):
		uc.Metrics.RecordPaymentRejected("overpayment")
		uc.Logger.Warn("payment rejected", "order_id", orderID, "amount", amount.String(), "reason", "overpayment")
	case errors.Is(err, domain.ErrNegativePayment):
		uc.Metrics.RecordPaymentRejected("negative_amount")
	case errors.Is(err, domain.ErrVersionConflict):
		uc.Metrics.RecordPaymentRejected("version_conflict")
		uc.Metrics.RecordVersionConflict("apply_payment")
	case errors.Is(err, domain.ErrOrderNotFound):
		uc.Metrics.RecordPaymentRejected("order_not_found")
	default:
		uc.Metrics.RecordPaymentRejected("store_error")
		uc.Logger.Error("payment failed", "order_id", orderID, "error", err)
	}
}

// ReconcilePaid rewrites the stored paid total from the payment log.
func (uc *DefaultOrderUsecase) ReconcilePaid(ctx context.Context, orderID uint64) (*domain.Order, error) {
	var reconciled *domain.Order
	var drift decimal.Decimal
	err := uc.Tx.Transact(ctx, func(ctx context.Context) error {
		order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		payments, err := uc.PaymentRepo.ListPaymentsByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		paid := domain.SumPayments(payments)
		drift = order.Paid.Sub(paid)
		order.Paid = paid
		order.Recalculate(uc.FeeFactor)
		reconciled = order
		if drift.IsZero() {
			return nil
		}
		return uc.OrderRepo.UpdateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if !drift.IsZero() {
		uc.Logger.Warn("stored paid differed from payment log", "order_id", orderID, "drift", drift.String())
		uc.publish(ctx, domain.EventOrderUpdated, reconciled, decimal.Zero)
	}
	return reconciled, nil
}
