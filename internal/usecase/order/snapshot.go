package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-procurement-service/internal/usecase/dto/order"
	"github.com/shopspring/decimal"
)

// ExportOrders returns every order by id with derived fields refreshed, so a
// snapshot always reflects the current fee factor.
func (uc *DefaultOrderUsecase) ExportOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := uc.OrderRepo.ListOrders(ctx, domain.OrderFilter{})
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Recalculate(uc.FeeFactor)
	}
	return orders, nil
}

// OpeningBalanceMemo marks the log entry that carries a restored order's
// paid amount when the snapshot came without matching payments.
const OpeningBalanceMemo = "opening balance from snapshot"

// payment ids are stored in a VARCHAR(32) column
const maxPaymentIDLen = 32

// ImportOrders restores an order table that comes without a payment log.
func (uc *DefaultOrderUsecase) ImportOrders(ctx context.Context, orders []*domain.Order) (*orderdto.ImportResult, error) {
	return uc.ImportSnapshot(ctx, orders, nil)
}

// ImportPayments appends log entries to orders already in the ledger.
func (uc *DefaultOrderUsecase) ImportPayments(ctx context.Context, payments []*domain.Payment) (*orderdto.ImportResult, error) {
	return uc.ImportSnapshot(ctx, nil, payments)
}

// ImportSnapshot restores orders and their payment log in one transaction.
// Orders are upserted by id with derived fields recomputed. Payments are
// appended by id; entries already in the log are left alone, so importing
// the same snapshot twice changes nothing.
//
// Afterwards every touched order's paid equals the sum of its log. A
// snapshot paid above that sum is carried as an opening-balance entry, a
// lower one gives way to the log. Rows that would break paid <= total are
// skipped and reported.
func (uc *DefaultOrderUsecase) ImportSnapshot(ctx context.Context, orders []*domain.Order, payments []*domain.Payment) (*orderdto.ImportResult, error) {
	defer uc.observe("import_snapshot", time.Now())

	result := &orderdto.ImportResult{}
	var restored, updated []*domain.Order
	err := uc.Tx.Transact(ctx, func(ctx context.Context) error {
		existing, err := uc.PaymentRepo.ListPayments(ctx)
		if err != nil {
			return err
		}
		log := newPaymentLog(existing)
		staged := uc.stagePayments(payments, log, result)

		for i, order := range orders {
			var pending []*domain.Payment
			if order.ID != 0 {
				pending = staged[order.ID]
				delete(staged, order.ID)
			}

			if reason := importedOrderProblem(order); reason != "" {
				result.Skip("row %d: %s%s", i+1, reason, notImported(pending))
				continue
			}
			if !order.Status.Valid() {
				order.Status = domain.StatusNotStarted
			}
			if order.CreatedAt.IsZero() {
				order.CreatedAt = uc.now()
			}
			order.UpdatedAt = uc.now()
			order.Recalculate(uc.FeeFactor)

			logSum := log.sum(order.ID).Add(domain.SumPayments(pending))
			switch {
			case logSum.GreaterThan(order.TotalCost):
				result.Skip("row %d: payment log exceeds total cost%s", i+1, notImported(pending))
				continue
			case order.Paid.GreaterThan(order.TotalCost):
				result.Skip("row %d: paid exceeds total cost%s", i+1, notImported(pending))
				continue
			}
			opening := order.Paid.Sub(logSum)
			if !opening.IsPositive() {
				order.Paid = logSum
				order.Recalculate(uc.FeeFactor)
			}

			if err := uc.OrderRepo.RestoreOrder(ctx, order); err != nil {
				return err
			}
			if err := uc.appendPayments(ctx, order.ID, pending, log, result); err != nil {
				return err
			}
			if opening.IsPositive() {
				if err := uc.appendOpeningBalance(ctx, order.ID, opening, log); err != nil {
					return err
				}
				result.OpeningBalances++
			}
			restored = append(restored, order)
		}

		// what is left belongs to orders that were not in the table
		orderIDs := make([]uint64, 0, len(staged))
		for id := range staged {
			orderIDs = append(orderIDs, id)
		}
		slices.Sort(orderIDs)
		for _, orderID := range orderIDs {
			order, err := uc.appendToExistingOrder(ctx, orderID, staged[orderID], log, result)
			if err != nil {
				return err
			}
			if order != nil {
				updated = append(updated, order)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Imported = len(restored)
	uc.Metrics.RecordImported(result.Imported)
	for _, order := range restored {
		uc.publish(ctx, domain.EventOrderRestored, order, decimal.Zero)
	}
	for _, order := range updated {
		uc.publish(ctx, domain.EventOrderUpdated, order, decimal.Zero)
	}
	uc.Logger.Info("snapshot imported",
		"orders", result.Imported,
		"payments", result.PaymentsImported,
		"payments_existing", result.PaymentsExisting,
		"opening_balances", result.OpeningBalances,
		"skipped", len(result.Skipped),
	)

	return result, nil
}

// stagePayments drops entries already in the log and groups the rest by
// order. Entries without an id get a fresh one.
func (uc *DefaultOrderUsecase) stagePayments(payments []*domain.Payment, log *paymentLog, result *orderdto.ImportResult) map[uint64][]*domain.Payment {
	staged := make(map[uint64][]*domain.Payment)
	for i, p := range payments {
		switch {
		case p.Amount.IsNegative():
			result.Skip("payment row %d: negative amount %s", i+1, p.Amount)
			continue
		case len(p.ID) > maxPaymentIDLen:
			result.Skip("payment row %d: id longer than %d characters", i+1, maxPaymentIDLen)
			continue
		case p.ID != "" && log.ids[p.ID]:
			result.PaymentsExisting++
			continue
		}
		if p.ID == "" {
			p.ID = uc.newPaymentID()
		}
		if p.Date.IsZero() {
			p.Date = uc.now()
		}
		log.ids[p.ID] = true
		staged[p.OrderID] = append(staged[p.OrderID], p)
	}
	return staged
}

func (uc *DefaultOrderUsecase) appendToExistingOrder(ctx context.Context, orderID uint64, pending []*domain.Payment, log *paymentLog, result *orderdto.ImportResult) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if errors.Is(err, domain.ErrOrderNotFound) {
		result.Skip("order %d: not in the ledger%s", orderID, notImported(pending))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	order.Paid = log.sum(orderID).Add(domain.SumPayments(pending))
	order.Recalculate(uc.FeeFactor)
	if order.Paid.GreaterThan(order.TotalCost) {
		result.Skip("order %d: payment log would exceed total cost%s", orderID, notImported(pending))
		return nil, nil
	}
	if err := uc.appendPayments(ctx, orderID, pending, log, result); err != nil {
		return nil, err
	}
	order.UpdatedAt = uc.now()
	if err := uc.OrderRepo.UpdateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (uc *DefaultOrderUsecase) appendPayments(ctx context.Context, orderID uint64, pending []*domain.Payment, log *paymentLog, result *orderdto.ImportResult) error {
	for _, p := range pending {
		p.OrderID = orderID
		if err := uc.PaymentRepo.CreatePayment(ctx, p); err != nil {
			return err
		}
		log.add(p)
		result.PaymentsImported++
	}
	return nil
}

func (uc *DefaultOrderUsecase) appendOpeningBalance(ctx context.Context, orderID uint64, amount decimal.Decimal, log *paymentLog) error {
	now := uc.now()
	p := &domain.Payment{
		ID:        uc.newPaymentID(),
		OrderID:   orderID,
		Date:      now,
		Amount:    amount,
		Memo:      OpeningBalanceMemo,
		CreatedAt: now,
	}
	if err := uc.PaymentRepo.CreatePayment(ctx, p); err != nil {
		return err
	}
	log.add(p)
	return nil
}

// importedOrderProblem applies the same input rules as order creation.
func importedOrderProblem(o *domain.Order) string {
	switch {
	case strings.TrimSpace(o.Name) == "":
		return "empty name"
	case o.Amount.IsNegative():
		return fmt.Sprintf("negative amount %s", o.Amount)
	case o.ExchangeRate.IsNegative():
		return fmt.Sprintf("negative exchange rate %s", o.ExchangeRate)
	case o.Paid.IsNegative():
		return fmt.Sprintf("negative paid %s", o.Paid)
	}
	return ""
}

func notImported(pending []*domain.Payment) string {
	if len(pending) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d payments not imported)", len(pending))
}

type paymentLog struct {
	ids  map[string]bool
	sums map[uint64]decimal.Decimal
}

func newPaymentLog(payments []*domain.Payment) *paymentLog {
	l := &paymentLog{
		ids:  make(map[string]bool, len(payments)),
		sums: make(map[uint64]decimal.Decimal),
	}
	for _, p := range payments {
		l.add(p)
	}
	return l
}

func (l *paymentLog) add(p *domain.Payment) {
	l.ids[p.ID] = true
	l.sums[p.OrderID] = l.sums[p.OrderID].Add(p.Amount)
}

// sum is zero for unknown orders, including a not yet assigned id 0.
func (l *paymentLog) sum(orderID uint64) decimal.Decimal {
	if orderID == 0 {
		return decimal.Zero
	}
	return l.sums[orderID]
}
