package orderdto

import (
	"fmt"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type PaymentOutput struct {
	Order   *domain.Order
	Payment *domain.Payment
}

type PaymentPlanOutput struct {
	OrderID      uint64
	TotalCost    decimal.Decimal
	Plan         domain.PaymentPlan
	Installments domain.Installments
	Balanced     bool
}

type DashboardOutput struct {
	Summary     domain.Summary
	Incoming    []*domain.Order
	Outstanding []*domain.Order
}

type ImportResult struct {
	Imported         int
	PaymentsImported int
	// PaymentsExisting counts entries already in the log by id.
	PaymentsExisting int
	OpeningBalances  int
	Skipped          []string
}

func (r *ImportResult) Skip(format string, args ...any) {
	r.Skipped = append(r.Skipped, fmt.Sprintf(format, args...))
}
