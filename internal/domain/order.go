package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusNotStarted         OrderStatus = "NOT_STARTED"
	StatusApproved           OrderStatus = "APPROVED"
	StatusProcessing         OrderStatus = "PROCESSING"
	StatusShipped            OrderStatus = "SHIPPED"
	StatusCustomsClearance   OrderStatus = "CUSTOMS_CLEARANCE"
	StatusArrivedAtWarehouse OrderStatus = "ARRIVED_AT_WAREHOUSE"
	StatusFullySettled       OrderStatus = "FULLY_SETTLED"
)

// Statuses lists the lifecycle in its nominal order.
var Statuses = []OrderStatus{
	StatusNotStarted,
	StatusApproved,
	StatusProcessing,
	StatusShipped,
	StatusCustomsClearance,
	StatusArrivedAtWarehouse,
	StatusFullySettled,
}

// DefaultFeeFactor estimates shipping and customs per unit of foreign amount.
var DefaultFeeFactor = decimal.RequireFromString("0.744")

const (
	confirmationToShipment = 30 * 24 * time.Hour
	confirmationToArrival  = 60 * 24 * time.Hour
	shipmentToArrival      = 30 * 24 * time.Hour
)

// Rank returns the position of s in the lifecycle, -1 when unknown.
func (s OrderStatus) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return -1
}

func (s OrderStatus) Valid() bool {
	return s.Rank() >= 0
}

// ParseStatus accepts the canonical names case-insensitively, with dashes or spaces.
func ParseStatus(raw string) (OrderStatus, error) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	s := OrderStatus(norm)
	if !s.Valid() {
		return "", ErrUnknownStatus
	}
	return s, nil
}

type Milestones struct {
	ConfirmedAt      *time.Time
	ShipmentExpected *time.Time
	ShippedAt        *time.Time
	ArrivalExpected  *time.Time
	ArrivedAt        *time.Time
}

type Order struct {
	ID           uint64
	Name         string
	Supplier     string
	Amount       decimal.Decimal // invoice amount, foreign currency
	Currency     string
	ExchangeRate decimal.Decimal
	GoodsCost    decimal.Decimal
	Fee          decimal.Decimal
	TotalCost    decimal.Decimal
	Paid         decimal.Decimal
	Remaining    decimal.Decimal
	Status       OrderStatus
	Plan         PaymentPlan
	Milestones   Milestones
	Notes        string
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type NewOrderParams struct {
	Name         string
	Supplier     string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	Plan         *PaymentPlan
	Notes        string
}

func NewOrder(p NewOrderParams, feeFactor decimal.Decimal, now time.Time) (*Order, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrInvalidOrder
	}
	if p.Amount.IsNegative() || p.ExchangeRate.IsNegative() {
		return nil, ErrInvalidOrder
	}

	plan := DefaultPaymentPlan()
	if p.Plan != nil {
		plan = *p.Plan
	}

	order := &Order{
		Name:         strings.TrimSpace(p.Name),
		Supplier:     strings.TrimSpace(p.Supplier),
		Amount:       p.Amount,
		Currency:     p.Currency,
		ExchangeRate: p.ExchangeRate,
		Paid:         decimal.Zero,
		Status:       StatusNotStarted,
		Plan:         plan,
		Notes:        p.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	order.Recalculate(feeFactor)

	return order, nil
}

// Recalculate refreshes every derived money field from amount, rate and paid.
func (o *Order) Recalculate(feeFactor decimal.Decimal) {
	o.GoodsCost, o.Fee, o.TotalCost = o.costs(feeFactor)
	o.Remaining = o.TotalCost.Sub(o.Paid)
}

func (o *Order) costs(feeFactor decimal.Decimal) (goods, fee, total decimal.Decimal) {
	goods = o.Amount.Mul(o.ExchangeRate)
	fee = o.Amount.Mul(feeFactor)
	return goods, fee, goods.Add(fee)
}

// ApplyPayment adds amount to paid. The order is left untouched on error.
func (o *Order) ApplyPayment(amount, feeFactor decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativePayment
	}
	goods, fee, total := o.costs(feeFactor)
	paid := o.Paid.Add(amount)
	if paid.GreaterThan(total) {
		return ErrOverpayment
	}
	o.GoodsCost, o.Fee, o.TotalCost = goods, fee, total
	o.Paid = paid
	o.Remaining = total.Sub(paid)
	return nil
}

// TransitionTo moves the order to status and stamps milestone dates when the
// status actually changes. Any transition is allowed, reverting keeps dates.
func (o *Order) TransitionTo(status OrderStatus, now time.Time) (bool, error) {
	if !status.Valid() {
		return false, ErrUnknownStatus
	}
	if o.Status == status {
		return false, nil
	}

	switch status {
	case StatusApproved:
		o.Milestones.ConfirmedAt = timePtr(now)
		o.Milestones.ShipmentExpected = timePtr(now.Add(confirmationToShipment))
		o.Milestones.ArrivalExpected = timePtr(now.Add(confirmationToArrival))
	case StatusShipped:
		o.Milestones.ShippedAt = timePtr(now)
		o.Milestones.ArrivalExpected = timePtr(now.Add(shipmentToArrival))
	case StatusArrivedAtWarehouse, StatusFullySettled:
		o.Milestones.ArrivedAt = timePtr(now)
	}

	o.Status = status
	return true, nil
}

func (o *Order) IsSettled() bool {
	return o.Remaining.Sign() <= 0
}

// InTransit reports orders confirmed but not yet received.
func (o *Order) InTransit() bool {
	switch o.Status {
	case StatusApproved, StatusProcessing, StatusShipped, StatusCustomsClearance:
		return true
	}
	return false
}

func (o *Order) Completed() bool {
	return o.Status == StatusArrivedAtWarehouse || o.Status == StatusFullySettled
}

func timePtr(t time.Time) *time.Time {
	return &t
}

type OrderFilter struct {
	Statuses []OrderStatus
	Supplier string
}
