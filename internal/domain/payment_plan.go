package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PaymentPlan splits the total cost across three milestones, in percent.
type PaymentPlan struct {
	DepositPct  decimal.Decimal
	ShippingPct decimal.Decimal
	ArrivalPct  decimal.Decimal
}

func DefaultPaymentPlan() PaymentPlan {
	return PaymentPlan{
		DepositPct:  decimal.NewFromInt(30),
		ShippingPct: decimal.NewFromInt(40),
		ArrivalPct:  decimal.NewFromInt(30),
	}
}

func (p PaymentPlan) Sum() decimal.Decimal {
	return p.DepositPct.Add(p.ShippingPct).Add(p.ArrivalPct)
}

// Balanced reports whether the split adds up to 100. Not enforced anywhere.
func (p PaymentPlan) Balanced() bool {
	return p.Sum().Equal(hundred)
}

type Installments struct {
	Deposit  decimal.Decimal
	Shipping decimal.Decimal
	Arrival  decimal.Decimal
	PlanSum  decimal.Decimal
}

// PlanBreakdown returns advisory installment amounts for the order's plan.
func (o *Order) PlanBreakdown() Installments {
	share := func(pct decimal.Decimal) decimal.Decimal {
		return o.TotalCost.Mul(pct).Div(hundred)
	}
	return Installments{
		Deposit:  share(o.Plan.DepositPct),
		Shipping: share(o.Plan.ShippingPct),
		Arrival:  share(o.Plan.ArrivalPct),
		PlanSum:  o.Plan.Sum(),
	}
}
