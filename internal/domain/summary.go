package domain

import "github.com/shopspring/decimal"

// Summary is the financial position across all orders.
type Summary struct {
	Orders          int
	TotalCommitment decimal.Decimal
	TotalPaid       decimal.Decimal
	TotalRemaining  decimal.Decimal
	ProgressPct     decimal.Decimal
	ByStatus        map[OrderStatus]int
}

func Summarize(orders []*Order) Summary {
	s := Summary{
		Orders:          len(orders),
		TotalCommitment: decimal.Zero,
		TotalPaid:       decimal.Zero,
		TotalRemaining:  decimal.Zero,
		ProgressPct:     decimal.Zero,
		ByStatus:        make(map[OrderStatus]int, len(Statuses)),
	}
	for _, o := range orders {
		s.TotalCommitment = s.TotalCommitment.Add(o.TotalCost)
		s.TotalPaid = s.TotalPaid.Add(o.Paid)
		s.TotalRemaining = s.TotalRemaining.Add(o.Remaining)
		s.ByStatus[o.Status]++
	}
	if s.TotalCommitment.IsPositive() {
		s.ProgressPct = s.TotalPaid.Div(s.TotalCommitment).Mul(hundred)
	}
	return s
}

// IncomingShipments returns orders confirmed but not yet at the warehouse.
func IncomingShipments(orders []*Order) []*Order {
	var out []*Order
	for _, o := range orders {
		if o.InTransit() {
			out = append(out, o)
		}
	}
	return out
}

// OutstandingOrders returns orders with a positive remaining balance.
func OutstandingOrders(orders []*Order) []*Order {
	var out []*Order
	for _, o := range orders {
		if !o.IsSettled() {
			out = append(out, o)
		}
	}
	return out
}
