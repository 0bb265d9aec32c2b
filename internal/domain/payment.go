package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an immutable entry of the payment log.
type Payment struct {
	ID         string
	OrderID    uint64
	Date       time.Time
	Amount     decimal.Decimal
	Memo       string
	ReceiptURL string
	CreatedAt  time.Time
}

func SumPayments(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
