package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentModel rows are never updated once written.
type PaymentModel struct {
	ID         string          `gorm:"primaryKey;size:32"`
	OrderID    uint64          `gorm:"index:idx_payments_order;not null"`
	Date       time.Time       `gorm:"not null"`
	Amount     decimal.Decimal `gorm:"type:numeric;not null"`
	Memo       string
	ReceiptURL string
	CreatedAt  time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}
