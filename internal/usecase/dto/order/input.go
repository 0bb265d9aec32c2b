package orderdto

import (
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateOrderInput struct {
	Name         string
	Supplier     string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	Plan         *domain.PaymentPlan
	Notes        string
}

// UpdateOrderInput carries a partial edit. Nil fields are left unchanged.
// Version, when non-zero, must match the stored version.
type UpdateOrderInput struct {
	Version          int64
	Name             *string
	Supplier         *string
	Amount           *decimal.Decimal
	Currency         *string
	ExchangeRate     *decimal.Decimal
	Status           *domain.OrderStatus
	Plan             *domain.PaymentPlan
	Notes            *string
	ShipmentExpected *time.Time
	ArrivalExpected  *time.Time
}

type PaymentInput struct {
	Amount     decimal.Decimal
	Date       time.Time
	Memo       string
	ReceiptURL string
	// Status optionally moves the order in the same operation.
	Status *domain.OrderStatus
}
