package request

import "github.com/shopspring/decimal"

type PaymentPlan struct {
	DepositPct  decimal.Decimal `json:"deposit_pct"`
	ShippingPct decimal.Decimal `json:"shipping_pct"`
	ArrivalPct  decimal.Decimal `json:"arrival_pct"`
}

type CreateOrderRequest struct {
	Name         string          `json:"name"`
	Supplier     string          `json:"supplier"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Plan         *PaymentPlan    `json:"plan,omitempty"`
	Notes        string          `json:"notes"`
}

// UpdateOrderRequest is a partial edit; absent fields keep their value.
// Dates are YYYY-MM-DD or RFC 3339.
type UpdateOrderRequest struct {
	Version          int64            `json:"version"`
	Name             *string          `json:"name,omitempty"`
	Supplier         *string          `json:"supplier,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	Currency         *string          `json:"currency,omitempty"`
	ExchangeRate     *decimal.Decimal `json:"exchange_rate,omitempty"`
	Status           *string          `json:"status,omitempty"`
	Plan             *PaymentPlan     `json:"plan,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
	ShipmentExpected *string          `json:"shipment_expected,omitempty"`
	ArrivalExpected  *string          `json:"arrival_expected,omitempty"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type PaymentRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date,omitempty"`
	Memo       string          `json:"memo"`
	ReceiptURL string          `json:"receipt_url"`
	Status     *string         `json:"status,omitempty"`
}
