package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	EventOrderCreated   OrderEventType = "order_created"
	EventOrderUpdated   OrderEventType = "order_updated"
	EventStatusChanged  OrderEventType = "status_changed"
	EventPaymentApplied OrderEventType = "payment_applied"
	EventOrderRestored  OrderEventType = "order_restored"
)

type OrderEvent struct {
	EventID    string          `json:"event_id"`
	Type       OrderEventType  `json:"type"`
	OrderID    uint64          `json:"order_id"`
	Status     OrderStatus     `json:"status"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	Paid       decimal.Decimal `json:"paid"`
	Remaining  decimal.Decimal `json:"remaining"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
}
