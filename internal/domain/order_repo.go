package domain

import "context"

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID uint64) (*Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error)
	// UpdateOrder saves the order only if its stored version still equals
	// order.Version, then bumps the version.
	UpdateOrder(ctx context.Context, order *Order) error
	// RestoreOrder inserts or overwrites the row keyed by order.ID.
	RestoreOrder(ctx context.Context, order *Order) error
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	ListPaymentsByOrderID(ctx context.Context, orderID uint64) ([]*Payment, error)
	ListPayments(ctx context.Context) ([]*Payment, error)
}

// TxManager runs fn in a transaction carried by the context passed to fn.
type TxManager interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}
