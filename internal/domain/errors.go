package domain

import "errors"

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidOrder    = errors.New("invalid order")
	ErrUnknownStatus   = errors.New("unknown order status")
	ErrNegativePayment = errors.New("payment amount must not be negative")
	ErrOverpayment     = errors.New("payment exceeds remaining balance")
	ErrTotalBelowPaid  = errors.New("total cost would drop below amount already paid")
	ErrVersionConflict = errors.New("order was modified concurrently")

	ErrInvalidDocument = errors.New("invalid voucher document")
)
