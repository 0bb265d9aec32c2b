package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	DB *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{DB: db}
}

func (r *DefaultPaymentRepository) CreatePayment(ctx context.Context, payment *domain.Payment) error {
	paymentModel := mappers.ToGORMPayment(payment)
	if err := conn(ctx, r.DB).Create(paymentModel).Error; err != nil {
		return fmt.Errorf("create payment for order %d: %w", payment.OrderID, err)
	}
	payment.CreatedAt = paymentModel.CreatedAt
	return nil
}

func (r *DefaultPaymentRepository) ListPaymentsByOrderID(ctx context.Context, orderID uint64) ([]*domain.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := conn(ctx, r.DB).
		Where("order_id = ?", orderID).
		Order("date ASC, created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, fmt.Errorf("list payments for order %d: %w", orderID, err)
	}
	return toDomainPayments(paymentModels), nil
}

func (r *DefaultPaymentRepository) ListPayments(ctx context.Context) ([]*domain.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := conn(ctx, r.DB).Order("order_id ASC, date ASC, created_at ASC").Find(&paymentModels).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return toDomainPayments(paymentModels), nil
}

func toDomainPayments(paymentModels []models.PaymentModel) []*domain.Payment {
	payments := make([]*domain.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&paymentModels[i])
	}
	return payments
}
