package mappers

import (
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/models"
)

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:         model.ID,
		OrderID:    model.OrderID,
		Date:       model.Date,
		Amount:     model.Amount,
		Memo:       model.Memo,
		ReceiptURL: model.ReceiptURL,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:         payment.ID,
		OrderID:    payment.OrderID,
		Date:       payment.Date,
		Amount:     payment.Amount,
		Memo:       payment.Memo,
		ReceiptURL: payment.ReceiptURL,
		CreatedAt:  payment.CreatedAt,
	}
}
