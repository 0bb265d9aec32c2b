package mappers

import (
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	return &domain.Order{
		ID:           model.ID,
		Name:         model.Name,
		Supplier:     model.Supplier,
		Amount:       model.Amount,
		Currency:     model.Currency,
		ExchangeRate: model.ExchangeRate,
		GoodsCost:    model.GoodsCost,
		Fee:          model.Fee,
		TotalCost:    model.TotalCost,
		Paid:         model.Paid,
		Remaining:    model.Remaining,
		Status:       model.Status,
		Plan: domain.PaymentPlan{
			DepositPct:  model.DepositPct,
			ShippingPct: model.ShippingPct,
			ArrivalPct:  model.ArrivalPct,
		},
		Milestones: domain.Milestones{
			ConfirmedAt:      model.ConfirmedAt,
			ShipmentExpected: model.ShipmentExpected,
			ShippedAt:        model.ShippedAt,
			ArrivalExpected:  model.ArrivalExpected,
			ArrivedAt:        model.ArrivedAt,
		},
		Notes:     model.Notes,
		Version:   model.Version,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:               order.ID,
		Name:             order.Name,
		Supplier:         order.Supplier,
		Amount:           order.Amount,
		Currency:         order.Currency,
		ExchangeRate:     order.ExchangeRate,
		GoodsCost:        order.GoodsCost,
		Fee:              order.Fee,
		TotalCost:        order.TotalCost,
		Paid:             order.Paid,
		Remaining:        order.Remaining,
		Status:           order.Status,
		DepositPct:       order.Plan.DepositPct,
		ShippingPct:      order.Plan.ShippingPct,
		ArrivalPct:       order.Plan.ArrivalPct,
		ConfirmedAt:      order.Milestones.ConfirmedAt,
		ShipmentExpected: order.Milestones.ShipmentExpected,
		ShippedAt:        order.Milestones.ShippedAt,
		ArrivalExpected:  order.Milestones.ArrivalExpected,
		ArrivedAt:        order.Milestones.ArrivedAt,
		Notes:            order.Notes,
		Version:          order.Version,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}
