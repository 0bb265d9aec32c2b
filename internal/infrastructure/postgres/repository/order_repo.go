package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	orderModel.ID = 0
	orderModel.Version = 1
	if err := conn(ctx, r.DB).Create(orderModel).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	order.ID = orderModel.ID
	order.Version = orderModel.Version
	order.CreatedAt = orderModel.CreatedAt
	order.UpdatedAt = orderModel.UpdatedAt
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID uint64) (*domain.Order, error) {
	var order models.OrderModel
	if err := conn(ctx, r.DB).First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return mappers.ToDomainOrder(&order), nil
}

func (r *DefaultOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, error) {
	query := conn(ctx, r.DB).Model(&models.OrderModel{})
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Supplier != "" {
		query = query.Where("supplier = ?", filter.Supplier)
	}

	var orderModels []models.OrderModel
	if err := query.Order("id ASC").Find(&orderModels).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]*domain.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = mappers.ToDomainOrder(&orderModels[i])
	}
	return orders, nil
}

func (r *DefaultOrderRepository) UpdateOrder(ctx context.Context, order *domain.Order) error {
	db := conn(ctx, r.DB)

	orderModel := mappers.ToGORMOrder(order)
	orderModel.Version = order.Version + 1
	orderModel.UpdatedAt = time.Now()

	res := db.Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Select("*").
		Omit("id", "created_at").
		Updates(orderModel)
	if res.Error != nil {
		return fmt.Errorf("update order %d: %w", order.ID, res.Error)
	}

	if res.RowsAffected == 0 {
		var count int64
		if err := db.Model(&models.OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("update order %d: %w", order.ID, err)
		}
		if count == 0 {
			return domain.ErrOrderNotFound
		}
		return domain.ErrVersionConflict
	}

	order.Version = orderModel.Version
	order.UpdatedAt = orderModel.UpdatedAt
	return nil
}

func (r *DefaultOrderRepository) RestoreOrder(ctx context.Context, order *domain.Order) error {
	db := conn(ctx, r.DB)

	orderModel := mappers.ToGORMOrder(order)
	if orderModel.Version < 1 {
		orderModel.Version = 1
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(orderModel).Error
	if err != nil {
		return fmt.Errorf("restore order %d: %w", order.ID, err)
	}

	// explicit ids do not advance the postgres sequence
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("SELECT setval(pg_get_serial_sequence('orders', 'id'), (SELECT COALESCE(MAX(id), 1) FROM orders))").Error; err != nil {
			return fmt.Errorf("restore order %d: advance sequence: %w", order.ID, err)
		}
	}

	order.ID = orderModel.ID
	order.Version = orderModel.Version
	return nil
}
