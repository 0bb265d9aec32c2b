package models

import (
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type OrderModel struct {
	ID               uint64             `gorm:"primaryKey;autoIncrement"`
	Name             string             `gorm:"not null"`
	Supplier         string             `gorm:"index:idx_orders_supplier"`
	Amount           decimal.Decimal    `gorm:"type:numeric;not null"`
	Currency         string             `gorm:"size:8"`
	ExchangeRate     decimal.Decimal    `gorm:"type:numeric;not null"`
	GoodsCost        decimal.Decimal    `gorm:"type:numeric;not null"`
	Fee              decimal.Decimal    `gorm:"type:numeric;not null"`
	TotalCost        decimal.Decimal    `gorm:"type:numeric;not null"`
	Paid             decimal.Decimal    `gorm:"type:numeric;not null"`
	Remaining        decimal.Decimal    `gorm:"type:numeric;not null"`
	Status           domain.OrderStatus `gorm:"type:varchar(32);index:idx_orders_status;not null"`
	DepositPct       decimal.Decimal    `gorm:"type:numeric;not null"`
	ShippingPct      decimal.Decimal    `gorm:"type:numeric;not null"`
	ArrivalPct       decimal.Decimal    `gorm:"type:numeric;not null"`
	ConfirmedAt      *time.Time
	ShipmentExpected *time.Time
	ShippedAt        *time.Time
	ArrivalExpected  *time.Time
	ArrivedAt        *time.Time
	Notes            string
	Version          int64 `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}
