package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.OrderModel{}, &models.PaymentModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleOrder(t *testing.T, name string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(domain.NewOrderParams{
		Name:         name,
		Supplier:     "Guangzhou Lighting",
		Amount:       decimal.NewFromInt(50000),
		Currency:     "USD",
		ExchangeRate: decimal.RequireFromString("3.75"),
	}, domain.DefaultFeeFactor, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return order
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDefaultOrderRepository(db)
	ctx := context.Background()

	order := sampleOrder(t, "Lamps")
	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.NotZero(t, order.ID)
	assert.Equal(t, int64(1), order.Version)

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamps", got.Name)
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(224700)))
	assert.True(t, got.Plan.DepositPct.Equal(decimal.NewFromInt(30)))
	assert.Nil(t, got.Milestones.ConfirmedAt)

	_, err = repo.GetOrderByID(ctx, order.ID+100)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderRepository_UpdateChecksVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDefaultOrderRepository(db)
	ctx := context.Background()

	order := sampleOrder(t, "Lamps")
	require.NoError(t, repo.CreateOrder(ctx, order))

	first, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	second, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)

	first.Notes = "first writer"
	require.NoError(t, repo.UpdateOrder(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.Notes = "second writer"
	err = repo.UpdateOrder(ctx, second)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "first writer", got.Notes)

	missing := sampleOrder(t, "Ghost")
	missing.ID = 999
	missing.Version = 1
	assert.ErrorIs(t, repo.UpdateOrder(ctx, missing), domain.ErrOrderNotFound)
}

func TestOrderRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDefaultOrderRepository(db)
	ctx := context.Background()

	a := sampleOrder(t, "A")
	b := sampleOrder(t, "B")
	b.Supplier = "Other"
	b.Status = domain.StatusShipped
	require.NoError(t, repo.CreateOrder(ctx, a))
	require.NoError(t, repo.CreateOrder(ctx, b))

	all, err := repo.ListOrders(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Name)

	shipped, err := repo.ListOrders(ctx, domain.OrderFilter{Statuses: []domain.OrderStatus{domain.StatusShipped}})
	require.NoError(t, err)
	require.Len(t, shipped, 1)
	assert.Equal(t, "B", shipped[0].Name)

	bySupplier, err := repo.ListOrders(ctx, domain.OrderFilter{Supplier: "Guangzhou Lighting"})
	require.NoError(t, err)
	require.Len(t, bySupplier, 1)
	assert.Equal(t, "A", bySupplier[0].Name)
}

func TestOrderRepository_RestoreKeepsID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDefaultOrderRepository(db)
	ctx := context.Background()

	order := sampleOrder(t, "Restored")
	order.ID = 42
	require.NoError(t, repo.RestoreOrder(ctx, order))

	order.Notes = "overwritten"
	require.NoError(t, repo.RestoreOrder(ctx, order))

	got, err := repo.GetOrderByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "overwritten", got.Notes)

	next := sampleOrder(t, "Next")
	require.NoError(t, repo.CreateOrder(ctx, next))
	assert.Greater(t, next.ID, uint64(42))
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	orders := NewDefaultOrderRepository(db)
	payments := NewDefaultPaymentRepository(db)
	tx := NewGormTxManager(db)
	ctx := context.Background()

	order := sampleOrder(t, "Lamps")
	require.NoError(t, orders.CreateOrder(ctx, order))

	boom := errors.New("boom")
	err := tx.Transact(ctx, func(ctx context.Context) error {
		if err := payments.CreatePayment(ctx, &domain.Payment{
			ID:      "pay-1",
			OrderID: order.ID,
			Date:    time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Amount:  decimal.NewFromInt(1000),
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	logged, err := payments.ListPaymentsByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, logged)
}

func TestPaymentRepository_ListOrdersByDate(t *testing.T) {
	db := setupTestDB(t)
	orders := NewDefaultOrderRepository(db)
	payments := NewDefaultPaymentRepository(db)
	ctx := context.Background()

	order := sampleOrder(t, "Lamps")
	require.NoError(t, orders.CreateOrder(ctx, order))

	later := &domain.Payment{ID: "b", OrderID: order.ID, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(15000)}
	earlier := &domain.Payment{ID: "a", OrderID: order.ID, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(20000)}
	require.NoError(t, payments.CreatePayment(ctx, later))
	require.NoError(t, payments.CreatePayment(ctx, earlier))

	logged, err := payments.ListPaymentsByOrderID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, logged, 2)
	assert.Equal(t, "a", logged[0].ID)
	assert.True(t, domain.SumPayments(logged).Equal(decimal.NewFromInt(35000)))

	all, err := payments.ListPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
