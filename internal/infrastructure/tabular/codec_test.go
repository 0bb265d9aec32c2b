package tabular

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeOrders(t *testing.T) {
	confirmed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	order, err := domain.NewOrder(domain.NewOrderParams{
		Name:         "مصابيح LED",
		Supplier:     "Ningbo",
		Amount:       decimal.NewFromInt(50000),
		Currency:     "USD",
		ExchangeRate: decimal.RequireFromString("3.75"),
		Notes:        "first batch",
	}, domain.DefaultFeeFactor, confirmed)
	require.NoError(t, err)
	order.ID = 3
	_, err = order.TransitionTo(domain.StatusApproved, confirmed)
	require.NoError(t, err)

	rows := EncodeOrders([]*domain.Order{order})
	require.Len(t, rows, 2)
	assert.Equal(t, OrderColumns, rows[0])
	assert.Equal(t, "224700", rows[1][8])
	assert.Equal(t, "2026-03-31", rows[1][16])

	decoded, notices := DecodeOrders(rows)
	assert.Empty(t, notices)
	require.Len(t, decoded, 1)
	got := decoded[0]
	assert.Equal(t, uint64(3), got.ID)
	assert.Equal(t, "مصابيح LED", got.Name)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(224700)))
	assert.True(t, got.Plan.ShippingPct.Equal(decimal.NewFromInt(40)))
	require.NotNil(t, got.Milestones.ArrivalExpected)
	assert.Equal(t, "2026-04-30", got.Milestones.ArrivalExpected.Format(DateLayout))
	assert.Nil(t, got.Milestones.ShippedAt)
}

func TestDecodeOrdersCoercesBadCells(t *testing.T) {
	rows := [][]string{
		{"\ufeffID", "Name", "Amount", "Exchange_Rate", "Status", "confirmed_at", "paid"},
		{"1", "Valves", "1,000.50", "abc", "shipped", "yesterday", ""},
		{"", "", "", "", "", "", ""},
		{"x", "Pumps", "10", "3.75", "LOST", "2026-02-01", "5"},
	}

	orders, notices := DecodeOrders(rows)
	require.Len(t, orders, 2)

	assert.True(t, orders[0].Amount.Equal(decimal.RequireFromString("1000.5")))
	assert.True(t, orders[0].ExchangeRate.IsZero())
	assert.Equal(t, domain.StatusShipped, orders[0].Status)
	assert.Nil(t, orders[0].Milestones.ConfirmedAt)
	assert.True(t, orders[0].Plan.Balanced())

	assert.Equal(t, uint64(0), orders[1].ID)
	assert.Equal(t, domain.StatusNotStarted, orders[1].Status)
	require.NotNil(t, orders[1].Milestones.ConfirmedAt)
	assert.True(t, orders[1].Paid.Equal(decimal.NewFromInt(5)))

	assert.Equal(t, []string{
		`row 2, exchange_rate: invalid number "abc", using 0`,
		`row 2, confirmed_at: invalid date "yesterday", left empty`,
		`row 4, id: invalid id "x", a new one will be assigned`,
		`row 4, status: unknown status "LOST", using NOT_STARTED`,
	}, NoticeStrings(notices))
}

func TestDecodeOrdersWithoutHeader(t *testing.T) {
	orders, notices := DecodeOrders([][]string{{"foo", "bar"}, {"1", "2"}})
	assert.Empty(t, orders)
	require.Len(t, notices, 1)
	assert.Equal(t, "missing columns: id, name, amount, exchange_rate", notices[0].String())

	orders, notices = DecodeOrders(nil)
	assert.Empty(t, orders)
	assert.Len(t, notices, 1)
}

func TestEncodePayments(t *testing.T) {
	rows := EncodePayments([]*domain.Payment{{
		ID:      "abc",
		OrderID: 9,
		Date:    time.Date(2026, 5, 2, 13, 0, 0, 0, time.UTC),
		Amount:  decimal.NewFromInt(20000),
		Memo:    "deposit",
	}})
	assert.Equal(t, [][]string{
		PaymentColumns,
		{"abc", "9", "2026-05-02", "20000", "deposit", ""},
	}, rows)
}

func TestEncodeDecodePayments(t *testing.T) {
	payments := []*domain.Payment{
		{ID: "pay-1", OrderID: 3, Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(20000), Memo: "عربون"},
		{ID: "pay-2", OrderID: 3, Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(15000), ReceiptURL: "https://example.com/r/2"},
	}

	decoded, notices := DecodePayments(EncodePayments(payments))
	assert.Empty(t, notices)
	require.Len(t, decoded, 2)
	assert.Equal(t, "pay-1", decoded[0].ID)
	assert.Equal(t, uint64(3), decoded[0].OrderID)
	assert.Equal(t, "عربون", decoded[0].Memo)
	assert.True(t, decoded[0].Amount.Equal(decimal.NewFromInt(20000)))
	assert.Equal(t, payments[1].Date, decoded[1].Date)
	assert.Equal(t, "https://example.com/r/2", decoded[1].ReceiptURL)
}

func TestDecodePaymentsSkipsRowsWithoutOrder(t *testing.T) {
	rows := [][]string{
		{"id", "order_id", "date", "amount"},
		{"a", "", "2026-03-05", "10"},
		{"b", "seven", "2026-03-05", "10"},
		{"c", "0", "2026-03-05", "10"},
		{"", "7.0", "soon", "1,500"},
	}

	payments, notices := DecodePayments(rows)
	require.Len(t, payments, 1)
	assert.Equal(t, "", payments[0].ID)
	assert.Equal(t, uint64(7), payments[0].OrderID)
	assert.True(t, payments[0].Date.IsZero())
	assert.True(t, payments[0].Amount.Equal(decimal.NewFromInt(1500)))

	assert.Equal(t, []string{
		`row 2, order_id: invalid order id "", row skipped`,
		`row 3, order_id: invalid order id "seven", row skipped`,
		`row 4, order_id: invalid order id "0", row skipped`,
		`row 5, date: invalid date "soon", left empty`,
	}, NoticeStrings(notices))
}

func TestDecodePaymentsWithoutHeader(t *testing.T) {
	payments, notices := DecodePayments([][]string{{"when", "how much"}})
	assert.Empty(t, payments)
	assert.Equal(t, []string{"missing columns: order_id, amount"}, NoticeStrings(notices))
}
