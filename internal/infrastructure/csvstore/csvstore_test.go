package csvstore

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOrdersStartsWithBOM(t *testing.T) {
	orders := []*domain.Order{{
		ID:           1,
		Name:         "شحنة أقمشة",
		Amount:       decimal.NewFromInt(1000),
		ExchangeRate: decimal.RequireFromString("3.75"),
		Status:       domain.StatusProcessing,
		Plan:         domain.DefaultPaymentPlan(),
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteOrders(&buf, orders))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, buf.String(), "شحنة أقمشة")

	got, notices, err := ReadOrders(&buf)
	require.NoError(t, err)
	assert.Empty(t, notices)
	require.Len(t, got, 1)
	assert.Equal(t, "شحنة أقمشة", got[0].Name)
	assert.Equal(t, domain.StatusProcessing, got[0].Status)
}

func TestReadOrdersWithoutBOM(t *testing.T) {
	input := "id,name,amount,exchange_rate\n5,Cables,200,3.7\n"
	got, notices, err := ReadOrders(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, notices)
	require.Len(t, got, 1)
	assert.Equal(t, uint64(5), got[0].ID)
}

func TestReadOrdersMalformed(t *testing.T) {
	got, notices, err := ReadOrders(strings.NewReader("just some text\nwithout the columns\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].String(), "missing columns")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestReadOrdersReaderFailure(t *testing.T) {
	_, _, err := ReadOrders(failingReader{})
	assert.Error(t, err)
}

func TestPaymentsRoundTrip(t *testing.T) {
	payments := []*domain.Payment{{
		ID:      "V1StGXR8_Z5jdHi",
		OrderID: 4,
		Date:    time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Amount:  decimal.RequireFromString("12500.25"),
		Memo:    "دفعة الشحن",
	}}

	var buf bytes.Buffer
	require.NoError(t, WritePayments(&buf, payments))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\xef\xbb\xbf")))

	got, notices, err := ReadPayments(&buf)
	require.NoError(t, err)
	assert.Empty(t, notices)
	require.Len(t, got, 1)
	assert.Equal(t, "V1StGXR8_Z5jdHi", got[0].ID)
	assert.Equal(t, uint64(4), got[0].OrderID)
	assert.Equal(t, "دفعة الشحن", got[0].Memo)
	assert.True(t, got[0].Amount.Equal(payments[0].Amount))
}

func TestReadPaymentsFromOrderTable(t *testing.T) {
	got, notices, err := ReadPayments(strings.NewReader("id,name,amount,exchange_rate\n5,Cables,200,3.7\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
	require.Len(t, notices, 1)
	assert.Equal(t, "missing columns: order_id", notices[0].String())
}
