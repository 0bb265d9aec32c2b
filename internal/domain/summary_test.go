package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	a := newTestOrder(t, "50000", "3.75", decimal.Zero)
	require.NoError(t, a.ApplyPayment(dec("50000"), decimal.Zero))
	a.Status = StatusShipped
	b := newTestOrder(t, "15000", "1", decimal.Zero)
	require.NoError(t, b.ApplyPayment(dec("15000"), decimal.Zero))
	b.Status = StatusFullySettled

	s := Summarize([]*Order{a, b})
	assert.Equal(t, 2, s.Orders)
	assert.True(t, s.TotalCommitment.Equal(dec("202500")))
	assert.True(t, s.TotalPaid.Equal(dec("65000")))
	assert.True(t, s.TotalRemaining.Equal(dec("137500")))
	assert.Equal(t, "32.1", s.ProgressPct.StringFixed(1))
	assert.Equal(t, 1, s.ByStatus[StatusShipped])

	assert.Equal(t, []*Order{a}, IncomingShipments([]*Order{a, b}))
	assert.Equal(t, []*Order{a}, OutstandingOrders([]*Order{a, b}))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Orders)
	assert.True(t, s.ProgressPct.IsZero())
}
