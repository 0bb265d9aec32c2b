package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// LedgerMetrics holds the order and payment counters of the ledger.
type LedgerMetrics struct {
	OrdersCreatedTotal     *prometheus.CounterVec
	OrdersCommittedAmount  *prometheus.CounterVec
	PaymentsAppliedTotal   *prometheus.CounterVec
	PaymentsAppliedAmount  *prometheus.CounterVec
	PaymentsRejectedTotal  *prometheus.CounterVec
	StatusTransitionsTotal *prometheus.CounterVec
	VersionConflictsTotal  *prometheus.CounterVec
	OrdersImportedTotal    prometheus.Counter
	OperationDuration      *prometheus.HistogramVec
}

// NewLedgerMetrics registers the metrics on reg. Pass prometheus.DefaultRegisterer
// in the service and a fresh registry in tests.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	f := promauto.With(reg)
	return &LedgerMetrics{
		OrdersCreatedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procurement_orders_created_total",
				Help: "Number of purchase orders created",
			},
			[]string{"currency"},
		),
		OrdersCommittedAmount: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procurement_orders_committed_amount_total",
				Help: "Total cost of created orders in local currency",
			},
			[]string{"currency"},
		),
		PaymentsAppliedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procurement_payments_applied_total",
				Help: "Number of payments appended to the payment log",
			},
			[]string{"status"},
		),
		PaymentsAppliedAmount: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procurement_payments_applied_amount_total",
				Help: "Sum of applied payments in local currency",
			},
			[]string{"status"},
		),
		PaymentsRejectedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procurement_payments_rejected_total",
				Help: "Number of rejected payment attempts",
			},
			[]string{"reason"},
		),
		StatusTransitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procurement_status_transitions_total",
				Help: "Order status changes",
			},
			[]string{"from", "to"},
		),
		VersionConflictsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "procurement_version_conflicts_total",
				Help: "Writes rejected by the optimistic version check",
			},
			[]string{"operation"},
		),
		OrdersImportedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "procurement_orders_imported_total",
				Help: "Orders restored from a snapshot",
			},
		),
		OperationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "procurement_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"operation"},
		),
	}
}

func (m *LedgerMetrics) RecordOrderCreated(currency string, totalCost decimal.Decimal) {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.WithLabelValues(currency).Inc()
	m.OrdersCommittedAmount.WithLabelValues(currency).Add(totalCost.InexactFloat64())
}

func (m *LedgerMetrics) RecordPaymentApplied(status string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.PaymentsAppliedTotal.WithLabelValues(status).Inc()
	m.PaymentsAppliedAmount.WithLabelValues(status).Add(amount.InexactFloat64())
}

func (m *LedgerMetrics) RecordPaymentRejected(reason string) {
	if m == nil {
		return
	}
	m.PaymentsRejectedTotal.WithLabelValues(reason).Inc()
}

func (m *LedgerMetrics) RecordStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *LedgerMetrics) RecordVersionConflict(operation string) {
	if m == nil {
		return
	}
	m.VersionConflictsTotal.WithLabelValues(operation).Inc()
}

func (m *LedgerMetrics) RecordImported(n int) {
	if m == nil {
		return
	}
	m.OrdersImportedTotal.Add(float64(n))
}

func (m *LedgerMetrics) ObserveDuration(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(seconds)
}
