package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Orders    *OrderHandler
	Ledger    *LedgerHandler
	Analytics *AnalyticsHandler
	// Gatherer backs /metrics; the route is skipped when nil.
	Gatherer prometheus.Gatherer
}

func NewRouter(h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /orders", h.Orders.CreateOrder)
	mux.HandleFunc("GET /orders", h.Orders.ListOrders)
	mux.HandleFunc("GET /orders/{id}", h.Orders.GetOrder)
	mux.HandleFunc("PATCH /orders/{id}", h.Orders.UpdateOrder)
	mux.HandleFunc("POST /orders/{id}/status", h.Orders.ChangeStatus)
	mux.HandleFunc("POST /orders/{id}/payments", h.Orders.ApplyPayment)
	mux.HandleFunc("GET /orders/{id}/payments", h.Orders.ListPayments)
	mux.HandleFunc("GET /orders/{id}/plan", h.Orders.GetPaymentPlan)
	mux.HandleFunc("POST /orders/{id}/reconcile", h.Orders.ReconcilePaid)

	mux.HandleFunc("GET /timeline", h.Ledger.Timeline)
	mux.HandleFunc("GET /summary", h.Ledger.Summary)
	mux.HandleFunc("GET /export", h.Ledger.Export)
	mux.HandleFunc("POST /import", h.Ledger.Import)

	if h.Analytics != nil {
		mux.HandleFunc("POST /analytics/vouchers", h.Analytics.Vouchers)
	}
	if h.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{}))
	}

	return withRequestLog(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags every request with an X-Request-ID and logs its outcome.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		slog.Info("http request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
