package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/delivery/http/dto/order/response"
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-procurement-service/internal/usecase/analytics"
	usecase "github.com/LavaJover/shvark-procurement-service/internal/usecase/order"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, postgres.AutoMigrate(db))

	reg := prometheus.NewRegistry()
	uc, err := usecase.NewDefaultOrderUsecase(
		repository.NewDefaultOrderRepository(db),
		repository.NewDefaultPaymentRepository(db),
		repository.NewGormTxManager(db),
		nil,
		metrics.NewLedgerMetrics(reg),
		domain.DefaultFeeFactor,
		"SAR",
	)
	require.NoError(t, err)
	uc.Now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	vouchers := analytics.NewVoucherUsecase(
		domain.NewKeywordClassifier([]string{"purchase"}, []string{"return"}),
		"$.invoices[*]", "$.lines[*]",
	)

	srv := httptest.NewServer(NewRouter(Handlers{
		Orders:    NewOrderHandler(uc),
		Ledger:    NewLedgerHandler(uc),
		Analytics: NewAnalyticsHandler(vouchers),
		Gatherer:  reg,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createOrder(t *testing.T, srv *httptest.Server) response.OrderResponse {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/orders", map[string]any{
		"name":          "LED panels",
		"supplier":      "Ningbo",
		"amount":        "50000",
		"currency":      "USD",
		"exchange_rate": 3.75,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[response.OrderResponse](t, resp)
}

func TestCreateAndPayOrder(t *testing.T) {
	srv := newTestServer(t)
	order := createOrder(t, srv)
	assert.True(t, order.TotalCost.Equal(decimal.NewFromInt(224700)))
	assert.Equal(t, "NOT_STARTED", order.Status)
	assert.NotEmpty(t, order.ID)

	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/payments", srv.URL, order.ID), map[string]any{
		"amount": "100000",
		"memo":   "deposit",
		"date":   "2026-03-02",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	paid := decodeBody[response.ApplyPaymentResponse](t, resp)
	assert.True(t, paid.Order.Remaining.Equal(decimal.NewFromInt(124700)))
	assert.Equal(t, "2026-03-02", paid.Payment.Date.Format("2006-01-02"))

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/payments", srv.URL, order.ID), map[string]any{
		"amount": "200000",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d/payments", srv.URL, order.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payments := decodeBody[[]response.PaymentResponse](t, resp)
	assert.Len(t, payments, 1)
}

func TestOrderErrors(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/orders/77", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/orders", map[string]any{"name": "", "amount": 1, "exchange_rate": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	order := createOrder(t, srv)
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/status", srv.URL, order.ID), map[string]any{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPatch, fmt.Sprintf("%s/orders/%d", srv.URL, order.ID), map[string]any{
		"version": order.Version,
		"notes":   "first",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPatch, fmt.Sprintf("%s/orders/%d", srv.URL, order.ID), map[string]any{
		"version": order.Version,
		"notes":   "stale",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestStatusAndPlan(t *testing.T) {
	srv := newTestServer(t)
	order := createOrder(t, srv)

	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/status", srv.URL, order.ID), map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	approved := decodeBody[response.OrderResponse](t, resp)
	require.NotNil(t, approved.ArrivalExpected)
	assert.Equal(t, "2026-04-30", approved.ArrivalExpected.Format("2006-01-02"))

	resp = doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d/plan", srv.URL, order.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	plan := decodeBody[response.PaymentPlanResponse](t, resp)
	assert.True(t, plan.Deposit.Equal(decimal.NewFromInt(67410)))
	assert.True(t, plan.Balanced)

	resp = doJSON(t, http.MethodGet, srv.URL+"/orders?status=approved", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeBody[[]response.OrderResponse](t, resp), 1)

	resp = doJSON(t, http.MethodGet, srv.URL+"/timeline", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	segments := decodeBody[[]response.TimelineSegmentResponse](t, resp)
	require.Len(t, segments, 2)
	assert.Equal(t, "processing", segments[0].Phase)

	resp = doJSON(t, http.MethodGet, srv.URL+"/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decodeBody[response.SummaryResponse](t, resp)
	assert.Equal(t, 1, summary.ByStatus["APPROVED"])
	assert.Len(t, summary.Incoming, 1)
}

func TestExportImport(t *testing.T) {
	srv := newTestServer(t)
	createOrder(t, srv)

	resp := doJSON(t, http.MethodGet, srv.URL+"/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snapshot, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(snapshot, []byte{0xEF, 0xBB, 0xBF}))

	t.Run("into empty ledger", func(t *testing.T) {
		other := newTestServer(t)
		req, err := http.NewRequest(http.MethodPost, other.URL+"/import", bytes.NewReader(snapshot))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "text/csv")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		result := decodeBody[response.ImportResponse](t, resp)
		assert.Equal(t, 1, result.Imported)
		assert.Empty(t, result.Notices)

		resp = doJSON(t, http.MethodGet, other.URL+"/orders/1", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		restored := decodeBody[response.OrderResponse](t, resp)
		assert.True(t, restored.TotalCost.Equal(decimal.NewFromInt(224700)))
	})
}

func TestExportImportWithPaymentLog(t *testing.T) {
	srv := newTestServer(t)
	order := createOrder(t, srv)
	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/payments", srv.URL, order.ID), map[string]any{
		"amount": "100000",
		"memo":   "عربون",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	download := func(url string) []byte {
		resp := doJSON(t, http.MethodGet, url, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return body
	}
	orders := download(srv.URL + "/export")
	payments := download(srv.URL + "/export?table=payments")
	assert.Contains(t, string(payments), "عربون")

	resp = doJSON(t, http.MethodGet, srv.URL+"/export?table=suppliers", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	t.Run("into empty ledger", func(t *testing.T) {
		other := newTestServer(t)
		upload := func() response.ImportResponse {
			var body bytes.Buffer
			mw := multipart.NewWriter(&body)
			part, err := mw.CreateFormFile("file", "orders.csv")
			require.NoError(t, err)
			_, _ = part.Write(orders)
			part, err = mw.CreateFormFile("payments", "payments.csv")
			require.NoError(t, err)
			_, _ = part.Write(payments)
			require.NoError(t, mw.Close())

			resp, err := http.Post(other.URL+"/import", mw.FormDataContentType(), &body)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)
			return decodeBody[response.ImportResponse](t, resp)
		}

		result := upload()
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 1, result.PaymentsImported)
		assert.Zero(t, result.OpeningBalances)
		assert.Empty(t, result.Notices)

		result = upload()
		assert.Zero(t, result.PaymentsImported)
		assert.Equal(t, 1, result.PaymentsExisting)

		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/orders/%d/payments", other.URL, order.ID), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		log := decodeBody[[]response.PaymentResponse](t, resp)
		assert.Len(t, log, 1)

		// the restored balance is still 124700, so settling it exactly works
		resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/orders/%d/payments", other.URL, order.ID), map[string]any{
			"amount": "124700",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		paid := decodeBody[response.ApplyPaymentResponse](t, resp)
		assert.True(t, paid.Order.Remaining.IsZero())
	})
}

func TestImportMalformed(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/import", "text/csv", strings.NewReader("hello,world\n1,2\n"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[response.ImportResponse](t, resp)
	assert.Zero(t, result.Imported)
	require.Len(t, result.Notices, 1)
	assert.Contains(t, result.Notices[0], "missing columns")
}

func TestVoucherAnalytics(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("headers", "headers.json")
	require.NoError(t, err)
	_, _ = io.WriteString(part, `{"invoices":[{"txn_id":1,"voucher_type":"Purchase","supplier":"A"},{"txn_id":2,"voucher_type":"Return","supplier":"A"}]}`)
	part, err = mw.CreateFormFile("lines", "lines.json")
	require.NoError(t, err)
	_, _ = io.WriteString(part, `{"lines":[{"txn_id":1,"item":"Pipe","qty":4,"amount":400},{"txn_id":2,"item":"Pipe","qty":1,"amount":100}]}`)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/analytics/vouchers", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decodeBody[response.VoucherReportResponse](t, resp)
	assert.True(t, report.NetTotal.Equal(decimal.NewFromInt(300)))
	require.Len(t, report.Items, 1)
	assert.True(t, report.Items[0].Quantity.Equal(decimal.NewFromInt(3)))

	resp2, err := http.Post(srv.URL+"/analytics/vouchers", "multipart/form-data; boundary=x", strings.NewReader("--x--\r\n"))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestMetricsAndRequestID(t *testing.T) {
	srv := newTestServer(t)
	createOrder(t, srv)

	resp := doJSON(t, http.MethodGet, srv.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "procurement_orders_created_total")
}
