package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/LavaJover/shvark-procurement-service/internal/delivery/http/dto/order/response"
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/csvstore"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/tabular"
	usecase "github.com/LavaJover/shvark-procurement-service/internal/usecase/order"
)

const maxUploadBytes = 32 << 20

// LedgerHandler serves the views and snapshots that span all orders.
type LedgerHandler struct {
	uc  usecase.OrderUsecase
	log *slog.Logger
}

func NewLedgerHandler(uc usecase.OrderUsecase) *LedgerHandler {
	return &LedgerHandler{
		uc:  uc,
		log: slog.Default().With("component", "http-ledger"),
	}
}

func (h *LedgerHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	segments, err := h.uc.GetTimeline(r.Context())
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromTimeline(segments))
}

func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	dash, err := h.uc.GetDashboard(r.Context())
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	byStatus := make(map[string]int, len(domain.Statuses))
	for _, s := range domain.Statuses {
		byStatus[string(s)] = dash.Summary.ByStatus[s]
	}
	writeJSON(w, http.StatusOK, response.SummaryResponse{
		Orders:          dash.Summary.Orders,
		TotalCommitment: dash.Summary.TotalCommitment,
		TotalPaid:       dash.Summary.TotalPaid,
		TotalRemaining:  dash.Summary.TotalRemaining,
		ProgressPct:     dash.Summary.ProgressPct.Round(2),
		ByStatus:        byStatus,
		Incoming:        response.FromOrders(dash.Incoming),
		Outstanding:     response.FromOrders(dash.Outstanding),
	})
}

// Export answers with the order table as CSV, or the payment log when
// ?table=payments.
func (h *LedgerHandler) Export(w http.ResponseWriter, r *http.Request) {
	var (
		buf      bytes.Buffer
		filename string
	)
	switch table := r.URL.Query().Get("table"); table {
	case "", "orders":
		orders, err := h.uc.ExportOrders(r.Context())
		if err != nil {
			writeUsecaseError(w, h.log, err)
			return
		}
		if err := csvstore.WriteOrders(&buf, orders); err != nil {
			writeUsecaseError(w, h.log, err)
			return
		}
		filename = "orders.csv"
	case "payments":
		payments, err := h.uc.ListAllPayments(r.Context())
		if err != nil {
			writeUsecaseError(w, h.log, err)
			return
		}
		if err := csvstore.WritePayments(&buf, payments); err != nil {
			writeUsecaseError(w, h.log, err)
			return
		}
		filename = "payments.csv"
	default:
		writeUsecaseError(w, h.log, fmt.Errorf("%w: unknown table %q", errBadRequest, table))
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Import restores a CSV snapshot. The order table comes either as the raw
// body or as the "file" part of a multipart form; the payment log as the
// optional "payments" part. A file that cannot be read as a table is
// answered with 200, nothing imported and a notice.
func (h *LedgerHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var (
		orders   []*domain.Order
		payments []*domain.Payment
		notices  []string
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeUsecaseError(w, h.log, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		ordersFile, _, ordersErr := r.FormFile("file")
		paymentsFile, _, paymentsErr := r.FormFile("payments")
		if ordersErr != nil && paymentsErr != nil {
			writeUsecaseError(w, h.log, fmt.Errorf("%w: expected a \"file\" or \"payments\" part", errBadRequest))
			return
		}
		if ordersErr == nil {
			defer ordersFile.Close()
			got, n, err := csvstore.ReadOrders(ordersFile)
			if err != nil {
				writeUsecaseError(w, h.log, fmt.Errorf("%w: %v", errBadRequest, err))
				return
			}
			orders, notices = got, append(notices, tabular.NoticeStrings(n)...)
		}
		if paymentsErr == nil {
			defer paymentsFile.Close()
			got, n, err := csvstore.ReadPayments(paymentsFile)
			if err != nil {
				writeUsecaseError(w, h.log, fmt.Errorf("%w: %v", errBadRequest, err))
				return
			}
			payments = got
			for _, notice := range tabular.NoticeStrings(n) {
				notices = append(notices, "payments: "+notice)
			}
		}
	} else {
		got, n, err := csvstore.ReadOrders(r.Body)
		if err != nil {
			writeUsecaseError(w, h.log, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		orders, notices = got, tabular.NoticeStrings(n)
	}

	resp := response.ImportResponse{
		Skipped: []string{},
		Notices: notices,
	}
	if resp.Notices == nil {
		resp.Notices = []string{}
	}
	if len(orders) == 0 && len(payments) == 0 {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	result, err := h.uc.ImportSnapshot(r.Context(), orders, payments)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	resp.Imported = result.Imported
	resp.PaymentsImported = result.PaymentsImported
	resp.PaymentsExisting = result.PaymentsExisting
	resp.OpeningBalances = result.OpeningBalances
	if result.Skipped != nil {
		resp.Skipped = result.Skipped
	}
	writeJSON(w, http.StatusOK, resp)
}
