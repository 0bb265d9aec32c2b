package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/LavaJover/shvark-procurement-service/internal/delivery/http/dto/order/response"
	"github.com/LavaJover/shvark-procurement-service/internal/usecase/analytics"
)

type VoucherAggregator interface {
	Aggregate(headersDoc, linesDoc []byte) (*analytics.VoucherReport, error)
}

type AnalyticsHandler struct {
	uc  VoucherAggregator
	log *slog.Logger
}

func NewAnalyticsHandler(uc VoucherAggregator) *AnalyticsHandler {
	return &AnalyticsHandler{
		uc:  uc,
		log: slog.Default().With("component", "http-analytics"),
	}
}

// Vouchers expects a multipart form with "headers" and "lines" JSON files.
func (h *AnalyticsHandler) Vouchers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeUsecaseError(w, h.log, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	headersDoc, err := readFormFile(r, "headers")
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	linesDoc, err := readFormFile(r, "lines")
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}

	report, err := h.uc.Aggregate(headersDoc, linesDoc)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoucherReportResponse(report))
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("%w: missing %q upload", errBadRequest, field)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: read %q upload: %v", errBadRequest, field, err)
	}
	return data, nil
}

func toVoucherReportResponse(report *analytics.VoucherReport) response.VoucherReportResponse {
	resp := response.VoucherReportResponse{
		Items:          make([]response.ItemTotalResponse, len(report.Items)),
		Suppliers:      make([]response.SupplierTotalResponse, len(report.Suppliers)),
		PurchaseTotal:  report.PurchaseTotal,
		ReturnTotal:    report.ReturnTotal,
		NetTotal:       report.NetTotal,
		Headers:        report.Headers,
		Lines:          report.Lines,
		IgnoredLines:   report.IgnoredLines,
		UnmatchedLines: report.UnmatchedLines,
	}
	for i, it := range report.Items {
		resp.Items[i] = response.ItemTotalResponse{Item: it.Item, Quantity: it.Quantity, Amount: it.Amount}
	}
	for i, st := range report.Suppliers {
		resp.Suppliers[i] = response.SupplierTotalResponse{Supplier: st.Supplier, Purchases: st.Purchases, Returns: st.Returns, Net: st.Net}
	}
	return resp
}
