package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/delivery/http/dto/order/response"
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"success":false,"error":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response.ErrorResponse{Success: false, Error: msg})
}

// writeUsecaseError maps domain errors to status codes. Anything unknown is
// a 500 with a generic message; the cause only goes to the log.
func writeUsecaseError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrVersionConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrOverpayment), errors.Is(err, domain.ErrTotalBelowPaid):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrNegativePayment),
		errors.Is(err, domain.ErrInvalidDocument),
		errors.Is(err, errBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error, changes were not saved")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func pathOrderID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid order id %q", errBadRequest, r.PathValue("id"))
	}
	return id, nil
}

func parseStatus(raw *string) (*domain.OrderStatus, error) {
	if raw == nil {
		return nil, nil
	}
	s, err := domain.ParseStatus(*raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", *raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", errBadRequest, *raw)
	}
	return &t, nil
}
