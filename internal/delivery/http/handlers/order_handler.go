package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/LavaJover/shvark-procurement-service/internal/delivery/http/dto/order/request"
	"github.com/LavaJover/shvark-procurement-service/internal/delivery/http/dto/order/response"
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-procurement-service/internal/usecase/dto/order"
	usecase "github.com/LavaJover/shvark-procurement-service/internal/usecase/order"
)

type OrderHandler struct {
	uc  usecase.OrderUsecase
	log *slog.Logger
}

func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{
		uc:  uc,
		log: slog.Default().With("component", "http-orders"),
	}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req request.CreateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}

	order, err := h.uc.CreateOrder(r.Context(), &orderdto.CreateOrderInput{
		Name:         req.Name,
		Supplier:     req.Supplier,
		Amount:       req.Amount,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		Plan:         toDomainPlan(req.Plan),
		Notes:        req.Notes,
	})
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.FromOrder(order))
}

// ListOrders accepts repeated ?status= and a ?supplier= filter.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var filter domain.OrderFilter
	for _, raw := range r.URL.Query()["status"] {
		for _, part := range strings.Split(raw, ",") {
			s, err := domain.ParseStatus(part)
			if err != nil {
				writeUsecaseError(w, h.log, err)
				return
			}
			filter.Statuses = append(filter.Statuses, s)
		}
	}
	filter.Supplier = r.URL.Query().Get("supplier")

	orders, err := h.uc.ListOrders(r.Context(), filter)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromOrders(orders))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathOrderID(r)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	order, err := h.uc.GetOrder(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromOrder(order))
}

func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathOrderID(r)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	var req request.UpdateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}

	input, err := toUpdateInput(&req)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	order, err := h.uc.UpdateOrder(r.Context(), id, input)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromOrder(order))
}

func (h *OrderHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathOrderID(r)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	var req request.StatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}

	order, err := h.uc.ChangeStatus(r.Context(), id, status)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromOrder(order))
}

func (h *OrderHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathOrderID(r)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	var req request.PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}

	input := &orderdto.PaymentInput{
		Amount:     req.Amount,
		Memo:       req.Memo,
		ReceiptURL: req.ReceiptURL,
	}
	if input.Status, err = parseStatus(req.Status); err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	date, err := parseDate(&req.Date)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	if date != nil {
		input.Date = *date
	}

	out, err := h.uc.ApplyPayment(r.Context(), id, input)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, response.ApplyPaymentResponse{
		Order:   response.FromOrder(out.Order),
		Payment: response.FromPayment(out.Payment),
	})
}

func (h *OrderHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	id, err := pathOrderID(r)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	payments, err := h.uc.ListPayments(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromPayments(payments))
}

func (h *OrderHandler) GetPaymentPlan(w http.ResponseWriter, r *http.Request) {
	id, err := pathOrderID(r)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	plan, err := h.uc.GetPaymentPlan(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, response.PaymentPlanResponse{
		OrderID:   plan.OrderID,
		TotalCost: plan.TotalCost,
		Plan:      response.FromPlan(plan.Plan),
		Deposit:   plan.Installments.Deposit,
		Shipping:  plan.Installments.Shipping,
		Arrival:   plan.Installments.Arrival,
		PlanSum:   plan.Installments.PlanSum,
		Balanced:  plan.Balanced,
	})
}

func (h *OrderHandler) ReconcilePaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathOrderID(r)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	order, err := h.uc.ReconcilePaid(r.Context(), id)
	if err != nil {
		writeUsecaseError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, response.FromOrder(order))
}

func toDomainPlan(p *request.PaymentPlan) *domain.PaymentPlan {
	if p == nil {
		return nil
	}
	return &domain.PaymentPlan{DepositPct: p.DepositPct, ShippingPct: p.ShippingPct, ArrivalPct: p.ArrivalPct}
}

func toUpdateInput(req *request.UpdateOrderRequest) (*orderdto.UpdateOrderInput, error) {
	input := &orderdto.UpdateOrderInput{
		Version:      req.Version,
		Name:         req.Name,
		Supplier:     req.Supplier,
		Amount:       req.Amount,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		Plan:         toDomainPlan(req.Plan),
		Notes:        req.Notes,
	}
	var err error
	if input.Status, err = parseStatus(req.Status); err != nil {
		return nil, err
	}
	if input.ShipmentExpected, err = parseDate(req.ShipmentExpected); err != nil {
		return nil, err
	}
	if input.ArrivalExpected, err = parseDate(req.ArrivalExpected); err != nil {
		return nil, err
	}
	return input, nil
}
