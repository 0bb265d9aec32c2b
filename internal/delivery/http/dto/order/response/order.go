package response

import (
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type PaymentPlan struct {
	DepositPct  decimal.Decimal `json:"deposit_pct"`
	ShippingPct decimal.Decimal `json:"shipping_pct"`
	ArrivalPct  decimal.Decimal `json:"arrival_pct"`
}

type OrderResponse struct {
	ID               uint64          `json:"id"`
	Name             string          `json:"name"`
	Supplier         string          `json:"supplier"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	ExchangeRate     decimal.Decimal `json:"exchange_rate"`
	GoodsCost        decimal.Decimal `json:"goods_cost"`
	Fee              decimal.Decimal `json:"fee"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	Paid             decimal.Decimal `json:"paid"`
	Remaining        decimal.Decimal `json:"remaining"`
	Status           string          `json:"status"`
	Plan             PaymentPlan     `json:"plan"`
	ConfirmedAt      *time.Time      `json:"confirmed_at"`
	ShipmentExpected *time.Time      `json:"shipment_expected"`
	ShippedAt        *time.Time      `json:"shipped_at"`
	ArrivalExpected  *time.Time      `json:"arrival_expected"`
	ArrivedAt        *time.Time      `json:"arrived_at"`
	Notes            string          `json:"notes"`
	Version          int64           `json:"version"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type PaymentResponse struct {
	ID         string          `json:"id"`
	OrderID    uint64          `json:"order_id"`
	Date       time.Time       `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Memo       string          `json:"memo"`
	ReceiptURL string          `json:"receipt_url"`
}

type ApplyPaymentResponse struct {
	Order   OrderResponse   `json:"order"`
	Payment PaymentResponse `json:"payment"`
}

type PaymentPlanResponse struct {
	OrderID   uint64          `json:"order_id"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Plan      PaymentPlan     `json:"plan"`
	Deposit   decimal.Decimal `json:"deposit"`
	Shipping  decimal.Decimal `json:"shipping"`
	Arrival   decimal.Decimal `json:"arrival"`
	PlanSum   decimal.Decimal `json:"plan_sum"`
	Balanced  bool            `json:"balanced"`
}

type TimelineSegmentResponse struct {
	OrderID uint64    `json:"order_id"`
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Phase   string    `json:"phase"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

type SummaryResponse struct {
	Orders          int             `json:"orders"`
	TotalCommitment decimal.Decimal `json:"total_commitment"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	TotalRemaining  decimal.Decimal `json:"total_remaining"`
	ProgressPct     decimal.Decimal `json:"progress_pct"`
	ByStatus        map[string]int  `json:"by_status"`
	Incoming        []OrderResponse `json:"incoming"`
	Outstanding     []OrderResponse `json:"outstanding"`
}

type ImportResponse struct {
	Imported         int      `json:"imported"`
	PaymentsImported int      `json:"payments_imported"`
	PaymentsExisting int      `json:"payments_existing"`
	OpeningBalances  int      `json:"opening_balances"`
	Skipped          []string `json:"skipped"`
	Notices          []string `json:"notices"`
}

type ItemTotalResponse struct {
	Item     string          `json:"item"`
	Quantity decimal.Decimal `json:"qty"`
	Amount   decimal.Decimal `json:"amount"`
}

type SupplierTotalResponse struct {
	Supplier  string          `json:"supplier"`
	Purchases decimal.Decimal `json:"purchases"`
	Returns   decimal.Decimal `json:"returns"`
	Net       decimal.Decimal `json:"net"`
}

type VoucherReportResponse struct {
	Items          []ItemTotalResponse     `json:"items"`
	Suppliers      []SupplierTotalResponse `json:"suppliers"`
	PurchaseTotal  decimal.Decimal         `json:"purchase_total"`
	ReturnTotal    decimal.Decimal         `json:"return_total"`
	NetTotal       decimal.Decimal         `json:"net_total"`
	Headers        int                     `json:"headers"`
	Lines          int                     `json:"lines"`
	IgnoredLines   int                     `json:"ignored_lines"`
	UnmatchedLines int                     `json:"unmatched_lines"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func FromOrder(o *domain.Order) OrderResponse {
	m := o.Milestones
	return OrderResponse{
		ID:               o.ID,
		Name:             o.Name,
		Supplier:         o.Supplier,
		Amount:           o.Amount,
		Currency:         o.Currency,
		ExchangeRate:     o.ExchangeRate,
		GoodsCost:        o.GoodsCost,
		Fee:              o.Fee,
		TotalCost:        o.TotalCost,
		Paid:             o.Paid,
		Remaining:        o.Remaining,
		Status:           string(o.Status),
		Plan:             FromPlan(o.Plan),
		ConfirmedAt:      m.ConfirmedAt,
		ShipmentExpected: m.ShipmentExpected,
		ShippedAt:        m.ShippedAt,
		ArrivalExpected:  m.ArrivalExpected,
		ArrivedAt:        m.ArrivedAt,
		Notes:            o.Notes,
		Version:          o.Version,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func FromOrders(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = FromOrder(o)
	}
	return out
}

func FromPlan(p domain.PaymentPlan) PaymentPlan {
	return PaymentPlan{DepositPct: p.DepositPct, ShippingPct: p.ShippingPct, ArrivalPct: p.ArrivalPct}
}

func FromPayment(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		OrderID:    p.OrderID,
		Date:       p.Date,
		Amount:     p.Amount,
		Memo:       p.Memo,
		ReceiptURL: p.ReceiptURL,
	}
}

func FromPayments(payments []*domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		out[i] = FromPayment(p)
	}
	return out
}

func FromTimeline(segments []domain.TimelineSegment) []TimelineSegmentResponse {
	out := make([]TimelineSegmentResponse, len(segments))
	for i, s := range segments {
		out[i] = TimelineSegmentResponse{
			OrderID: s.OrderID,
			Name:    s.Name,
			Status:  string(s.Status),
			Phase:   string(s.Phase),
			Start:   s.Start,
			End:     s.End,
		}
	}
	return out
}
