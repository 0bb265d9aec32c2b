// Package tabular converts orders and payments to and from flat rows. The CSV
// snapshot and the spreadsheet store share it so both speak the same columns.
package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var OrderColumns = []string{
	"id", "name", "supplier", "amount", "currency", "exchange_rate",
	"goods_cost", "fee", "total_cost", "paid", "remaining", "status",
	"deposit_pct", "shipping_pct", "arrival_pct",
	"confirmed_at", "shipment_expected", "shipped_at", "arrival_expected", "arrived_at",
	"notes",
}

var PaymentColumns = []string{"id", "order_id", "date", "amount", "memo", "receipt_url"}

// Required columns must be present for a table to be read at all.
var (
	requiredOrderColumns   = []string{"id", "name", "amount", "exchange_rate"}
	requiredPaymentColumns = []string{"order_id", "amount"}
)

// Notice is a non-fatal problem found while decoding. Row is 1-based and
// counts the header, so it matches what a spreadsheet shows.
type Notice struct {
	Row     int
	Column  string
	Message string
}

func (n Notice) String() string {
	switch {
	case n.Row == 0:
		return n.Message
	case n.Column == "":
		return fmt.Sprintf("row %d: %s", n.Row, n.Message)
	default:
		return fmt.Sprintf("row %d, %s: %s", n.Row, n.Column, n.Message)
	}
}

func NoticeStrings(notices []Notice) []string {
	out := make([]string, len(notices))
	for i, n := range notices {
		out[i] = n.String()
	}
	return out
}

func EncodeOrder(o *domain.Order) []string {
	m := o.Milestones
	return []string{
		strconv.FormatUint(o.ID, 10),
		o.Name,
		o.Supplier,
		o.Amount.String(),
		o.Currency,
		o.ExchangeRate.String(),
		o.GoodsCost.String(),
		o.Fee.String(),
		o.TotalCost.String(),
		o.Paid.String(),
		o.Remaining.String(),
		string(o.Status),
		o.Plan.DepositPct.String(),
		o.Plan.ShippingPct.String(),
		o.Plan.ArrivalPct.String(),
		formatDate(m.ConfirmedAt),
		formatDate(m.ShipmentExpected),
		formatDate(m.ShippedAt),
		formatDate(m.ArrivalExpected),
		formatDate(m.ArrivedAt),
		o.Notes,
	}
}

// EncodeOrders returns the header followed by one row per order.
func EncodeOrders(orders []*domain.Order) [][]string {
	rows := make([][]string, 0, len(orders)+1)
	rows = append(rows, append([]string(nil), OrderColumns...))
	for _, o := range orders {
		rows = append(rows, EncodeOrder(o))
	}
	return rows
}

func EncodePayments(payments []*domain.Payment) [][]string {
	rows := make([][]string, 0, len(payments)+1)
	rows = append(rows, append([]string(nil), PaymentColumns...))
	for _, p := range payments {
		rows = append(rows, []string{
			p.ID,
			strconv.FormatUint(p.OrderID, 10),
			p.Date.Format(DateLayout),
			p.Amount.String(),
			p.Memo,
			p.ReceiptURL,
		})
	}
	return rows
}

// DecodeOrders reads a header row followed by order rows. Bad cells never
// fail the table: numbers fall back to zero, dates to nil and statuses to
// NOT_STARTED, each with a notice. A table without the required header
// columns decodes to no orders and a single notice.
func DecodeOrders(rows [][]string) ([]*domain.Order, []Notice) {
	if len(rows) == 0 {
		return nil, []Notice{{Message: "table is empty"}}
	}

	index, notice := checkHeader(rows[0], requiredOrderColumns)
	if notice != nil {
		return nil, []Notice{*notice}
	}

	var (
		orders  []*domain.Order
		notices []Notice
	)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		d := rowDecoder{row: row, index: index, line: i + 2}
		orders = append(orders, d.order())
		notices = append(notices, d.notices...)
	}
	return orders, notices
}

// DecodePayments reads a header row followed by payment log rows. A row
// without a usable order id is dropped with a notice. An empty id is kept
// empty so the importer can assign one; a missing date decodes as zero.
func DecodePayments(rows [][]string) ([]*domain.Payment, []Notice) {
	if len(rows) == 0 {
		return nil, []Notice{{Message: "table is empty"}}
	}
	index, notice := checkHeader(rows[0], requiredPaymentColumns)
	if notice != nil {
		return nil, []Notice{*notice}
	}

	var (
		payments []*domain.Payment
		notices  []Notice
	)
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		d := rowDecoder{row: row, index: index, line: i + 2}
		if p := d.payment(); p != nil {
			payments = append(payments, p)
		}
		notices = append(notices, d.notices...)
	}
	return payments, notices
}

func checkHeader(header []string, required []string) (map[string]int, *Notice) {
	index := headerIndex(header)
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &Notice{Message: "missing columns: " + strings.Join(missing, ", ")}
	}
	return index, nil
}

type rowDecoder struct {
	row     []string
	index   map[string]int
	line    int
	notices []Notice
}

func (d *rowDecoder) order() *domain.Order {
	o := &domain.Order{
		ID:           d.id("id"),
		Name:         d.cell("name"),
		Supplier:     d.cell("supplier"),
		Amount:       d.number("amount"),
		Currency:     d.cell("currency"),
		ExchangeRate: d.number("exchange_rate"),
		GoodsCost:    d.number("goods_cost"),
		Fee:          d.number("fee"),
		TotalCost:    d.number("total_cost"),
		Paid:         d.number("paid"),
		Remaining:    d.number("remaining"),
		Status:       d.status("status"),
		Notes:        d.cell("notes"),
		Milestones: domain.Milestones{
			ConfirmedAt:      d.date("confirmed_at"),
			ShipmentExpected: d.date("shipment_expected"),
			ShippedAt:        d.date("shipped_at"),
			ArrivalExpected:  d.date("arrival_expected"),
			ArrivedAt:        d.date("arrived_at"),
		},
	}

	if d.cell("deposit_pct") == "" && d.cell("shipping_pct") == "" && d.cell("arrival_pct") == "" {
		o.Plan = domain.DefaultPaymentPlan()
	} else {
		o.Plan = domain.PaymentPlan{
			DepositPct:  d.number("deposit_pct"),
			ShippingPct: d.number("shipping_pct"),
			ArrivalPct:  d.number("arrival_pct"),
		}
	}
	return o
}

func (d *rowDecoder) payment() *domain.Payment {
	raw := d.cell("order_id")
	orderID, ok := parseID(raw)
	if !ok || orderID == 0 {
		d.note("order_id", "invalid order id %q, row skipped", raw)
		return nil
	}
	p := &domain.Payment{
		ID:         d.cell("id"),
		OrderID:    orderID,
		Amount:     d.number("amount"),
		Memo:       d.cell("memo"),
		ReceiptURL: d.cell("receipt_url"),
	}
	if date := d.date("date"); date != nil {
		p.Date = *date
	}
	return p
}

func (d *rowDecoder) note(column, format string, args ...any) {
	d.notices = append(d.notices, Notice{Row: d.line, Column: column, Message: fmt.Sprintf(format, args...)})
}

func (d *rowDecoder) cell(column string) string {
	i, ok := d.index[column]
	if !ok || i >= len(d.row) {
		return ""
	}
	return strings.TrimSpace(d.row[i])
}

func (d *rowDecoder) id(column string) uint64 {
	raw := d.cell(column)
	if raw == "" {
		return 0
	}
	if id, ok := parseID(raw); ok {
		return id
	}
	d.note(column, "invalid id %q, a new one will be assigned", raw)
	return 0
}

func (d *rowDecoder) number(column string) decimal.Decimal {
	raw := d.cell(column)
	if raw == "" {
		return decimal.Zero
	}
	v, err := ParseDecimal(raw)
	if err != nil {
		d.note(column, "invalid number %q, using 0", raw)
		return decimal.Zero
	}
	return v
}

func (d *rowDecoder) date(column string) *time.Time {
	raw := d.cell(column)
	if raw == "" {
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		d.note(column, "invalid date %q, left empty", raw)
		return nil
	}
	return &t
}

func (d *rowDecoder) status(column string) domain.OrderStatus {
	raw := d.cell(column)
	if raw == "" {
		return domain.StatusNotStarted
	}
	s, err := domain.ParseStatus(raw)
	if err != nil {
		d.note(column, "unknown status %q, using %s", raw, domain.StatusNotStarted)
		return domain.StatusNotStarted
	}
	return s
}

// parseID accepts whole numbers, including the "7.0" spreadsheets hand back.
func parseID(raw string) (uint64, bool) {
	dec, err := decimal.NewFromString(raw)
	if err != nil || !dec.IsInteger() || dec.IsNegative() {
		return 0, false
	}
	return uint64(dec.IntPart()), true
}

// ParseDecimal accepts thousands separators and surrounding spaces.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	clean = strings.ReplaceAll(clean, " ", "")
	return decimal.NewFromString(clean)
}

// ParseDate accepts a plain date or a full RFC 3339 timestamp.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	return index
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
