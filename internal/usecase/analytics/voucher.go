package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Field names read from each extracted record.
const (
	fieldTxnID       = "txn_id"
	fieldVoucherType = "voucher_type"
	fieldSupplier    = "supplier"
	fieldItem        = "item"
	fieldQty         = "qty"
	fieldAmount      = "amount"
)

type ItemTotal struct {
	Item     string
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

type SupplierTotal struct {
	Supplier  string
	Purchases decimal.Decimal
	Returns   decimal.Decimal
	Net       decimal.Decimal
}

type VoucherReport struct {
	Items     []ItemTotal
	Suppliers []SupplierTotal

	PurchaseTotal decimal.Decimal
	ReturnTotal   decimal.Decimal // negative
	NetTotal      decimal.Decimal

	Headers        int
	Lines          int
	IgnoredLines   int
	UnmatchedLines int
}

type VoucherUsecase struct {
	Classifier  domain.VoucherClassifier
	HeadersPath string
	LinesPath   string
	Logger      *slog.Logger
}

func NewVoucherUsecase(classifier domain.VoucherClassifier, headersPath, linesPath string) *VoucherUsecase {
	return &VoucherUsecase{
		Classifier:  classifier,
		HeadersPath: headersPath,
		LinesPath:   linesPath,
		Logger:      slog.Default().With("component", "voucher-analytics"),
	}
}

type header struct {
	class    domain.VoucherClass
	supplier string
}

// Aggregate joins invoice lines to their headers on txn_id, keeps purchase
// and return vouchers, negates returns and totals the result per item and
// per supplier. Lines whose header is missing are counted, not fatal.
func (uc *VoucherUsecase) Aggregate(headersDoc, linesDoc []byte) (*VoucherReport, error) {
	headerRecords, err := extract(headersDoc, uc.HeadersPath)
	if err != nil {
		return nil, fmt.Errorf("headers: %w", err)
	}
	lineRecords, err := extract(linesDoc, uc.LinesPath)
	if err != nil {
		return nil, fmt.Errorf("lines: %w", err)
	}

	headers := make(map[string]header, len(headerRecords))
	for _, rec := range headerRecords {
		id := text(rec[fieldTxnID])
		if id == "" {
			continue
		}
		headers[id] = header{
			class:    uc.Classifier.Classify(text(rec[fieldVoucherType])),
			supplier: text(rec[fieldSupplier]),
		}
	}

	report := &VoucherReport{
		PurchaseTotal: decimal.Zero,
		ReturnTotal:   decimal.Zero,
		NetTotal:      decimal.Zero,
		Headers:       len(headers),
		Lines:         len(lineRecords),
	}
	items := map[string]*ItemTotal{}
	suppliers := map[string]*SupplierTotal{}

	for _, rec := range lineRecords {
		h, ok := headers[text(rec[fieldTxnID])]
		if !ok {
			report.UnmatchedLines++
			continue
		}
		if h.class == domain.VoucherIgnored {
			report.IgnoredLines++
			continue
		}

		sign := decimal.NewFromInt(h.class.Sign())
		qty := number(rec[fieldQty]).Mul(sign)
		amount := number(rec[fieldAmount]).Mul(sign)

		name := text(rec[fieldItem])
		it, ok := items[name]
		if !ok {
			it = &ItemTotal{Item: name, Quantity: decimal.Zero, Amount: decimal.Zero}
			items[name] = it
		}
		it.Quantity = it.Quantity.Add(qty)
		it.Amount = it.Amount.Add(amount)

		st, ok := suppliers[h.supplier]
		if !ok {
			st = &SupplierTotal{Supplier: h.supplier, Purchases: decimal.Zero, Returns: decimal.Zero, Net: decimal.Zero}
			suppliers[h.supplier] = st
		}
		if h.class == domain.VoucherReturn {
			st.Returns = st.Returns.Add(amount)
			report.ReturnTotal = report.ReturnTotal.Add(amount)
		} else {
			st.Purchases = st.Purchases.Add(amount)
			report.PurchaseTotal = report.PurchaseTotal.Add(amount)
		}
		st.Net = st.Net.Add(amount)
		report.NetTotal = report.NetTotal.Add(amount)
	}

	for _, it := range items {
		report.Items = append(report.Items, *it)
	}
	sort.Slice(report.Items, func(i, j int) bool {
		if c := report.Items[i].Amount.Cmp(report.Items[j].Amount); c != 0 {
			return c > 0
		}
		return report.Items[i].Item < report.Items[j].Item
	})
	for _, st := range suppliers {
		report.Suppliers = append(report.Suppliers, *st)
	}
	sort.Slice(report.Suppliers, func(i, j int) bool {
		return report.Suppliers[i].Supplier < report.Suppliers[j].Supplier
	})

	if report.UnmatchedLines > 0 {
		uc.Logger.Warn("lines without a matching header", "count", report.UnmatchedLines)
	}
	return report, nil
}

// extract decodes doc and returns the objects selected by path.
func extract(doc []byte, path string) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	selected, err := jsonpath.Get(path, root)
	if err != nil {
		return nil, fmt.Errorf("%w: path %q: %v", domain.ErrInvalidDocument, path, err)
	}

	var list []any
	switch v := selected.(type) {
	case []any:
		list = v
	case map[string]any:
		list = []any{v}
	default:
		return nil, fmt.Errorf("%w: path %q selects no records", domain.ErrInvalidDocument, path)
	}

	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if rec, ok := item.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// number reads a JSON number or numeric string; anything else counts as 0.
func number(v any) decimal.Decimal {
	var raw string
	switch t := v.(type) {
	case json.Number:
		raw = t.String()
	case string:
		raw = strings.ReplaceAll(strings.TrimSpace(t), ",", "")
	case float64:
		return decimal.NewFromFloat(t)
	default:
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
