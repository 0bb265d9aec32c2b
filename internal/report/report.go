// Package report renders ledger views as Markdown for terminal output.
package report

import (
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/usecase/analytics"
	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in the currency's own notation. Codes unknown
// to go-money fall back to two decimals followed by the code.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

// SummaryMarkdown renders the dashboard: totals, status counts, shipments
// on the way and orders with an open balance.
func SummaryMarkdown(s domain.Summary, incoming, outstanding []*domain.Order, currency string) string {
	var b strings.Builder
	b.WriteString("# Procurement ledger\n\n")
	b.WriteString("| Orders | Commitment | Paid | Remaining | Progress |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %s | %s | %s | %s%% |\n\n",
		s.Orders,
		FormatMoney(s.TotalCommitment, currency),
		FormatMoney(s.TotalPaid, currency),
		FormatMoney(s.TotalRemaining, currency),
		s.ProgressPct.StringFixed(1),
	)

	b.WriteString("## By status\n\n| Status | Orders |\n|---|---:|\n")
	for _, st := range domain.Statuses {
		if n := s.ByStatus[st]; n > 0 {
			fmt.Fprintf(&b, "| %s | %d |\n", st, n)
		}
	}

	b.WriteString("\n## Incoming shipments\n\n")
	if len(incoming) == 0 {
		b.WriteString("_None._\n")
	} else {
		b.WriteString("| # | Order | Supplier | Status | Expected arrival |\n|---:|---|---|---|---|\n")
		for _, o := range incoming {
			arrival := "-"
			if o.Milestones.ArrivalExpected != nil {
				arrival = o.Milestones.ArrivalExpected.Format("2006-01-02")
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", o.ID, cell(o.Name), cell(o.Supplier), o.Status, arrival)
		}
	}

	b.WriteString("\n## Outstanding balances\n\n")
	if len(outstanding) == 0 {
		b.WriteString("_All orders are settled._\n")
	} else {
		b.WriteString("| # | Order | Total | Paid | Remaining |\n|---:|---|---:|---:|---:|\n")
		for _, o := range outstanding {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n", o.ID, cell(o.Name),
				FormatMoney(o.TotalCost, currency),
				FormatMoney(o.Paid, currency),
				FormatMoney(o.Remaining, currency),
			)
		}
	}
	return b.String()
}

func VouchersMarkdown(r *analytics.VoucherReport, currency string) string {
	var b strings.Builder
	b.WriteString("# Voucher analysis\n\n")
	fmt.Fprintf(&b, "Purchases **%s**, returns **%s**, net **%s**.\n\n",
		FormatMoney(r.PurchaseTotal, currency),
		FormatMoney(r.ReturnTotal, currency),
		FormatMoney(r.NetTotal, currency),
	)
	fmt.Fprintf(&b, "%d headers, %d lines (%d ignored, %d without header).\n\n",
		r.Headers, r.Lines, r.IgnoredLines, r.UnmatchedLines)

	b.WriteString("## Items\n\n| Item | Qty | Amount |\n|---|---:|---:|\n")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(it.Item), it.Quantity.String(), FormatMoney(it.Amount, currency))
	}
	b.WriteString("\n## Suppliers\n\n| Supplier | Purchases | Returns | Net |\n|---|---:|---:|---:|\n")
	for _, st := range r.Suppliers {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(st.Supplier),
			FormatMoney(st.Purchases, currency),
			FormatMoney(st.Returns, currency),
			FormatMoney(st.Net, currency),
		)
	}
	return b.String()
}

// Render turns Markdown into styled terminal text. style is a glamour
// standard style name such as "dark", "light" or "notty"; empty picks one
// from the terminal.
func Render(markdown, style string) (string, error) {
	opt := glamour.WithAutoStyle()
	if style != "" {
		opt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(120))
	if err != nil {
		return "", fmt.Errorf("init renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
