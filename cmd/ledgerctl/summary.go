package main

import (
	"fmt"

	"github.com/LavaJover/shvark-procurement-service/internal/report"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show totals, incoming shipments and outstanding balances",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLedger()
		if err != nil {
			return err
		}
		defer l.Close()

		dash, err := l.uc.GetDashboard(cmd.Context())
		if err != nil {
			return err
		}
		md := report.SummaryMarkdown(dash.Summary, dash.Incoming, dash.Outstanding, l.cfg.Ledger.Currency)
		return printMarkdown(cmd, md)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	rootCmd.PersistentFlags().String("style", "", `glamour style ("dark", "light", "notty"); "raw" prints plain Markdown`)
}

func printMarkdown(cmd *cobra.Command, md string) error {
	style, _ := cmd.Flags().GetString("style")
	if style == "raw" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}
	out, err := report.Render(md, style)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
