package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/LavaJover/shvark-procurement-service/internal/config"
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/report"
	"github.com/LavaJover/shvark-procurement-service/internal/usecase/analytics"
	"github.com/spf13/cobra"
)

var vouchersCmd = &cobra.Command{
	Use:   "vouchers",
	Short: "Aggregate purchase and return vouchers from two JSON exports",
	Example: `  ledgerctl vouchers --headers invoices.json --lines lines.json
  ledgerctl vouchers --headers invoices.json --lines lines.json --json`,
	RunE: runVouchers,
}

func init() {
	rootCmd.AddCommand(vouchersCmd)

	vouchersCmd.Flags().String("headers", "", "invoice headers document")
	vouchersCmd.Flags().String("lines", "", "invoice lines document")
	vouchersCmd.Flags().Bool("json", false, "print the report as JSON")
	_ = vouchersCmd.MarkFlagRequired("headers")
	_ = vouchersCmd.MarkFlagRequired("lines")
}

func runVouchers(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	headersPath, _ := cmd.Flags().GetString("headers")
	linesPath, _ := cmd.Flags().GetString("lines")
	headersDoc, err := os.ReadFile(headersPath)
	if err != nil {
		return fmt.Errorf("read headers: %w", err)
	}
	linesDoc, err := os.ReadFile(linesPath)
	if err != nil {
		return fmt.Errorf("read lines: %w", err)
	}

	uc := analytics.NewVoucherUsecase(
		domain.NewKeywordClassifier(cfg.Analytics.PurchaseKeywords, cfg.Analytics.ReturnKeywords),
		cfg.Analytics.HeadersPath,
		cfg.Analytics.LinesPath,
	)
	result, err := uc.Aggregate(headersDoc, linesDoc)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printMarkdown(cmd, report.VouchersMarkdown(result, cfg.Ledger.Currency))
}
