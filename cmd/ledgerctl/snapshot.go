package main

import (
	"fmt"
	"io"
	"os"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/csvstore"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/tabular"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a CSV snapshot of the order table (or the payment log)",
	Example: `  ledgerctl export --out orders.csv
  ledgerctl export --payments > payments.csv`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [ORDERS_FILE]",
	Short: "Restore orders and the payment log from CSV snapshots",
	Long: `Restore orders and the payment log from CSV snapshots. Order rows are
upserted by id and all derived columns are recomputed. Payments are appended
by id, entries already in the log are left alone. When a restored order's
paid column is not covered by its log, the difference is recorded as an
opening-balance payment.

Cells that cannot be read are reported and replaced by zero, an empty date
or NOT_STARTED.`,
	Example: `  ledgerctl import orders.csv --payments payments.csv
  ledgerctl import --payments payments.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringP("out", "o", "", "output file (default: stdout)")
	exportCmd.Flags().Bool("payments", false, "export the payment log instead of orders")
	importCmd.Flags().StringP("payments", "p", "", "payment log CSV to import")
}

func runExport(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	var out io.Writer = cmd.OutOrStdout()
	if path, _ := cmd.Flags().GetString("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	if payments, _ := cmd.Flags().GetBool("payments"); payments {
		list, err := l.uc.ListAllPayments(cmd.Context())
		if err != nil {
			return err
		}
		return csvstore.WritePayments(out, list)
	}

	orders, err := l.uc.ExportOrders(cmd.Context())
	if err != nil {
		return err
	}
	return csvstore.WriteOrders(out, orders)
}

func runImport(cmd *cobra.Command, args []string) error {
	paymentsPath, _ := cmd.Flags().GetString("payments")
	if len(args) == 0 && paymentsPath == "" {
		return fmt.Errorf("nothing to import: pass an orders file, --payments, or both")
	}

	var (
		orders   []*domain.Order
		payments []*domain.Payment
		notices  []string
	)
	if len(args) == 1 {
		got, n, err := readCSV(args[0], csvstore.ReadOrders)
		if err != nil {
			return err
		}
		orders, notices = got, append(notices, tabular.NoticeStrings(n)...)
	}
	if paymentsPath != "" {
		got, n, err := readCSV(paymentsPath, csvstore.ReadPayments)
		if err != nil {
			return err
		}
		payments = got
		for _, notice := range tabular.NoticeStrings(n) {
			notices = append(notices, "payments: "+notice)
		}
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer l.Close()

	return restoreSnapshot(cmd, l, orders, payments, notices)
}

func readCSV[T any](path string, read func(io.Reader) (T, []tabular.Notice, error)) (T, []tabular.Notice, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	defer f.Close()
	return read(f)
}

// restoreSnapshot is shared by CSV import and sheets pull.
func restoreSnapshot(cmd *cobra.Command, l *ledger, orders []*domain.Order, payments []*domain.Payment, notices []string) error {
	for _, n := range notices {
		fmt.Fprintln(cmd.ErrOrStderr(), "notice:", n)
	}
	if len(orders) == 0 && len(payments) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to import")
		return nil
	}

	result, err := l.uc.ImportSnapshot(cmd.Context(), orders, payments)
	if err != nil {
		return err
	}
	for _, s := range result.Skipped {
		fmt.Fprintln(cmd.ErrOrStderr(), "skipped:", s)
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"imported %d orders and %d payments (%d already in the log, %d opening balances), skipped %d\n",
		result.Imported, result.PaymentsImported, result.PaymentsExisting, result.OpeningBalances, len(result.Skipped))
	return nil
}
