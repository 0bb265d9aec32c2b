package main

import (
	"fmt"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/sheets"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/tabular"
	"github.com/spf13/cobra"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Sync the ledger with a Google spreadsheet",
	Long: `Sync the ledger with the spreadsheet in sheets.spreadsheet_url.

Authentication uses a service account key from sheets.credentials_file
(GOOGLE_APPLICATION_CREDENTIALS) or the inline JSON in GOOGLE_CREDENTIALS.
The spreadsheet must be shared with the service account.`,
}

var sheetsPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Replace the Orders and Payments sheets with the ledger contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLedger()
		if err != nil {
			return err
		}
		defer l.Close()

		store, err := sheets.NewStore(cmd.Context(), l.cfg.Sheets)
		if err != nil {
			return err
		}
		orders, err := l.uc.ExportOrders(cmd.Context())
		if err != nil {
			return err
		}
		payments, err := l.uc.ListAllPayments(cmd.Context())
		if err != nil {
			return err
		}
		if err := store.PushOrders(cmd.Context(), orders); err != nil {
			return err
		}
		if err := store.PushPayments(cmd.Context(), payments); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pushed %d orders and %d payments\n", len(orders), len(payments))
		return nil
	},
}

var sheetsPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Restore orders and the payment log from the spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := openLedger()
		if err != nil {
			return err
		}
		defer l.Close()

		store, err := sheets.NewStore(cmd.Context(), l.cfg.Sheets)
		if err != nil {
			return err
		}
		orders, orderNotices, err := store.PullOrders(cmd.Context())
		if err != nil {
			return err
		}
		var payments []*domain.Payment
		var paymentNotices []tabular.Notice
		if withPayments, _ := cmd.Flags().GetBool("payments"); withPayments {
			if payments, paymentNotices, err = store.PullPayments(cmd.Context()); err != nil {
				return err
			}
		}

		notices := tabular.NoticeStrings(orderNotices)
		for _, n := range tabular.NoticeStrings(paymentNotices) {
			notices = append(notices, "payments: "+n)
		}
		return restoreSnapshot(cmd, l, orders, payments, notices)
	},
}

func init() {
	rootCmd.AddCommand(sheetsCmd)
	sheetsCmd.AddCommand(sheetsPushCmd, sheetsPullCmd)

	sheetsPullCmd.Flags().Bool("payments", true, "also restore the Payments sheet")
}
