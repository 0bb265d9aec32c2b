// Package sheets keeps the order and payment tables in a Google spreadsheet.
// Reads return the whole sheet and writes replace it.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/LavaJover/shvark-procurement-service/internal/config"
	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/tabular"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	OrdersSheet   = "Orders"
	PaymentsSheet = "Payments"
)

var (
	spreadsheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	bareIDPattern         = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)
)

type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	log           *slog.Logger
}

// NewStore authenticates with a service account. The key comes from
// cfg.CredentialsFile, or from GOOGLE_CREDENTIALS holding the JSON itself.
func NewStore(ctx context.Context, cfg config.Sheets) (*Store, error) {
	const op = "sheets.NewStore"

	spreadsheetID, err := ExtractSpreadsheetID(cfg.SpreadsheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var creds []byte
	switch {
	case cfg.CredentialsFile != "":
		creds, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: read credentials: %w", op, err)
		}
	case os.Getenv("GOOGLE_CREDENTIALS") != "":
		creds = []byte(os.Getenv("GOOGLE_CREDENTIALS"))
	default:
		return nil, fmt.Errorf("%s: no service account credentials configured", op)
	}

	jwt, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: parse credentials: %w", op, err)
	}
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%s: create service: %w", op, err)
	}
	return NewStoreWithService(svc, spreadsheetID), nil
}

func NewStoreWithService(svc *sheets.Service, spreadsheetID string) *Store {
	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		log:           slog.Default().With("component", "sheets", "spreadsheet_id", spreadsheetID),
	}
}

// ExtractSpreadsheetID accepts either a full sheet URL or a bare id.
func ExtractSpreadsheetID(url string) (string, error) {
	if m := spreadsheetURLPattern.FindStringSubmatch(url); len(m) == 2 {
		return m[1], nil
	}
	if bareIDPattern.MatchString(url) {
		return url, nil
	}
	return "", fmt.Errorf("invalid Google Sheets URL %q", url)
}

func (s *Store) PushOrders(ctx context.Context, orders []*domain.Order) error {
	return s.replaceSheet(ctx, OrdersSheet, tabular.EncodeOrders(orders))
}

func (s *Store) PushPayments(ctx context.Context, payments []*domain.Payment) error {
	return s.replaceSheet(ctx, PaymentsSheet, tabular.EncodePayments(payments))
}

// PullOrders reads the Orders sheet through the same codec as CSV snapshots.
func (s *Store) PullOrders(ctx context.Context) ([]*domain.Order, []tabular.Notice, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, OrdersSheet).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s sheet: %w", OrdersSheet, err)
	}
	orders, notices := tabular.DecodeOrders(valuesToRows(resp.Values))
	s.log.Info("orders pulled", "rows", len(orders), "notices", len(notices))
	return orders, notices, nil
}

// PullPayments reads the Payments sheet back into log entries.
func (s *Store) PullPayments(ctx context.Context) ([]*domain.Payment, []tabular.Notice, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, PaymentsSheet).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s sheet: %w", PaymentsSheet, err)
	}
	payments, notices := tabular.DecodePayments(valuesToRows(resp.Values))
	s.log.Info("payments pulled", "rows", len(payments), "notices", len(notices))
	return payments, notices, nil
}

func (s *Store) replaceSheet(ctx context.Context, sheetName string, rows [][]string) error {
	if err := s.ensureSheet(ctx, sheetName); err != nil {
		return err
	}

	_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, sheetName, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear %s sheet: %w", sheetName, err)
	}

	_, err = s.svc.Spreadsheets.Values.Update(
		s.spreadsheetID,
		sheetName+"!A1",
		&sheets.ValueRange{Values: rowsToValues(rows)},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write %s sheet: %w", sheetName, err)
	}

	s.log.Info("sheet replaced", "sheet", sheetName, "rows", len(rows)-1)
	return nil
}

func (s *Store) ensureSheet(ctx context.Context, sheetName string) error {
	spreadsheet, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			return nil
		}
	}

	s.log.Info("creating sheet", "sheet", sheetName)
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: sheetName}},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("create %s sheet: %w", sheetName, err)
	}
	return nil
}

func rowsToValues(rows [][]string) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	return values
}

func valuesToRows(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				rows[i][j] = fmt.Sprint(cell)
			}
		}
	}
	return rows
}
