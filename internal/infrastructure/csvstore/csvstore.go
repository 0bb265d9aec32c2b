// Package csvstore reads and writes CSV snapshots of the order table and the
// payment log. Files carry a UTF-8 byte order mark so spreadsheet tools keep
// Arabic and other non-Latin text intact.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/LavaJover/shvark-procurement-service/internal/infrastructure/tabular"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func WriteOrders(w io.Writer, orders []*domain.Order) error {
	return writeRows(w, tabular.EncodeOrders(orders))
}

func WritePayments(w io.Writer, payments []*domain.Payment) error {
	return writeRows(w, tabular.EncodePayments(payments))
}

func writeRows(w io.Writer, rows [][]string) error {
	encoded := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(encoded)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := encoded.Close(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadOrders decodes a snapshot written by WriteOrders or by a spreadsheet
// tool. A leading BOM is dropped, UTF-16 files with a BOM are converted.
// Malformed CSV is not an error: it yields no orders and a notice. The error
// return is reserved for failures of r itself.
func ReadOrders(r io.Reader) ([]*domain.Order, []tabular.Notice, error) {
	rows, notice, err := readRows(r)
	if err != nil || notice != nil {
		return nil, noticeList(notice), err
	}
	orders, notices := tabular.DecodeOrders(rows)
	return orders, notices, nil
}

// ReadPayments decodes a payment log written by WritePayments, with the same
// tolerance as ReadOrders.
func ReadPayments(r io.Reader) ([]*domain.Payment, []tabular.Notice, error) {
	rows, notice, err := readRows(r)
	if err != nil || notice != nil {
		return nil, noticeList(notice), err
	}
	payments, notices := tabular.DecodePayments(rows)
	return payments, notices, nil
}

func readRows(r io.Reader) ([][]string, *tabular.Notice, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, &tabular.Notice{Message: "malformed csv: " + parseErr.Error()}, nil
		}
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil, nil
}

func noticeList(n *tabular.Notice) []tabular.Notice {
	if n == nil {
		return nil
	}
	return []tabular.Notice{*n}
}
