package book

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

// readTable reads a CSV file whose first row is header. A file with no rows at
// all is empty, not an error.
func readTable[T any](r io.Reader, header []string, unmarshal func([]string) (T, error)) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if strings.TrimPrefix(records[0][0], "\ufeff") != header[0] {
		return nil, fmt.Errorf("row 1: expected header starting with %q, got %q", header[0], records[0][0])
	}

	out := make([]T, 0, len(records)-1)
	for i, rec := range records[1:] {
		v, err := unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func writeTable[T any](w io.Writer, header []string, rows []T, marshal func(T) []string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(marshal(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseAmount(field, s string, scale int) (money.Money, error) {
	if s == "" {
		return money.New(0, scale), nil
	}
	m, err := money.Parse(s, scale)
	if err != nil {
		return money.Money{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return m, nil
}

// formatAmount leaves zero amounts blank, the way bookkeepers fill debit/credit columns.
func formatAmount(m money.Money) string {
	if m.IsZero() {
		return ""
	}
	return m.String()
}

func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return t, nil
}

// parseRequiredDate is parseDate for columns that may not be blank.
func parseRequiredDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	return parseDate(field, s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateFormat)
}

func parseBool(field, s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return b, nil
}
