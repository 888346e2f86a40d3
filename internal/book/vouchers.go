package book

import (
	"fmt"
	"io"

	"github.com/cleared-dev/tally/internal/model"
)

// vouchers.csv holds one row per voucher line. Consecutive rows with the same
// code form one voucher, in the order the lines appear.
var voucherHeader = []string{"voucher_id", "code", "date", "status", "subject_code", "auxiliary_key", "debit", "credit", "summary"}

const (
	colVoucherID = iota
	colVoucherCode
	colVoucherDate
	colVoucherStatus
	colLineSubject
	colLineAux
	colLineDebit
	colLineCredit
	colLineSummary
)

type voucherRow struct {
	voucher model.Voucher
	line    model.VoucherLine
}

// ReadVouchers reads vouchers.csv, parsing amounts at scale.
func ReadVouchers(r io.Reader, scale int) ([]model.Voucher, error) {
	rows, err := readTable(r, voucherHeader, func(rec []string) (voucherRow, error) {
		return unmarshalVoucherRow(rec, scale)
	})
	if err != nil {
		return nil, fmt.Errorf("reading vouchers: %w", err)
	}

	var out []model.Voucher
	for _, row := range rows {
		n := len(out)
		if n > 0 && out[n-1].Code == row.voucher.Code {
			cur := &out[n-1]
			if !cur.Date.Equal(row.voucher.Date) || cur.Status != row.voucher.Status {
				return nil, fmt.Errorf("voucher %s: lines disagree on date or status", cur.Code)
			}
			cur.Lines = append(cur.Lines, row.line)
			continue
		}
		v := row.voucher
		v.Lines = []model.VoucherLine{row.line}
		out = append(out, v)
	}
	return out, nil
}

// WriteVouchers writes vouchers.csv.
func WriteVouchers(w io.Writer, vouchers []model.Voucher) error {
	var rows []voucherRow
	for _, v := range vouchers {
		for _, l := range v.Lines {
			rows = append(rows, voucherRow{voucher: v, line: l})
		}
	}
	return writeTable(w, voucherHeader, rows, marshalVoucherRow)
}

func marshalVoucherRow(r voucherRow) []string {
	row := make([]string, len(voucherHeader))
	row[colVoucherID] = r.voucher.ID
	row[colVoucherCode] = r.voucher.Code
	row[colVoucherDate] = formatDate(r.voucher.Date)
	row[colVoucherStatus] = string(r.voucher.Status)
	row[colLineSubject] = r.line.SubjectCode
	row[colLineAux] = r.line.AuxiliaryKey
	row[colLineDebit] = formatAmount(r.line.Debit)
	row[colLineCredit] = formatAmount(r.line.Credit)
	row[colLineSummary] = r.line.Summary
	return row
}

func unmarshalVoucherRow(record []string, scale int) (voucherRow, error) {
	if record[colVoucherCode] == "" {
		return voucherRow{}, fmt.Errorf("voucher line has no code")
	}
	date, err := parseRequiredDate("date", record[colVoucherDate])
	if err != nil {
		return voucherRow{}, err
	}
	status := model.VoucherStatus(record[colVoucherStatus])
	if status != model.VoucherDraft && status != model.VoucherApproved {
		return voucherRow{}, fmt.Errorf("voucher %s: unknown status %q", record[colVoucherCode], status)
	}
	debit, err := parseAmount("debit", record[colLineDebit], scale)
	if err != nil {
		return voucherRow{}, err
	}
	credit, err := parseAmount("credit", record[colLineCredit], scale)
	if err != nil {
		return voucherRow{}, err
	}
	return voucherRow{
		voucher: model.Voucher{
			ID:     record[colVoucherID],
			Code:   record[colVoucherCode],
			Date:   date,
			Status: status,
		},
		line: model.VoucherLine{
			SubjectCode:  record[colLineSubject],
			AuxiliaryKey: record[colLineAux],
			Debit:        debit,
			Credit:       credit,
			Summary:      record[colLineSummary],
		},
	}, nil
}
