package model

import (
	"time"

	"github.com/cleared-dev/tally/internal/money"
)

// VoucherStatus is the approval state of a voucher.
type VoucherStatus string

const (
	VoucherDraft    VoucherStatus = "draft"
	VoucherApproved VoucherStatus = "approved"
)

// Voucher is a double-entry journal voucher.
type Voucher struct {
	ID     string        `json:"id"`
	Code   string        `json:"code"`
	Date   time.Time     `json:"date"`
	Status VoucherStatus `json:"status"`
	Lines  []VoucherLine `json:"lines"`
}

// VoucherLine posts one debit or credit amount against one subject.
type VoucherLine struct {
	SubjectCode  string      `json:"subject_code"`
	AuxiliaryKey string      `json:"auxiliary_key,omitempty"`
	Debit        money.Money `json:"debit"`
	Credit       money.Money `json:"credit"`
	Summary      string      `json:"summary"`
}

// Totals returns the debit and credit sums over all lines.
func (v Voucher) Totals() (debit, credit money.Money) {
	debit, credit = money.Zero(), money.Zero()
	for _, l := range v.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Approved returns the approved vouchers in input order.
func Approved(vouchers []Voucher) []Voucher {
	var out []Voucher
	for _, v := range vouchers {
		if v.Status == VoucherApproved {
			out = append(out, v)
		}
	}
	return out
}

// VoucherIndex maps voucher codes to their status, across all statuses.
type VoucherIndex map[string]VoucherStatus

// IndexVouchers builds a VoucherIndex from every voucher in a book.
func IndexVouchers(vouchers []Voucher) VoucherIndex {
	idx := make(VoucherIndex, len(vouchers))
	for _, v := range vouchers {
		idx[v.Code] = v.Status
	}
	return idx
}
