package model

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/money"
)

// InitialBalance seeds a subject (or subject + auxiliary item) when a book is set up.
// YearToDate amounts cover the part of Year that precedes the book's first voucher.
type InitialBalance struct {
	SubjectCode      string      `json:"subject_code"`
	AuxiliaryKey     string      `json:"auxiliary_key,omitempty"`
	Year             int         `json:"year"`
	OpeningBalance   money.Money `json:"opening_balance"`
	YearToDateDebit  money.Money `json:"ytd_debit"`
	YearToDateCredit money.Money `json:"ytd_credit"`
}

type openingKey struct {
	subject string
	aux     string
}

// InitialBalances is a lookup over InitialBalance records.
type InitialBalances struct {
	byKey     map[openingKey]InitialBalance
	bySubject map[string][]InitialBalance
}

// NewInitialBalances indexes records. A repeated (subject, auxiliary) pair is a
// configuration error.
func NewInitialBalances(records []InitialBalance) (*InitialBalances, error) {
	ib := &InitialBalances{
		byKey:     make(map[openingKey]InitialBalance, len(records)),
		bySubject: make(map[string][]InitialBalance),
	}
	for _, r := range records {
		k := openingKey{r.SubjectCode, r.AuxiliaryKey}
		if _, dup := ib.byKey[k]; dup {
			return nil, fmt.Errorf("%w: duplicate initial balance for %s/%s", ErrInvalidSubjectConfiguration, r.SubjectCode, r.AuxiliaryKey)
		}
		ib.byKey[k] = r
		if r.AuxiliaryKey != "" {
			ib.bySubject[r.SubjectCode] = append(ib.bySubject[r.SubjectCode], r)
		}
	}
	return ib, nil
}

// For returns the seed for a subject, or for one of its auxiliary items when aux is set.
// A subject-level lookup prefers the subject's own record and otherwise sums its
// auxiliary records. Missing seeds are zero.
func (ib *InitialBalances) For(subject, aux string) InitialBalance {
	zero := InitialBalance{
		SubjectCode:      subject,
		AuxiliaryKey:     aux,
		OpeningBalance:   money.Zero(),
		YearToDateDebit:  money.Zero(),
		YearToDateCredit: money.Zero(),
	}
	if ib == nil {
		return zero
	}
	if r, ok := ib.byKey[openingKey{subject, aux}]; ok {
		return r
	}
	if aux != "" {
		return zero
	}
	sum := zero
	for _, r := range ib.bySubject[subject] {
		sum.Year = r.Year
		sum.OpeningBalance = sum.OpeningBalance.Add(r.OpeningBalance)
		sum.YearToDateDebit = sum.YearToDateDebit.Add(r.YearToDateDebit)
		sum.YearToDateCredit = sum.YearToDateCredit.Add(r.YearToDateCredit)
	}
	return sum
}
