package balance

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/hierarchy"
	"github.com/cleared-dev/tally/internal/model"
)

// FromVouchers flattens approved vouchers into movements keyed by subject code.
// Callers filter to approved vouchers; a draft reaching this point is a caller bug
// and fails with ErrUnapprovedVoucher.
func FromVouchers(vouchers []model.Voucher) ([]model.Movement, error) {
	var out []model.Movement
	for _, v := range vouchers {
		if v.Status != model.VoucherApproved {
			return nil, fmt.Errorf("%w: %s has status %q", model.ErrUnapprovedVoucher, v.Code, v.Status)
		}
		for _, l := range v.Lines {
			out = append(out, model.Movement{
				Date:         v.Date,
				Debit:        l.Debit,
				Credit:       l.Credit,
				Key:          l.SubjectCode,
				AuxiliaryKey: l.AuxiliaryKey,
				SourceRef:    v.Code,
				Summary:      l.Summary,
			})
		}
	}
	return out, nil
}

// FromJournal turns cash-journal entries into movements keyed by fund account ID,
// with income on the debit side and expense on the credit side.
func FromJournal(entries []model.JournalEntry) []model.Movement {
	out := make([]model.Movement, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.Movement{
			Date:      e.Date,
			Debit:     e.Income,
			Credit:    e.Expense,
			Key:       e.FundAccountID,
			SourceRef: e.ID,
			Summary:   e.Summary,
		})
	}
	return out
}

// Mode selects how a Filter matches movements.
type Mode int

const (
	// SubjectOnly matches every movement on the subject, whatever its auxiliary key.
	SubjectOnly Mode = iota
	// SubjectAuxiliary matches movements on the subject tagged with exactly AuxiliaryKey.
	SubjectAuxiliary
	// Subtree matches the subject and every subject whose code extends it.
	Subtree
)

func (m Mode) String() string {
	switch m {
	case SubjectOnly:
		return "subject"
	case SubjectAuxiliary:
		return "subject+auxiliary"
	case Subtree:
		return "subtree"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Filter restricts movements to one subject query.
type Filter struct {
	Mode         Mode
	Key          string
	AuxiliaryKey string
}

// Validate rejects filters whose mode and auxiliary key disagree.
func (f Filter) Validate() error {
	if f.Key == "" {
		return fmt.Errorf("%w: filter has no subject", model.ErrUnknownSubjectReference)
	}
	switch f.Mode {
	case SubjectOnly, Subtree:
		if f.AuxiliaryKey != "" {
			return fmt.Errorf("%w: %s filter cannot carry auxiliary key %q", model.ErrInvalidSubjectConfiguration, f.Mode, f.AuxiliaryKey)
		}
	case SubjectAuxiliary:
		if f.AuxiliaryKey == "" {
			return fmt.Errorf("%w: subject+auxiliary filter needs an auxiliary key", model.ErrInvalidSubjectConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown filter mode %d", model.ErrInvalidSubjectConfiguration, int(f.Mode))
	}
	return nil
}

// Match reports whether m is selected by f.
func (f Filter) Match(m model.Movement) bool {
	switch f.Mode {
	case SubjectOnly:
		return m.Key == f.Key
	case SubjectAuxiliary:
		return m.Key == f.Key && m.AuxiliaryKey == f.AuxiliaryKey
	case Subtree:
		return m.Key == f.Key || hierarchy.IsDescendantCode(m.Key, f.Key)
	default:
		return false
	}
}

// Select returns the movements matched by f, preserving input order.
func Select(movements []model.Movement, f Filter) []model.Movement {
	var out []model.Movement
	for _, m := range movements {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}
