// Package reconcile compares each fund account's cash journal with the approved
// voucher ledger of the subject it maps to, and explains any difference by the
// entries present on only one side.
package reconcile

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/balance"
	"github.com/cleared-dev/tally/internal/fund"
	"github.com/cleared-dev/tally/internal/hierarchy"
	"github.com/cleared-dev/tally/internal/model"
)

// Mapping pairs a fund account with a ledger subject. An empty AuxiliaryKey
// matches every line on the subject.
type Mapping struct {
	FundAccount  model.FundAccount
	SubjectCode  string
	AuxiliaryKey string
}

// Key identifies the mapping in report rows.
func (m Mapping) Key() string {
	k := m.FundAccount.ID + ":" + m.SubjectCode
	if m.AuxiliaryKey != "" {
		k += "/" + m.AuxiliaryKey
	}
	return k
}

func (m Mapping) filter() balance.Filter {
	if m.AuxiliaryKey != "" {
		return balance.Filter{Mode: balance.SubjectAuxiliary, Key: m.SubjectCode, AuxiliaryKey: m.AuxiliaryKey}
	}
	return balance.Filter{Mode: balance.SubjectOnly, Key: m.SubjectCode}
}

// MappingsFromAccounts maps every fund account to its related subject, in input order.
// Accounts without a related subject are skipped.
func MappingsFromAccounts(accounts []model.FundAccount) []Mapping {
	out := make([]Mapping, 0, len(accounts))
	for _, a := range accounts {
		if a.SubjectCode == "" {
			continue
		}
		out = append(out, Mapping{FundAccount: a, SubjectCode: a.SubjectCode, AuxiliaryKey: a.AuxiliaryKey})
	}
	return out
}

// Input is everything a reconciliation reads. Approved must hold approved
// vouchers only.
type Input struct {
	Mappings        []Mapping
	Journal         []model.JournalEntry
	Approved        []model.Voucher
	Tree            *hierarchy.Tree
	InitialBalances *model.InitialBalances
}

// Reconcile returns one row per mapping in mapping order, including rows whose
// diff is zero.
func Reconcile(in Input, rng model.DateRange) ([]model.ReconciliationRow, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	p, err := Prepare(in)
	if err != nil {
		return nil, err
	}
	rows := make([]model.ReconciliationRow, 0, len(in.Mappings))
	for _, m := range in.Mappings {
		row, err := p.ReconcileOne(m, rng)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReconcileOne reconciles a single mapping.
func ReconcileOne(m Mapping, in Input, rng model.DateRange) (model.ReconciliationRow, error) {
	p, err := Prepare(in)
	if err != nil {
		return model.ReconciliationRow{}, err
	}
	return p.ReconcileOne(m, rng)
}

// Prepared is an Input whose approved vouchers have been flattened into
// movements once. Callers reconciling mappings one at a time share it; it is
// read-only and safe for concurrent use.
type Prepared struct {
	in        Input
	movements []model.Movement
}

// Prepare flattens in.Approved. It fails with ErrUnapprovedVoucher if any of
// them is not approved.
func Prepare(in Input) (*Prepared, error) {
	movs, err := balance.FromVouchers(in.Approved)
	if err != nil {
		return nil, err
	}
	return &Prepared{in: in, movements: movs}, nil
}

// ReconcileOne reconciles m against the prepared input.
func (p *Prepared) ReconcileOne(m Mapping, rng model.DateRange) (model.ReconciliationRow, error) {
	if err := rng.Validate(); err != nil {
		return model.ReconciliationRow{}, err
	}
	return reconcileOne(m, p.in, p.movements, rng)
}

func reconcileOne(m Mapping, in Input, movs []model.Movement, rng model.DateRange) (model.ReconciliationRow, error) {
	if m.FundAccount.ID == "" {
		return model.ReconciliationRow{}, fmt.Errorf("%w: mapping to %s has no fund account", model.ErrUnknownFundAccount, m.SubjectCode)
	}
	if in.Tree == nil {
		return model.ReconciliationRow{}, fmt.Errorf("%w: no chart of accounts", model.ErrUnknownSubjectReference)
	}
	subject, err := in.Tree.Subject(m.SubjectCode)
	if err != nil {
		return model.ReconciliationRow{}, fmt.Errorf("mapping %s: %w", m.Key(), err)
	}

	js, err := fund.SummarizeAccount(m.FundAccount, in.Journal, rng)
	if err != nil {
		return model.ReconciliationRow{}, err
	}

	seed := in.InitialBalances.For(m.SubjectCode, m.AuxiliaryKey)
	lb, err := balance.Compute(balance.Select(movs, m.filter()), subject.Direction, seed.OpeningBalance, rng)
	if err != nil {
		return model.ReconciliationRow{}, fmt.Errorf("mapping %s: %w", m.Key(), err)
	}

	return model.ReconciliationRow{
		Key:           m.Key(),
		FundAccountID: m.FundAccount.ID,
		SubjectCode:   m.SubjectCode,
		AuxiliaryKey:  m.AuxiliaryKey,
		Journal: model.JournalSide{
			Opening:   js.Opening,
			PeriodIn:  js.Income,
			PeriodOut: js.Expense,
			Closing:   js.Closing,
		},
		Ledger: model.LedgerSide{
			Opening:      lb.Opening,
			PeriodDebit:  lb.DebitTotal,
			PeriodCredit: lb.CreditTotal,
			Closing:      lb.Closing,
		},
		Diff: js.Closing.Sub(lb.Closing),
	}, nil
}
