package reconcile

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/balance"
	"github.com/cleared-dev/tally/internal/fund"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

// Reason says why a journal entry has no counterpart in the ledger.
type Reason string

const (
	NoVoucher          Reason = "no_voucher"
	VoucherNotApproved Reason = "voucher_not_approved"
	VoucherMissing     Reason = "voucher_missing"
)

// Label is the status shown to bookkeepers.
func (r Reason) Label() string {
	switch r {
	case NoVoucher:
		return "未生成凭证"
	case VoucherNotApproved:
		return "凭证未审核"
	case VoucherMissing:
		return "凭证不存在"
	default:
		return string(r)
	}
}

// JournalItem is a journal entry with no approved voucher behind it.
type JournalItem struct {
	Entry  model.JournalEntry `json:"entry"`
	Reason Reason             `json:"reason"`
	Status string             `json:"status"`
}

// Details breaks a reconciliation row down by presence. Entries whose voucher
// code appears on both sides are left out even when their amounts differ;
// Unexplained carries whatever such mismatches add up to.
type Details struct {
	Row           model.ReconciliationRow `json:"row"`
	OnlyInJournal []JournalItem           `json:"only_in_journal"`
	OnlyInLedger  []model.Movement        `json:"only_in_ledger"`

	OpeningDiff money.Money `json:"opening_diff"` // journal opening - ledger opening
	JournalNet  money.Money `json:"journal_net"`  // period in - period out
	LedgerNet   money.Money `json:"ledger_net"`   // period movement in the subject's direction

	UnmatchedJournalNet money.Money `json:"unmatched_journal_net"`
	UnmatchedLedgerNet  money.Money `json:"unmatched_ledger_net"`
	Unexplained         money.Money `json:"unexplained"`
}

// DiffDetails reconciles m and lists the unmatched entries on each side within
// rng. index must cover every voucher in the book, drafts included, so that
// links to unapproved vouchers can be told apart from links to nothing.
func DiffDetails(m Mapping, in Input, index model.VoucherIndex, rng model.DateRange) (*Details, error) {
	p, err := Prepare(in)
	if err != nil {
		return nil, err
	}
	return p.DiffDetails(m, index, rng)
}

// DiffDetails is DiffDetails over the prepared input.
func (p *Prepared) DiffDetails(m Mapping, index model.VoucherIndex, rng model.DateRange) (*Details, error) {
	in, movs := p.in, p.movements
	row, err := p.ReconcileOne(m, rng)
	if err != nil {
		return nil, err
	}
	subject, err := in.Tree.Subject(m.SubjectCode)
	if err != nil {
		return nil, err
	}

	d := &Details{
		Row:                 row,
		OnlyInJournal:       []JournalItem{},
		OnlyInLedger:        []model.Movement{},
		OpeningDiff:         row.Journal.Opening.Sub(row.Ledger.Opening),
		JournalNet:          row.Journal.PeriodIn.Sub(row.Journal.PeriodOut),
		LedgerNet:           balance.Delta(subject.Direction, row.Ledger.PeriodDebit, row.Ledger.PeriodCredit),
		UnmatchedJournalNet: money.Zero(),
		UnmatchedLedgerNet:  money.Zero(),
	}

	linked := make(map[string]bool)
	for _, e := range in.Journal {
		if e.FundAccountID != m.FundAccount.ID {
			continue
		}
		if e.LinkedVoucherCode != "" {
			linked[e.LinkedVoucherCode] = true
		}
		if !rng.Contains(e.Date) || !fund.Tracked(m.FundAccount, e) {
			continue
		}
		reason, unmatched := classify(e, index)
		if !unmatched {
			continue
		}
		d.OnlyInJournal = append(d.OnlyInJournal, JournalItem{Entry: e, Reason: reason, Status: reason.Label()})
		d.UnmatchedJournalNet = d.UnmatchedJournalNet.Add(e.Net())
	}

	for _, mv := range balance.Select(movs, m.filter()) {
		if !rng.Contains(mv.Date) || linked[mv.SourceRef] {
			continue
		}
		d.OnlyInLedger = append(d.OnlyInLedger, mv)
		d.UnmatchedLedgerNet = d.UnmatchedLedgerNet.Add(balance.Delta(subject.Direction, mv.Debit, mv.Credit))
	}

	d.Unexplained = row.Diff.Sub(d.OpeningDiff).Sub(d.UnmatchedJournalNet).Add(d.UnmatchedLedgerNet)
	return d, nil
}

func classify(e model.JournalEntry, index model.VoucherIndex) (Reason, bool) {
	if e.LinkedVoucherCode == "" {
		return NoVoucher, true
	}
	status, ok := index[e.LinkedVoucherCode]
	switch {
	case !ok:
		return VoucherMissing, true
	case status != model.VoucherApproved:
		return VoucherNotApproved, true
	default:
		return "", false
	}
}

// Validate checks that every voucher in approved is approved and that every
// mapping names a known subject.
func (in Input) Validate() error {
	for _, v := range in.Approved {
		if v.Status != model.VoucherApproved {
			return fmt.Errorf("%w: %s", model.ErrUnapprovedVoucher, v.Code)
		}
	}
	if in.Tree == nil {
		return fmt.Errorf("%w: no chart of accounts", model.ErrUnknownSubjectReference)
	}
	for _, m := range in.Mappings {
		if err := in.Tree.CheckCodes(m.SubjectCode); err != nil {
			return fmt.Errorf("mapping %s: %w", m.Key(), err)
		}
	}
	return nil
}
