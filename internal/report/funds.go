package report

import (
	"context"
	"fmt"

	"github.com/cleared-dev/tally/internal/fund"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reconcile"
)

// FundSummary summarizes the cashier's journal by fund account and category.
func (r *Runner) FundSummary(ctx context.Context, rng model.DateRange) (*fund.Summary, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	b, err := r.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading book: %w", err)
	}
	return fund.Summarize(b.FundAccounts, b.Journal, b.Categories, rng)
}

// Reconcile compares every fund account that names a related subject with the
// ledger. Rows follow the fund account order.
func (r *Runner) Reconcile(ctx context.Context, rng model.DateRange) ([]model.ReconciliationRow, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	l, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	in := l.reconcileInput()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	p, err := reconcile.Prepare(in)
	if err != nil {
		return nil, err
	}

	rows := make([]model.ReconciliationRow, len(in.Mappings))
	err = parallel(ctx, r.workers(), len(in.Mappings), func(_ context.Context, i int) error {
		row, err := p.ReconcileOne(in.Mappings[i], rng)
		if err != nil {
			return err
		}
		rows[i] = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DiffDetails lists the journal entries and voucher lines behind the difference
// for fund account accountID.
func (r *Runner) DiffDetails(ctx context.Context, accountID string, rng model.DateRange) (*reconcile.Details, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	l, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := l.book.FundAccount(accountID); err != nil {
		return nil, err
	}
	in := l.reconcileInput()
	for _, m := range in.Mappings {
		if m.FundAccount.ID == accountID {
			p, err := reconcile.Prepare(in)
			if err != nil {
				return nil, err
			}
			return p.DiffDetails(m, l.book.VoucherIndex(), rng)
		}
	}
	return nil, fmt.Errorf("%w: fund account %s has no related subject", model.ErrUnknownSubjectReference, accountID)
}

func (l *loaded) reconcileInput() reconcile.Input {
	return reconcile.Input{
		Mappings:        reconcile.MappingsFromAccounts(l.book.FundAccounts),
		Journal:         l.book.Journal,
		Approved:        l.book.Approved(),
		Tree:            l.tree,
		InitialBalances: l.openings,
	}
}
