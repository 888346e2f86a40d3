package report

import (
	"context"

	"github.com/cleared-dev/tally/internal/balance"
	"github.com/cleared-dev/tally/internal/hierarchy"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/trial"
)

// SubjectBalance is one line of the subject balance report.
type SubjectBalance struct {
	Subject     model.Subject     `json:"subject"`
	Level       int               `json:"level"` // 1 for top-level subjects
	IsLeaf      bool              `json:"is_leaf"`
	Opening     money.Money       `json:"opening"`
	OpeningSide model.BalanceSide `json:"opening_side"`
	Debit       money.Money       `json:"debit"`
	Credit      money.Money       `json:"credit"`
	Closing     money.Money       `json:"closing"`
	ClosingSide model.BalanceSide `json:"closing_side"`
}

// SubjectBalances is the subject balance report: every subject in code order
// with parents rolled up from their children, plus the trial check on the
// closing balances.
type SubjectBalances struct {
	Range model.DateRange  `json:"range"`
	Rows  []SubjectBalance `json:"rows"`
	Trial *trial.Result    `json:"trial"`
}

// debitNormal holds balances signed so that debit is positive, which lets
// subjects of either direction be summed.
type debitNormal struct {
	opening, debit, credit, closing money.Money
}

func (a debitNormal) add(b debitNormal) debitNormal {
	return debitNormal{
		opening: a.opening.Add(b.opening),
		debit:   a.debit.Add(b.debit),
		credit:  a.credit.Add(b.credit),
		closing: a.closing.Add(b.closing),
	}
}

func toDebitNormal(dir model.Direction, m money.Money) money.Money {
	if dir == model.Credit {
		return m.Neg()
	}
	return m
}

// SubjectBalances reports opening, period and closing balances for every subject.
func (r *Runner) SubjectBalances(ctx context.Context, rng model.DateRange) (*SubjectBalances, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	l, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	leaves, err := r.leafBalances(ctx, l, rng)
	if err != nil {
		return nil, err
	}
	tr, err := r.trial(l.tree, leaves)
	if err != nil {
		return nil, err
	}

	values := make([]debitNormal, l.tree.Len())
	for i, n := range l.tree.Nodes {
		if !n.IsLeaf {
			continue
		}
		dir := n.Subject.Direction
		b := leaves[i]
		values[i] = debitNormal{
			opening: toDebitNormal(dir, b.Opening),
			debit:   b.DebitTotal,
			credit:  b.CreditTotal,
			closing: toDebitNormal(dir, b.Closing),
		}
	}
	rolled := trial.RollUp(l.tree, values, debitNormal.add)

	rows := make([]SubjectBalance, l.tree.Len())
	for i, n := range l.tree.Nodes {
		dir := n.Subject.Direction
		v := rolled[i]
		opening := toDebitNormal(dir, money.Zero().Add(v.opening))
		closing := toDebitNormal(dir, money.Zero().Add(v.closing))
		rows[i] = SubjectBalance{
			Subject:     n.Subject,
			Level:       level(l.tree, i),
			IsLeaf:      n.IsLeaf,
			Opening:     opening,
			OpeningSide: balance.Side(dir, opening),
			Debit:       money.Zero().Add(v.debit),
			Credit:      money.Zero().Add(v.credit),
			Closing:     closing,
			ClosingSide: balance.Side(dir, closing),
		}
	}
	return &SubjectBalances{Range: rng, Rows: rows, Trial: tr}, nil
}

// TrialBalance rolls leaf closing balances up the chart and checks the roots.
// An unbalanced book is a result, not an error; see trial.Result.Err.
func (r *Runner) TrialBalance(ctx context.Context, rng model.DateRange) (*trial.Result, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	l, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	leaves, err := r.leafBalances(ctx, l, rng)
	if err != nil {
		return nil, err
	}
	return r.trial(l.tree, leaves)
}

func (r *Runner) trial(t *hierarchy.Tree, leaves []balance.Balance) (*trial.Result, error) {
	tol, err := r.tolerance()
	if err != nil {
		return nil, err
	}
	closing := make(map[string]money.Money)
	for i, n := range t.Nodes {
		if n.IsLeaf {
			closing[trial.Key(n.Subject)] = leaves[i].Closing
		}
	}
	return trial.Validate(t, closing, tol)
}

// leafBalances computes the balance of every leaf subject, indexed like
// t.Nodes. Non-leaf entries are left zero.
func (r *Runner) leafBalances(ctx context.Context, l *loaded, rng model.DateRange) ([]balance.Balance, error) {
	leaves := l.tree.Leaves()
	out := make([]balance.Balance, l.tree.Len())
	err := parallel(ctx, r.workers(), len(leaves), func(_ context.Context, k int) error {
		i := leaves[k]
		s := l.tree.Nodes[i].Subject
		seed := l.openings.For(s.Code, "")
		movs := balance.Select(l.movements, balance.Filter{Mode: balance.SubjectOnly, Key: s.Code})
		b, err := balance.Compute(movs, s.Direction, seed.OpeningBalance, rng)
		if err != nil {
			return err
		}
		out[i] = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func level(t *hierarchy.Tree, i int) int {
	n := 1
	for p := t.Nodes[i].Parent; p >= 0; p = t.Nodes[p].Parent {
		n++
	}
	return n
}
