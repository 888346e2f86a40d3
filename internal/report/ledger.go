package report

import (
	"context"

	"github.com/cleared-dev/tally/internal/balance"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

// DetailLedger builds the detailed ledger of the subject with code. With aux set
// it covers only lines tagged with that auxiliary key. A non-leaf subject
// covers its whole subtree.
func (r *Runner) DetailLedger(ctx context.Context, code, aux string, sort ledger.SortKey, rng model.DateRange) (*ledger.Result, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	l, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	subject, err := l.tree.Subject(code)
	if err != nil {
		return nil, err
	}
	i, _ := l.tree.Lookup(code)

	filter := balance.Filter{Mode: balance.SubjectOnly, Key: code}
	seed := l.openings.For(code, aux)
	switch {
	case aux != "":
		filter.Mode = balance.SubjectAuxiliary
		filter.AuxiliaryKey = aux
	case !l.tree.Nodes[i].IsLeaf:
		filter.Mode = balance.Subtree
		seed = subtreeSeed(l, i)
	}

	yearStart, err := r.yearStart(rng)
	if err != nil {
		return nil, err
	}
	return ledger.Generate(ledger.Request{
		Subject:   subject,
		Filter:    filter,
		Movements: l.movements,
		Range:     rng,
		Sort:      sort,
		Seed:      seed,
		YearStart: yearStart,
	})
}

// subtreeSeed sums the initial balances of the leaves under node i, expressed in
// i's direction.
func subtreeSeed(l *loaded, i int) model.InitialBalance {
	root := l.tree.Nodes[i].Subject
	seed := model.InitialBalance{
		SubjectCode:      root.Code,
		OpeningBalance:   money.Zero(),
		YearToDateDebit:  money.Zero(),
		YearToDateCredit: money.Zero(),
	}
	for _, j := range l.tree.Descendants(i) {
		n := l.tree.Nodes[j]
		if !n.IsLeaf {
			continue
		}
		ib := l.openings.For(n.Subject.Code, "")
		opening := ib.OpeningBalance
		if n.Subject.Direction != root.Direction {
			opening = opening.Neg()
		}
		seed.OpeningBalance = seed.OpeningBalance.Add(opening)
		seed.YearToDateDebit = seed.YearToDateDebit.Add(ib.YearToDateDebit)
		seed.YearToDateCredit = seed.YearToDateCredit.Add(ib.YearToDateCredit)
		if ib.Year > seed.Year {
			seed.Year = ib.Year
		}
	}
	return seed
}
