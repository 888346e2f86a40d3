// Package trial rolls leaf balances up the chart of accounts and checks that the
// root subjects balance.
package trial

import (
	"fmt"
	"sort"

	"github.com/cleared-dev/tally/internal/hierarchy"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

// Result is a trial balance. RolledUp is keyed by subject ID (code when the
// subject has no ID) and covers every subject in the tree.
type Result struct {
	RolledUp    map[string]money.Money `json:"rolled_up"`
	DebitTotal  money.Money            `json:"debit_total"`
	CreditTotal money.Money            `json:"credit_total"`
	Diff        money.Money            `json:"diff"` // DebitTotal - CreditTotal
	Tolerance   money.Money            `json:"tolerance"`
	IsBalanced  bool                   `json:"is_balanced"`
}

// Err returns ErrUnbalancedInput when the roots do not balance within tolerance.
// An unbalanced result is still a complete result; callers decide whether to block.
func (r *Result) Err() error {
	if r.IsBalanced {
		return nil
	}
	return fmt.Errorf("%w: debit %s, credit %s, diff %s", model.ErrUnbalancedInput, r.DebitTotal, r.CreditTotal, r.Diff)
}

// Key returns the identifier trial results use for s.
func Key(s model.Subject) string {
	if s.ID != "" {
		return s.ID
	}
	return s.Code
}

// Validate rolls leafBalances up the tree and sums the roots by normal direction.
// Every key must name a leaf subject. Subjects without an entry count as zero.
func Validate(t *hierarchy.Tree, leafBalances map[string]money.Money, tolerance money.Money) (*Result, error) {
	if tolerance.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative tolerance %s", money.ErrInvalidAmount, tolerance)
	}

	keys := make([]string, 0, len(leafBalances))
	for k := range leafBalances {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]money.Money, t.Len())
	for _, k := range keys {
		i, ok := lookup(t, k)
		if !ok {
			return nil, fmt.Errorf("%w: balance for unknown subject %s", model.ErrUnknownSubjectReference, k)
		}
		n := t.Nodes[i]
		if !n.IsLeaf {
			return nil, fmt.Errorf("%w: balance given for non-leaf subject %s", model.ErrInvalidSubjectConfiguration, n.Subject.Code)
		}
		values[i] = leafBalances[k]
	}

	rolled := RollUp(t, values, money.Money.Add)

	res := &Result{
		RolledUp:  make(map[string]money.Money, t.Len()),
		Tolerance: tolerance,
	}
	for i, n := range t.Nodes {
		res.RolledUp[Key(n.Subject)] = money.Zero().Add(rolled[i])
	}
	var debits, credits []money.Money
	for _, i := range t.Roots() {
		switch t.Nodes[i].Subject.Direction {
		case model.Debit:
			debits = append(debits, rolled[i])
		case model.Credit:
			credits = append(credits, rolled[i])
		}
	}
	res.DebitTotal = money.Sum(debits...)
	res.CreditTotal = money.Sum(credits...)
	res.Diff = res.DebitTotal.Sub(res.CreditTotal)
	res.IsBalanced = res.Diff.Abs().Cmp(tolerance) <= 0
	return res, nil
}

// lookup finds the node whose Key is k: by ID first, then by code for subjects
// without an ID.
func lookup(t *hierarchy.Tree, k string) (int, bool) {
	if i, ok := t.Index(k); ok {
		return i, true
	}
	i, ok := t.Lookup(k)
	if !ok || t.Nodes[i].Subject.ID != "" {
		return 0, false
	}
	return i, true
}

// RollUp returns, for every node, its own value when it is a leaf and the sum of
// its children's rolled-up values otherwise. values is indexed like t.Nodes and
// is not modified. Each subtree is summed once.
func RollUp[T any](t *hierarchy.Tree, values []T, add func(T, T) T) []T {
	out := make([]T, t.Len())
	copy(out, values)
	for _, i := range t.PostOrder() {
		n := t.Nodes[i]
		if n.IsLeaf {
			continue
		}
		var sum T
		for _, c := range n.Children {
			sum = add(sum, out[c])
		}
		out[i] = sum
	}
	return out
}
