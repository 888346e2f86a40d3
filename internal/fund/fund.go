// Package fund aggregates the cashier's journal into per-account and
// per-category figures.
package fund

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/balance"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

// Uncategorized is the synthetic bucket for entries without a category.
const Uncategorized = "uncategorized"

// AccountSummary is the period window of one fund account.
type AccountSummary struct {
	AccountID string      `json:"account_id"`
	Name      string      `json:"name"`
	Opening   money.Money `json:"opening"`
	Income    money.Money `json:"income"`
	Expense   money.Money `json:"expense"`
	Closing   money.Money `json:"closing"`
	Entries   int         `json:"entries"`
}

// CategorySummary totals the in-range entries of one category across accounts.
type CategorySummary struct {
	CategoryID string             `json:"category_id"`
	Name       string             `json:"name"`
	Kind       model.CategoryKind `json:"kind,omitempty"`
	Income     money.Money        `json:"income"`
	Expense    money.Money        `json:"expense"`
	Entries    int                `json:"entries"`
}

// Summary is the fund report for one range.
type Summary struct {
	Range      model.DateRange   `json:"range"`
	ByAccount  []AccountSummary  `json:"by_account"`
	ByCategory []CategorySummary `json:"by_category"`
}

// Summarize builds the fund report. ByAccount follows accounts order. ByCategory
// follows categories order, lists only categories with entries in range, and ends
// with the Uncategorized bucket when any in-range entry has no category.
func Summarize(accounts []model.FundAccount, entries []model.JournalEntry, categories []model.Category, rng model.DateRange) (*Summary, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	byID := accountsByID(accounts)
	for _, e := range entries {
		if _, ok := byID[e.FundAccountID]; !ok {
			return nil, fmt.Errorf("%w: entry %s names %q", model.ErrUnknownFundAccount, e.ID, e.FundAccountID)
		}
	}

	s := &Summary{Range: rng, ByAccount: make([]AccountSummary, 0, len(accounts))}
	for _, a := range accounts {
		as, err := SummarizeAccount(a, entries, rng)
		if err != nil {
			return nil, err
		}
		s.ByAccount = append(s.ByAccount, as)
	}

	var within []model.JournalEntry
	for _, e := range entries {
		if rng.Contains(e.Date) && Tracked(byID[e.FundAccountID], e) {
			within = append(within, e)
		}
	}
	byCategory, err := Categorize(within, categories)
	if err != nil {
		return nil, err
	}
	s.ByCategory = byCategory
	return s, nil
}

// SummarizeAccount computes one account's window. Entries for other accounts and
// entries dated before the account's opening date are ignored.
func SummarizeAccount(a model.FundAccount, entries []model.JournalEntry, rng model.DateRange) (AccountSummary, error) {
	var own []model.JournalEntry
	for _, e := range entries {
		if e.FundAccountID == a.ID && Tracked(a, e) {
			own = append(own, e)
		}
	}
	b, err := balance.Compute(balance.FromJournal(own), model.Debit, a.OpeningBalance, rng)
	if err != nil {
		return AccountSummary{}, fmt.Errorf("fund account %s: %w", a.ID, err)
	}
	n := 0
	for _, e := range own {
		if rng.Contains(e.Date) {
			n++
		}
	}
	return AccountSummary{
		AccountID: a.ID,
		Name:      a.Name,
		Opening:   b.Opening,
		Income:    b.DebitTotal,
		Expense:   b.CreditTotal,
		Closing:   b.Closing,
		Entries:   n,
	}, nil
}

// Categorize groups entries by category. Unknown category IDs fail with
// ErrUnknownCategory.
func Categorize(entries []model.JournalEntry, categories []model.Category) ([]CategorySummary, error) {
	index := make(map[string]int, len(categories))
	buckets := make([]CategorySummary, len(categories))
	for i, c := range categories {
		if _, dup := index[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category %s", c.ID)
		}
		index[c.ID] = i
		buckets[i] = CategorySummary{CategoryID: c.ID, Name: c.Name, Kind: c.Kind, Income: money.Zero(), Expense: money.Zero()}
	}
	other := CategorySummary{CategoryID: Uncategorized, Name: Uncategorized, Income: money.Zero(), Expense: money.Zero()}

	for _, e := range entries {
		target := &other
		if e.CategoryID != "" {
			i, ok := index[e.CategoryID]
			if !ok {
				return nil, fmt.Errorf("%w: entry %s names %q", model.ErrUnknownCategory, e.ID, e.CategoryID)
			}
			target = &buckets[i]
		}
		target.Income = target.Income.Add(e.Income)
		target.Expense = target.Expense.Add(e.Expense)
		target.Entries++
	}

	out := make([]CategorySummary, 0, len(buckets)+1)
	for _, b := range buckets {
		if b.Entries > 0 {
			out = append(out, b)
		}
	}
	if other.Entries > 0 {
		out = append(out, other)
	}
	return out, nil
}

// Tracked reports whether e falls on or after a's opening date. Earlier entries
// are superseded by the opening balance.
func Tracked(a model.FundAccount, e model.JournalEntry) bool {
	return a.OpeningDate.IsZero() || !model.Day(e.Date).Before(model.Day(a.OpeningDate))
}

func accountsByID(accounts []model.FundAccount) map[string]model.FundAccount {
	out := make(map[string]model.FundAccount, len(accounts))
	for _, a := range accounts {
		out[a.ID] = a
	}
	return out
}
