package book

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

// Rule names an integrity check on a book.
type Rule string

const (
	RuleVoucherBalanced   Rule = "voucher-balanced"
	RuleOneSidedLine      Rule = "one-sided-line"
	RuleKnownSubject      Rule = "known-subject"
	RuleLeafSubject       Rule = "leaf-subject"
	RuleUniqueVoucherCode Rule = "unique-voucher-code"
	RuleOneSidedEntry     Rule = "one-sided-entry"
	RuleKnownFundAccount  Rule = "known-fund-account"
	RuleKnownCategory     Rule = "known-category"
	RuleKnownAuxiliary    Rule = "known-auxiliary"
	RuleChart             Rule = "chart"
	RuleDated             Rule = "dated"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        Rule   `json:"rule"`
	Ref         string `json:"ref"`
	Description string `json:"description"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.Ref, e.Description)
}

// Validate checks a book's integrity and returns every violation found, in file
// order. A nil result means the book is consistent.
func Validate(b *Book) []ValidationError {
	var errs []ValidationError

	tree, err := b.Tree()
	if err != nil {
		errs = append(errs, ValidationError{Rule: RuleChart, Ref: SubjectsFile, Description: err.Error()})
	}
	if _, err := b.Openings(); err != nil {
		errs = append(errs, ValidationError{Rule: RuleChart, Ref: InitialBalancesFile, Description: err.Error()})
	}

	auxKnown := make(map[string]bool, len(b.Auxiliary))
	for _, a := range b.Auxiliary {
		auxKnown[a.Key] = true
	}
	checkAux := func(ref, key string) {
		if key == "" || len(auxKnown) == 0 || auxKnown[key] {
			return
		}
		errs = append(errs, ValidationError{Rule: RuleKnownAuxiliary, Ref: ref, Description: fmt.Sprintf("unknown auxiliary item %q", key)})
	}

	seen := make(map[string]bool, len(b.Vouchers))
	for _, v := range b.Vouchers {
		if seen[v.Code] {
			errs = append(errs, ValidationError{Rule: RuleUniqueVoucherCode, Ref: v.Code, Description: "voucher code appears in more than one voucher"})
		}
		seen[v.Code] = true
		if v.Date.IsZero() {
			errs = append(errs, ValidationError{Rule: RuleDated, Ref: v.Code, Description: "voucher has no date"})
		}

		debit, credit := v.Totals()
		if !debit.Equal(credit) {
			errs = append(errs, ValidationError{
				Rule:        RuleVoucherBalanced,
				Ref:         v.Code,
				Description: fmt.Sprintf("debits (%s) != credits (%s)", debit, credit),
			})
		}

		for i, l := range v.Lines {
			ref := fmt.Sprintf("%s#%d", v.Code, i+1)
			if bothOrNeither(l.Debit, l.Credit) {
				errs = append(errs, ValidationError{Rule: RuleOneSidedLine, Ref: ref, Description: "line must have exactly one of debit or credit"})
			}
			if tree != nil {
				idx, ok := tree.Lookup(l.SubjectCode)
				switch {
				case !ok:
					errs = append(errs, ValidationError{Rule: RuleKnownSubject, Ref: ref, Description: fmt.Sprintf("unknown subject %q", l.SubjectCode)})
				case !tree.Nodes[idx].IsLeaf:
					errs = append(errs, ValidationError{Rule: RuleLeafSubject, Ref: ref, Description: fmt.Sprintf("subject %s has sub-subjects; post to one of them", l.SubjectCode)})
				}
			}
			checkAux(ref, l.AuxiliaryKey)
		}
	}

	accounts := make(map[string]bool, len(b.FundAccounts))
	for _, a := range b.FundAccounts {
		accounts[a.ID] = true
		if tree != nil && a.SubjectCode != "" {
			if _, ok := tree.Lookup(a.SubjectCode); !ok {
				errs = append(errs, ValidationError{Rule: RuleKnownSubject, Ref: a.ID, Description: fmt.Sprintf("fund account maps to unknown subject %q", a.SubjectCode)})
			}
		}
		checkAux(a.ID, a.AuxiliaryKey)
	}
	categories := make(map[string]bool, len(b.Categories))
	for _, c := range b.Categories {
		categories[c.ID] = true
	}

	for _, e := range b.Journal {
		if e.Date.IsZero() {
			errs = append(errs, ValidationError{Rule: RuleDated, Ref: e.ID, Description: "journal entry has no date"})
		}
		if bothOrNeither(e.Income, e.Expense) {
			errs = append(errs, ValidationError{Rule: RuleOneSidedEntry, Ref: e.ID, Description: "entry must have exactly one of income or expense"})
		}
		if !accounts[e.FundAccountID] {
			errs = append(errs, ValidationError{Rule: RuleKnownFundAccount, Ref: e.ID, Description: fmt.Sprintf("unknown fund account %q", e.FundAccountID)})
		}
		if e.CategoryID != "" && !categories[e.CategoryID] {
			errs = append(errs, ValidationError{Rule: RuleKnownCategory, Ref: e.ID, Description: fmt.Sprintf("unknown category %q", e.CategoryID)})
		}
	}

	for _, ib := range b.InitialBalances {
		if tree == nil {
			break
		}
		if _, ok := tree.Lookup(ib.SubjectCode); !ok {
			errs = append(errs, ValidationError{Rule: RuleKnownSubject, Ref: InitialBalancesFile, Description: fmt.Sprintf("unknown subject %q", ib.SubjectCode)})
		}
		checkAux(InitialBalancesFile, ib.AuxiliaryKey)
	}
	return errs
}

func bothOrNeither(a, b money.Money) bool {
	return a.IsZero() == b.IsZero()
}
