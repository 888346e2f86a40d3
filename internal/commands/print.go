package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/fund"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/reconcile"
	"github.com/cleared-dev/tally/internal/report"
	"github.com/cleared-dev/tally/internal/trial"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

// sideLabel is the 借/贷/平 column bookkeepers expect next to a balance.
func sideLabel(s model.BalanceSide) string {
	switch s {
	case model.SideDebit:
		return "借"
	case model.SideCredit:
		return "贷"
	default:
		return "平"
	}
}

func printProblems(w io.Writer, problems []book.ValidationError) {
	if len(problems) == 0 {
		fmt.Fprintln(w, "OK: no problems found")
		return
	}
	for _, p := range problems {
		fmt.Fprintln(w, p.Error())
	}
}

func printSubjectBalances(w io.Writer, res *report.SubjectBalances) error {
	fmt.Fprintf(w, "SUBJECT BALANCES %s\n\n", res.Range)
	tw := newTable(w)
	fmt.Fprintln(tw, "CODE\tNAME\tOPENING\t\tDEBIT\tCREDIT\tCLOSING\t\t")
	for _, r := range res.Rows {
		name := strings.Repeat("  ", r.Level-1) + r.Subject.Name
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Subject.Code, name,
			r.Opening.Abs(), sideLabel(r.OpeningSide),
			r.Debit, r.Credit,
			r.Closing.Abs(), sideLabel(r.ClosingSide))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	printTrialLine(w, res.Trial)
	return nil
}

func printTrial(w io.Writer, rng model.DateRange, res *trial.Result) {
	fmt.Fprintf(w, "TRIAL BALANCE %s\n\n", rng)
	printTrialLine(w, res)
}

func printTrialLine(w io.Writer, res *trial.Result) {
	fmt.Fprintf(w, "Debit roots:  %s\nCredit roots: %s\nDifference:   %s\n", res.DebitTotal, res.CreditTotal, res.Diff)
	if res.IsBalanced {
		fmt.Fprintln(w, "[BALANCED]")
	} else {
		fmt.Fprintf(w, "[UNBALANCED] tolerance %s\n", res.Tolerance)
	}
}

func printLedger(w io.Writer, res *ledger.Result) error {
	title := res.Subject.Code + " " + res.Subject.Name
	if res.AuxiliaryKey != "" {
		title += " / " + res.AuxiliaryKey
	}
	fmt.Fprintf(w, "DETAILED LEDGER %s %s\n\n", title, res.Range)

	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tVOUCHER\tSUMMARY\tDEBIT\tCREDIT\t\tBALANCE\t")
	fmt.Fprintf(tw, "%s\t\t期初余额\t\t\t%s\t%s\t\n", res.Range.Start.Format(model.DateFormat), sideLabel(res.OpeningSide), res.Opening.Abs())
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Date.Format(model.DateFormat), r.Ref, r.Summary,
			blankZero(r.Debit.String(), r.Debit.IsZero()), blankZero(r.Credit.String(), r.Credit.IsZero()),
			sideLabel(r.Direction), r.RunningBalance.Abs())
	}
	fmt.Fprintf(tw, "%s\t\t本期合计\t%s\t%s\t%s\t%s\t\n", res.Range.End.Format(model.DateFormat), res.PeriodDebit, res.PeriodCredit, sideLabel(res.ClosingSide), res.Closing.Abs())
	fmt.Fprintf(tw, "%s\t\t本年累计\t%s\t%s\t\t\t\n", res.Range.End.Format(model.DateFormat), res.YearDebit, res.YearCredit)
	return tw.Flush()
}

func blankZero(s string, zero bool) string {
	if zero {
		return ""
	}
	return s
}

func printFunds(w io.Writer, res *fund.Summary) error {
	fmt.Fprintf(w, "FUND SUMMARY %s\n\n", res.Range)
	tw := newTable(w)
	fmt.Fprintln(tw, "ACCOUNT\tNAME\tOPENING\tINCOME\tEXPENSE\tCLOSING\tENTRIES\t")
	for _, a := range res.ByAccount {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t\n", a.AccountID, a.Name, a.Opening, a.Income, a.Expense, a.Closing, a.Entries)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = newTable(w)
	fmt.Fprintln(tw, "CATEGORY\tNAME\tINCOME\tEXPENSE\tENTRIES\t")
	for _, c := range res.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t\n", c.CategoryID, c.Name, c.Income, c.Expense, c.Entries)
	}
	return tw.Flush()
}

func printReconciliation(w io.Writer, rng model.DateRange, rows []model.ReconciliationRow) error {
	fmt.Fprintf(w, "RECONCILIATION %s\n\n", rng)
	tw := newTable(w)
	fmt.Fprintln(tw, "ACCOUNT\tSUBJECT\tJOURNAL OPENING\tIN\tOUT\tJOURNAL CLOSING\tLEDGER OPENING\tDEBIT\tCREDIT\tLEDGER CLOSING\tDIFF\t")
	for _, r := range rows {
		subject := r.SubjectCode
		if r.AuxiliaryKey != "" {
			subject += "/" + r.AuxiliaryKey
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.FundAccountID, subject,
			r.Journal.Opening, r.Journal.PeriodIn, r.Journal.PeriodOut, r.Journal.Closing,
			r.Ledger.Opening, r.Ledger.PeriodDebit, r.Ledger.PeriodCredit, r.Ledger.Closing,
			r.Diff)
	}
	return tw.Flush()
}

func printDetails(w io.Writer, d *reconcile.Details) error {
	fmt.Fprintf(w, "DIFFERENCE DETAILS %s -> %s  diff %s\n\n", d.Row.FundAccountID, d.Row.SubjectCode, d.Row.Diff)

	fmt.Fprintln(w, "Only in journal:")
	tw := newTable(w)
	for _, it := range d.OnlyInJournal {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t\n", it.Entry.Date.Format(model.DateFormat), it.Entry.ID, it.Entry.Summary, it.Entry.Net(), it.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "Only in ledger:")
	tw = newTable(w)
	for _, m := range d.OnlyInLedger {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t\n", m.Date.Format(model.DateFormat), m.SourceRef, m.Summary, m.Debit, m.Credit)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nOpening difference:   %s\n", d.OpeningDiff)
	fmt.Fprintf(w, "Journal net:          %s\n", d.JournalNet)
	fmt.Fprintf(w, "Ledger net:           %s\n", d.LedgerNet)
	fmt.Fprintf(w, "Unmatched journal:    %s\n", d.UnmatchedJournalNet)
	fmt.Fprintf(w, "Unmatched ledger:     %s\n", d.UnmatchedLedgerNet)
	fmt.Fprintf(w, "Unexplained:          %s\n", d.Unexplained)
	return nil
}
