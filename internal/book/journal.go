package book

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/tally/internal/model"
)

var journalHeader = []string{"entry_id", "date", "fund_account_id", "summary", "income", "expense", "category_id", "linked_voucher_code"}

const (
	colEntryID = iota
	colEntryDate
	colEntryAccount
	colEntrySummary
	colEntryIncome
	colEntryExpense
	colEntryCategory
	colEntryVoucher
)

// ReadJournal reads journal.csv, parsing amounts at scale.
func ReadJournal(r io.Reader, scale int) ([]model.JournalEntry, error) {
	entries, err := readTable(r, journalHeader, func(rec []string) (model.JournalEntry, error) {
		return UnmarshalEntry(rec, scale)
	})
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return entries, nil
}

// WriteJournal writes journal.csv.
func WriteJournal(w io.Writer, entries []model.JournalEntry) error {
	return writeTable(w, journalHeader, entries, MarshalEntry)
}

// MarshalEntry converts a JournalEntry to a CSV row.
func MarshalEntry(e model.JournalEntry) []string {
	row := make([]string, len(journalHeader))
	row[colEntryID] = e.ID
	row[colEntryDate] = formatDate(e.Date)
	row[colEntryAccount] = e.FundAccountID
	row[colEntrySummary] = e.Summary
	row[colEntryIncome] = formatAmount(e.Income)
	row[colEntryExpense] = formatAmount(e.Expense)
	row[colEntryCategory] = e.CategoryID
	row[colEntryVoucher] = e.LinkedVoucherCode
	return row
}

// UnmarshalEntry converts a CSV row to a JournalEntry.
func UnmarshalEntry(record []string, scale int) (model.JournalEntry, error) {
	date, err := parseRequiredDate("date", record[colEntryDate])
	if err != nil {
		return model.JournalEntry{}, err
	}
	income, err := parseAmount("income", record[colEntryIncome], scale)
	if err != nil {
		return model.JournalEntry{}, err
	}
	expense, err := parseAmount("expense", record[colEntryExpense], scale)
	if err != nil {
		return model.JournalEntry{}, err
	}
	return model.JournalEntry{
		ID:                record[colEntryID],
		Date:              date,
		FundAccountID:     record[colEntryAccount],
		Summary:           record[colEntrySummary],
		Income:            income,
		Expense:           expense,
		CategoryID:        record[colEntryCategory],
		LinkedVoucherCode: record[colEntryVoucher],
	}, nil
}

var fundAccountHeader = []string{"account_id", "name", "subject_code", "auxiliary_key", "opening_date", "opening_balance"}

// ReadFundAccounts reads fund-accounts.csv.
func ReadFundAccounts(r io.Reader, scale int) ([]model.FundAccount, error) {
	accounts, err := readTable(r, fundAccountHeader, func(rec []string) (model.FundAccount, error) {
		opened, err := parseDate("opening_date", rec[4])
		if err != nil {
			return model.FundAccount{}, err
		}
		bal, err := parseAmount("opening_balance", rec[5], scale)
		if err != nil {
			return model.FundAccount{}, err
		}
		return model.FundAccount{
			ID:             rec[0],
			Name:           rec[1],
			SubjectCode:    rec[2],
			AuxiliaryKey:   rec[3],
			OpeningDate:    opened,
			OpeningBalance: bal,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading fund accounts: %w", err)
	}
	return accounts, nil
}

// WriteFundAccounts writes fund-accounts.csv.
func WriteFundAccounts(w io.Writer, accounts []model.FundAccount) error {
	return writeTable(w, fundAccountHeader, accounts, func(a model.FundAccount) []string {
		return []string{a.ID, a.Name, a.SubjectCode, a.AuxiliaryKey, formatDate(a.OpeningDate), a.OpeningBalance.String()}
	})
}

var openingHeader = []string{"subject_code", "auxiliary_key", "year", "opening_balance", "ytd_debit", "ytd_credit"}

// ReadInitialBalances reads initial-balances.csv.
func ReadInitialBalances(r io.Reader, scale int) ([]model.InitialBalance, error) {
	records, err := readTable(r, openingHeader, func(rec []string) (model.InitialBalance, error) {
		var year int
		var err error
		if rec[2] != "" {
			if year, err = strconv.Atoi(rec[2]); err != nil {
				return model.InitialBalance{}, fmt.Errorf("parsing year %q: %w", rec[2], err)
			}
		}
		ib := model.InitialBalance{SubjectCode: rec[0], AuxiliaryKey: rec[1], Year: year}
		if ib.OpeningBalance, err = parseAmount("opening_balance", rec[3], scale); err != nil {
			return model.InitialBalance{}, err
		}
		if ib.YearToDateDebit, err = parseAmount("ytd_debit", rec[4], scale); err != nil {
			return model.InitialBalance{}, err
		}
		if ib.YearToDateCredit, err = parseAmount("ytd_credit", rec[5], scale); err != nil {
			return model.InitialBalance{}, err
		}
		return ib, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading initial balances: %w", err)
	}
	return records, nil
}

// WriteInitialBalances writes initial-balances.csv.
func WriteInitialBalances(w io.Writer, records []model.InitialBalance) error {
	return writeTable(w, openingHeader, records, func(ib model.InitialBalance) []string {
		year := ""
		if ib.Year != 0 {
			year = strconv.Itoa(ib.Year)
		}
		return []string{ib.SubjectCode, ib.AuxiliaryKey, year, ib.OpeningBalance.String(), formatAmount(ib.YearToDateDebit), formatAmount(ib.YearToDateCredit)}
	})
}
