package model

import (
	"time"

	"github.com/cleared-dev/tally/internal/money"
)

// JournalEntry is one row of the cashier's journal for a fund account.
type JournalEntry struct {
	ID                string      `json:"id"`
	Date              time.Time   `json:"date"`
	FundAccountID     string      `json:"fund_account_id"`
	Summary           string      `json:"summary"`
	Income            money.Money `json:"income"`
	Expense           money.Money `json:"expense"`
	CategoryID        string      `json:"category_id,omitempty"`
	LinkedVoucherCode string      `json:"linked_voucher_code,omitempty"`
}

// Net returns income minus expense.
func (e JournalEntry) Net() money.Money {
	return e.Income.Sub(e.Expense)
}

// FundAccount is a cash or bank account tracked in the cashier's journal.
type FundAccount struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	SubjectCode    string      `json:"subject_code"`
	AuxiliaryKey   string      `json:"auxiliary_key,omitempty"`
	OpeningDate    time.Time   `json:"opening_date"`
	OpeningBalance money.Money `json:"opening_balance"`
}
