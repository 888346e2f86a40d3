package model

import (
	"time"

	"github.com/cleared-dev/tally/internal/money"
)

// BalanceSide labels which side a running balance sits on.
type BalanceSide string

const (
	SideDebit  BalanceSide = "debit"
	SideCredit BalanceSide = "credit"
	SideFlat   BalanceSide = "flat"
)

// LedgerRow is one line of a detailed ledger.
type LedgerRow struct {
	Date           time.Time   `json:"date"`
	Ref            string      `json:"ref"`
	Summary        string      `json:"summary"`
	Debit          money.Money `json:"debit"`
	Credit         money.Money `json:"credit"`
	Direction      BalanceSide `json:"direction"`
	RunningBalance money.Money `json:"running_balance"`
}

// JournalSide is the cash-journal view of a reconciled fund account.
type JournalSide struct {
	Opening   money.Money `json:"opening"`
	PeriodIn  money.Money `json:"period_in"`
	PeriodOut money.Money `json:"period_out"`
	Closing   money.Money `json:"closing"`
}

// LedgerSide is the voucher-ledger view of a reconciled subject.
type LedgerSide struct {
	Opening      money.Money `json:"opening"`
	PeriodDebit  money.Money `json:"period_debit"`
	PeriodCredit money.Money `json:"period_credit"`
	Closing      money.Money `json:"closing"`
}

// ReconciliationRow compares one fund account with its mapped subject.
// Diff is journal closing minus ledger closing.
type ReconciliationRow struct {
	Key           string      `json:"key"`
	FundAccountID string      `json:"fund_account_id"`
	SubjectCode   string      `json:"subject_code"`
	AuxiliaryKey  string      `json:"auxiliary_key,omitempty"`
	Journal       JournalSide `json:"journal"`
	Ledger        LedgerSide  `json:"ledger"`
	Diff          money.Money `json:"diff"`
}
