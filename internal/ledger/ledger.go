// Package ledger builds detailed ledgers: the running-balance transaction list of
// one subject over one period.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/cleared-dev/tally/internal/balance"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/vcode"
)

// SortKey orders the rows of a detailed ledger.
type SortKey string

const (
	ByDate        SortKey = "date"         // (date, voucher code)
	ByVoucherCode SortKey = "voucher_code" // (voucher code)
)

// ParseSortKey maps a user-facing value to a SortKey; empty means ByDate.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", ByDate:
		return ByDate, nil
	case ByVoucherCode:
		return ByVoucherCode, nil
	default:
		return "", fmt.Errorf("unknown sort key %q", s)
	}
}

// Request describes one detailed-ledger query.
type Request struct {
	Subject   model.Subject
	Filter    balance.Filter
	Movements []model.Movement // all candidate movements; Filter selects from them
	Range     model.DateRange
	Sort      SortKey
	Seed      model.InitialBalance
	YearStart time.Time // zero means 1 January of Range.End's year
}

// Result is a detailed ledger. Rows are positionally meaningful.
type Result struct {
	Subject      model.Subject     `json:"subject"`
	AuxiliaryKey string            `json:"auxiliary_key,omitempty"`
	Range        model.DateRange   `json:"range"`
	Opening      money.Money       `json:"opening"`
	OpeningSide  model.BalanceSide `json:"opening_side"`
	Rows         []model.LedgerRow `json:"rows"`
	PeriodDebit  money.Money       `json:"period_debit"`
	PeriodCredit money.Money       `json:"period_credit"`
	Closing      money.Money       `json:"closing"`
	ClosingSide  model.BalanceSide `json:"closing_side"`
	YearDebit    money.Money       `json:"year_debit"`
	YearCredit   money.Money       `json:"year_credit"`
}

// Generate produces the detailed ledger for req.
func Generate(req Request) (*Result, error) {
	dir := req.Subject.Direction
	if !dir.Valid() {
		return nil, fmt.Errorf("%w: subject %s has direction %q", model.ErrInvalidSubjectConfiguration, req.Subject.Code, dir)
	}
	if err := req.Range.Validate(); err != nil {
		return nil, err
	}
	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}
	if req.Filter.Key != req.Subject.Code {
		return nil, fmt.Errorf("%w: filter on %s does not match subject %s", model.ErrInvalidSubjectConfiguration, req.Filter.Key, req.Subject.Code)
	}
	sortKey := req.Sort
	if sortKey == "" {
		sortKey = ByDate
	}
	if sortKey != ByDate && sortKey != ByVoucherCode {
		return nil, fmt.Errorf("unknown sort key %q", sortKey)
	}

	selected := balance.Select(req.Movements, req.Filter)
	period, err := balance.Compute(selected, dir, req.Seed.OpeningBalance, req.Range)
	if err != nil {
		return nil, err
	}

	var within []model.Movement
	for _, m := range selected {
		if req.Range.Contains(m.Date) {
			within = append(within, m)
		}
	}
	sortMovements(within, sortKey)

	rows := make([]model.LedgerRow, 0, len(within))
	running := period.Opening
	for _, m := range within {
		running = running.Add(balance.Delta(dir, m.Debit, m.Credit))
		rows = append(rows, model.LedgerRow{
			Date:           m.Date,
			Ref:            m.SourceRef,
			Summary:        m.Summary,
			Debit:          money.Zero().Add(m.Debit),
			Credit:         money.Zero().Add(m.Credit),
			Direction:      balance.Side(dir, running),
			RunningBalance: running,
		})
	}

	yearDebit, yearCredit, err := yearToDate(selected, req)
	if err != nil {
		return nil, err
	}

	return &Result{
		Subject:      req.Subject,
		AuxiliaryKey: req.Filter.AuxiliaryKey,
		Range:        req.Range,
		Opening:      period.Opening,
		OpeningSide:  balance.Side(dir, period.Opening),
		Rows:         rows,
		PeriodDebit:  period.DebitTotal,
		PeriodCredit: period.CreditTotal,
		Closing:      period.Closing,
		ClosingSide:  balance.Side(dir, period.Closing),
		YearDebit:    yearDebit,
		YearCredit:   yearCredit,
	}, nil
}

// yearToDate sums movements from the fiscal year start through the range end, plus
// the seed's year-to-date amounts when the seed belongs to that fiscal year.
func yearToDate(selected []model.Movement, req Request) (debit, credit money.Money, err error) {
	start := req.YearStart
	if start.IsZero() {
		start = time.Date(req.Range.End.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	ytd, err := balance.Compute(selected, req.Subject.Direction, money.Zero(), model.DateRange{Start: start, End: req.Range.End})
	if err != nil {
		return money.Money{}, money.Money{}, fmt.Errorf("year-to-date: %w", err)
	}
	debit, credit = ytd.DebitTotal, ytd.CreditTotal
	if req.Seed.Year != 0 && req.Seed.Year == start.Year() {
		debit = debit.Add(req.Seed.YearToDateDebit)
		credit = credit.Add(req.Seed.YearToDateCredit)
	}
	return debit, credit, nil
}

// sortMovements orders in place. The sort is stable: movements with equal keys
// keep their input order, which the running balance depends on.
func sortMovements(ms []model.Movement, key SortKey) {
	sort.SliceStable(ms, func(i, j int) bool {
		if key == ByDate {
			di, dj := model.Day(ms[i].Date), model.Day(ms[j].Date)
			if !di.Equal(dj) {
				return di.Before(dj)
			}
		}
		return vcode.Compare(ms[i].SourceRef, ms[j].SourceRef) < 0
	})
}
