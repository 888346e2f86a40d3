package model

import (
	"fmt"
	"time"

	"github.com/cleared-dev/tally/internal/money"
)

// Movement is one dated debit/credit against a subject code or fund account ID.
type Movement struct {
	Date         time.Time   `json:"date"`
	Debit        money.Money `json:"debit"`
	Credit       money.Money `json:"credit"`
	Key          string      `json:"key"`
	AuxiliaryKey string      `json:"auxiliary_key,omitempty"`
	SourceRef    string      `json:"source_ref"` // voucher code or journal entry ID
	Summary      string      `json:"summary,omitempty"`
}

// Day truncates t to a calendar day in its own location and returns it as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange returns a validated range.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: Day(start), End: Day(end)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// Validate fails with ErrInvalidRange when Start is after End.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	if Day(r.Start).After(Day(r.End)) {
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRange, r.Start.Format(DateFormat), r.End.Format(DateFormat))
	}
	return nil
}

// IsBefore reports whether t falls on a day before the range starts.
func (r DateRange) IsBefore(t time.Time) bool {
	return Day(t).Before(Day(r.Start))
}

// Contains reports whether t falls on a day within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

func (r DateRange) String() string {
	return r.Start.Format(DateFormat) + ".." + r.End.Format(DateFormat)
}

// DateFormat is the on-disk and on-wire date layout.
const DateFormat = "2006-01-02"
