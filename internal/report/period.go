package report

import (
	"fmt"
	"time"

	"github.com/cleared-dev/tally/internal/model"
)

// ParseRange builds a report period from user input. A blank to means today and
// a blank from means the first day of to's month.
func ParseRange(from, to string, now time.Time) (model.DateRange, error) {
	end := model.Day(now)
	if to != "" {
		t, err := time.Parse(model.DateFormat, to)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("%w: end date %q", model.ErrInvalidRange, to)
		}
		end = t
	}
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	if from != "" {
		t, err := time.Parse(model.DateFormat, from)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("%w: start date %q", model.ErrInvalidRange, from)
		}
		start = t
	}
	return model.NewDateRange(start, end)
}
