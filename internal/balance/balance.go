// Package balance computes opening, period and closing balances over dated movements.
package balance

import (
	"fmt"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

// Balance is the result of accumulating movements over a date range.
type Balance struct {
	Opening     money.Money `json:"opening"`
	DebitTotal  money.Money `json:"debit_total"`
	CreditTotal money.Money `json:"credit_total"`
	Closing     money.Money `json:"closing"`
}

// Delta returns the signed effect of one debit/credit pair on a balance whose
// normal side is dir.
func Delta(dir model.Direction, debit, credit money.Money) money.Money {
	if dir == model.Debit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// Compute partitions movements into those before rng and those within it, folds
// the first group onto opening and the second onto the result. Movements after
// rng are ignored. The order of movements does not affect the result.
func Compute(movements []model.Movement, dir model.Direction, opening money.Money, rng model.DateRange) (Balance, error) {
	if !dir.Valid() {
		return Balance{}, fmt.Errorf("%w: direction %q", model.ErrInvalidSubjectConfiguration, dir)
	}
	if err := rng.Validate(); err != nil {
		return Balance{}, err
	}

	b := Balance{
		Opening:     money.Zero().Add(opening),
		DebitTotal:  money.Zero(),
		CreditTotal: money.Zero(),
	}
	for _, m := range movements {
		switch {
		case rng.IsBefore(m.Date):
			b.Opening = b.Opening.Add(Delta(dir, m.Debit, m.Credit))
		case rng.Contains(m.Date):
			b.DebitTotal = b.DebitTotal.Add(m.Debit)
			b.CreditTotal = b.CreditTotal.Add(m.Credit)
		}
	}
	b.Closing = b.Opening.Add(Delta(dir, b.DebitTotal, b.CreditTotal))
	return b, nil
}

// Side labels a balance held on a subject whose normal side is dir.
func Side(dir model.Direction, bal money.Money) model.BalanceSide {
	switch {
	case bal.IsZero():
		return model.SideFlat
	case (bal.Sign() > 0) == (dir == model.Debit):
		return model.SideDebit
	default:
		return model.SideCredit
	}
}
