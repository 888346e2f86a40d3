package balance

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func m(s string) money.Money {
	return money.MustParse(s)
}

func april() model.DateRange {
	return model.DateRange{Start: day(2025, 4, 1), End: day(2025, 4, 30)}
}

func mv(date time.Time, debit, credit string) model.Movement {
	return model.Movement{Date: date, Debit: m(debit), Credit: m(credit), Key: "1002"}
}

func TestCompute_ScenarioBankDeposit(t *testing.T) {
	movs := []model.Movement{mv(day(2025, 4, 5), "500.00", "0")}

	b, err := Compute(movs, model.Debit, m("1000.00"), april())
	require.NoError(t, err)
	assert.Equal(t, "1000.00", b.Opening.String())
	assert.Equal(t, "500.00", b.DebitTotal.String())
	assert.Equal(t, "0.00", b.CreditTotal.String())
	assert.Equal(t, "1500.00", b.Closing.String())
}

func TestCompute_PartitionsByDate(t *testing.T) {
	movs := []model.Movement{
		mv(day(2025, 3, 31), "100.00", "0"), // before
		mv(day(2025, 4, 1), "10.00", "0"),   // first day
		mv(day(2025, 4, 30), "0", "25.00"),  // last day
		mv(day(2025, 5, 1), "9999.00", "0"), // after, ignored
		mv(day(2025, 2, 10), "0", "40.00"),  // before
	}
	b, err := Compute(movs, model.Debit, m("0"), april())
	require.NoError(t, err)
	assert.Equal(t, "60.00", b.Opening.String())
	assert.Equal(t, "10.00", b.DebitTotal.String())
	assert.Equal(t, "25.00", b.CreditTotal.String())
	assert.Equal(t, "45.00", b.Closing.String())
}

func TestCompute_CreditDirection(t *testing.T) {
	movs := []model.Movement{
		mv(day(2025, 3, 1), "0", "300.00"),
		mv(day(2025, 4, 2), "50.00", "200.00"),
	}
	b, err := Compute(movs, model.Credit, m("100.00"), april())
	require.NoError(t, err)
	assert.Equal(t, "400.00", b.Opening.String())
	assert.Equal(t, "550.00", b.Closing.String())
}

func TestCompute_BalanceIdentity(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	movs := randomMovements(rnd, 200)

	for _, dir := range []model.Direction{model.Debit, model.Credit} {
		for i := 0; i < 20; i++ {
			start := day(2025, 1, 1).AddDate(0, 0, rnd.Intn(300))
			rng := model.DateRange{Start: start, End: start.AddDate(0, 0, rnd.Intn(60))}
			b, err := Compute(movs, dir, money.Cents(rnd.Int63n(100000)-50000), rng)
			require.NoError(t, err)

			var want money.Money
			if dir == model.Debit {
				want = b.Opening.Add(b.DebitTotal).Sub(b.CreditTotal)
			} else {
				want = b.Opening.Add(b.CreditTotal).Sub(b.DebitTotal)
			}
			assert.True(t, want.Equal(b.Closing), "%s %s", dir, rng)
		}
	}
}

func TestCompute_OrderIndependent(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	movs := randomMovements(rnd, 100)
	rng := model.DateRange{Start: day(2025, 3, 1), End: day(2025, 6, 30)}

	want, err := Compute(movs, model.Debit, m("12.34"), rng)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		shuffled := make([]model.Movement, len(movs))
		copy(shuffled, movs)
		rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Compute(shuffled, model.Debit, m("12.34"), rng)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCompute_Errors(t *testing.T) {
	_, err := Compute(nil, "", m("0"), april())
	assert.ErrorIs(t, err, model.ErrInvalidSubjectConfiguration)

	_, err = Compute(nil, model.Debit, m("0"), model.DateRange{Start: day(2025, 5, 1), End: day(2025, 4, 1)})
	assert.ErrorIs(t, err, model.ErrInvalidRange)
}

func TestSide(t *testing.T) {
	assert.Equal(t, model.SideDebit, Side(model.Debit, m("1.00")))
	assert.Equal(t, model.SideCredit, Side(model.Debit, m("-1.00")))
	assert.Equal(t, model.SideCredit, Side(model.Credit, m("1.00")))
	assert.Equal(t, model.SideDebit, Side(model.Credit, m("-1.00")))
	assert.Equal(t, model.SideFlat, Side(model.Credit, m("0")))
}

func randomMovements(rnd *rand.Rand, n int) []model.Movement {
	out := make([]model.Movement, n)
	for i := range out {
		out[i] = model.Movement{
			Date:   day(2025, 1, 1).AddDate(0, 0, rnd.Intn(365)),
			Debit:  money.Cents(rnd.Int63n(1_000_000)),
			Credit: money.Cents(rnd.Int63n(1_000_000)),
			Key:    "1002",
		}
	}
	return out
}
