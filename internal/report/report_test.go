package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/book/booktest"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/fund"
	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
	"github.com/cleared-dev/tally/internal/reconcile"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	return New(booktest.Source{}, config.Default("test"))
}

func m(s string) money.Money { return money.MustParse(s) }

func findRow(t *testing.T, rows []SubjectBalance, code string) SubjectBalance {
	t.Helper()
	for _, r := range rows {
		if r.Subject.Code == code {
			return r
		}
	}
	t.Fatalf("no row for %s", code)
	return SubjectBalance{}
}

func TestSubjectBalances(t *testing.T) {
	res, err := newRunner(t).SubjectBalances(context.Background(), booktest.April())
	require.NoError(t, err)
	require.Len(t, res.Rows, 9)
	assert.Equal(t, "1001", res.Rows[0].Subject.Code)

	bank := findRow(t, res.Rows, "1002")
	assert.Equal(t, "10000.00", bank.Opening.String())
	assert.Equal(t, "3000.00", bank.Debit.String())
	assert.Equal(t, "1200.00", bank.Credit.String())
	assert.Equal(t, "11800.00", bank.Closing.String())
	assert.Equal(t, model.SideDebit, bank.ClosingSide)

	receivable := findRow(t, res.Rows, "1122")
	assert.Equal(t, "5000.00", receivable.Opening.String())
	assert.Equal(t, "2000.00", receivable.Closing.String())

	capital := findRow(t, res.Rows, "3001")
	assert.Equal(t, "15000.00", capital.Closing.String())
	assert.Equal(t, model.SideCredit, capital.ClosingSide)

	admin := findRow(t, res.Rows, "5602")
	assert.False(t, admin.IsLeaf)
	assert.Equal(t, 1, admin.Level)
	assert.Equal(t, "1200.00", admin.Debit.String())
	assert.Equal(t, "1200.00", admin.Closing.String())

	office := findRow(t, res.Rows, "560201")
	assert.Equal(t, 2, office.Level)
	assert.True(t, office.Closing.IsZero(), "draft voucher stays out")
	assert.Equal(t, model.SideFlat, office.ClosingSide)

	require.NotNil(t, res.Trial)
	assert.True(t, res.Trial.IsBalanced)
	assert.Equal(t, "16800.00", res.Trial.DebitTotal.String())
	assert.Equal(t, "16800.00", res.Trial.CreditTotal.String())
}

func TestTrialBalance_Unbalanced(t *testing.T) {
	b := booktest.Sample()
	b.InitialBalances[2].OpeningBalance = m("14000.00")
	r := New(booktest.Source{Book: b}, config.Default("test"))

	res, err := r.TrialBalance(context.Background(), booktest.April())
	require.NoError(t, err)
	assert.False(t, res.IsBalanced)
	assert.Equal(t, "1000.00", res.Diff.String())
	assert.ErrorIs(t, res.Err(), model.ErrUnbalancedInput)

	cfg := config.Default("test")
	cfg.Engine.TrialTolerance = "1000.00"
	res, err = New(booktest.Source{Book: b}, cfg).TrialBalance(context.Background(), booktest.April())
	require.NoError(t, err)
	assert.True(t, res.IsBalanced)
}

func TestDetailLedger(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	res, err := r.DetailLedger(ctx, "1002", "icbc", ledger.ByDate, booktest.April())
	require.NoError(t, err)
	assert.Equal(t, "10000.00", res.Opening.String())
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "记-2", res.Rows[0].Ref)
	assert.Equal(t, "13000.00", res.Rows[0].RunningBalance.String())
	assert.Equal(t, "11800.00", res.Rows[1].RunningBalance.String())
	assert.Equal(t, "11800.00", res.Closing.String())
	assert.Equal(t, "3000.00", res.YearDebit.String())
	assert.Equal(t, "1200.00", res.YearCredit.String())

	res, err = r.DetailLedger(ctx, "1122", "", "", booktest.April())
	require.NoError(t, err)
	assert.Equal(t, "5000.00", res.Opening.String(), "subject-level seed sums auxiliary records")
	assert.Equal(t, "2000.00", res.Closing.String())

	res, err = r.DetailLedger(ctx, "5602", "", ledger.ByVoucherCode, booktest.April())
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "记-3", res.Rows[0].Ref)
	assert.Equal(t, "1200.00", res.Closing.String())
}

func TestDetailLedger_Errors(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	_, err := r.DetailLedger(ctx, "9999", "", ledger.ByDate, booktest.April())
	assert.ErrorIs(t, err, model.ErrUnknownSubjectReference)

	backwards := model.DateRange{Start: booktest.April().End, End: booktest.April().Start}
	_, err = r.DetailLedger(ctx, "1001", "", ledger.ByDate, backwards)
	assert.ErrorIs(t, err, model.ErrInvalidRange)

	_, err = r.DetailLedger(ctx, "1001", "", "amount", booktest.April())
	assert.Error(t, err)
}

func TestFundSummary(t *testing.T) {
	res, err := newRunner(t).FundSummary(context.Background(), booktest.April())
	require.NoError(t, err)

	require.Len(t, res.ByAccount, 2)
	assert.Equal(t, "2000.00", res.ByAccount[0].Closing.String())
	assert.Equal(t, "11800.00", res.ByAccount[1].Closing.String())

	require.Len(t, res.ByCategory, 3)
	assert.Equal(t, "sales", res.ByCategory[0].CategoryID)
	assert.Equal(t, "4800.00", res.ByCategory[0].Income.String())
	assert.Equal(t, "1200.00", res.ByCategory[1].Expense.String())
	assert.Equal(t, fund.Uncategorized, res.ByCategory[2].CategoryID)
	assert.Equal(t, "200.00", res.ByCategory[2].Income.String())
}

func TestReconcile(t *testing.T) {
	rows, err := newRunner(t).Reconcile(context.Background(), booktest.April())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "cash", rows[0].FundAccountID)
	assert.Equal(t, "2000.00", rows[0].Journal.Closing.String())
	assert.Equal(t, "1800.00", rows[0].Ledger.Closing.String())
	assert.Equal(t, "200.00", rows[0].Diff.String())

	assert.Equal(t, "icbc", rows[1].FundAccountID)
	assert.True(t, rows[1].Diff.IsZero())
}

func TestDiffDetails(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	d, err := r.DiffDetails(ctx, "cash", booktest.April())
	require.NoError(t, err)
	require.Len(t, d.OnlyInJournal, 1)
	assert.Equal(t, "j2", d.OnlyInJournal[0].Entry.ID)
	assert.Equal(t, reconcile.NoVoucher, d.OnlyInJournal[0].Reason)
	assert.Empty(t, d.OnlyInLedger)
	assert.True(t, d.Unexplained.IsZero())

	_, err = r.DiffDetails(ctx, "nope", booktest.April())
	assert.ErrorIs(t, err, model.ErrUnknownFundAccount)
}

func TestWorkersDoNotChangeResults(t *testing.T) {
	ctx := context.Background()
	encode := func(workers int) []byte {
		cfg := config.Default("test")
		cfg.Engine.Workers = workers
		r := New(booktest.Source{}, cfg)

		balances, err := r.SubjectBalances(ctx, booktest.April())
		require.NoError(t, err)
		rows, err := r.Reconcile(ctx, booktest.April())
		require.NoError(t, err)
		out, err := json.Marshal(struct {
			Balances *SubjectBalances
			Rows     []model.ReconciliationRow
		}{balances, rows})
		require.NoError(t, err)
		return out
	}

	want := encode(1)
	for i := 0; i < 20; i++ {
		assert.Equal(t, string(want), string(encode(8)))
	}
}

func TestSourceErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRunner(t).Reconcile(ctx, booktest.April())
	assert.ErrorIs(t, err, context.Canceled)

	boom := errors.New("disk on fire")
	_, err = New(booktest.Source{Err: boom}, nil).TrialBalance(context.Background(), booktest.April())
	assert.ErrorIs(t, err, boom)
}

func TestLoad_UnknownSubjectOnVoucher(t *testing.T) {
	b := booktest.Sample()
	b.Vouchers[0].Lines[0].SubjectCode = "1009"
	_, err := New(booktest.Source{Book: b}, nil).TrialBalance(context.Background(), booktest.April())
	assert.ErrorIs(t, err, model.ErrUnknownSubjectReference)
}

func TestLoad_AmountsOnNonLeafSubject(t *testing.T) {
	posted := booktest.Sample()
	posted.Vouchers[2].Lines[0].SubjectCode = "5602"

	opened := booktest.Sample()
	opened.InitialBalances = append(opened.InitialBalances, model.InitialBalance{
		SubjectCode:      "5602",
		Year:             2025,
		OpeningBalance:   m("100.00"),
		YearToDateDebit:  money.Zero(),
		YearToDateCredit: money.Zero(),
	})

	for name, b := range map[string]*book.Book{"voucher line": posted, "initial balance": opened} {
		r := New(booktest.Source{Book: b}, nil)

		_, err := r.SubjectBalances(context.Background(), booktest.April())
		require.ErrorIs(t, err, model.ErrInvalidSubjectConfiguration, name)
		assert.Contains(t, err.Error(), "5602", name)

		_, err = r.TrialBalance(context.Background(), booktest.April())
		assert.ErrorIs(t, err, model.ErrInvalidSubjectConfiguration, name)

		_, err = r.DetailLedger(context.Background(), "5602", "", ledger.ByDate, booktest.April())
		assert.ErrorIs(t, err, model.ErrInvalidSubjectConfiguration, name)
	}
}
