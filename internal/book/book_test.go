package book_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/book/booktest"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := booktest.Sample()
	require.NoError(t, want.Save(dir))

	got, err := book.Load(dir, money.DefaultScale)
	require.NoError(t, err)

	assert.Equal(t, want.Subjects, got.Subjects)
	require.Len(t, got.Vouchers, len(want.Vouchers))
	for i := range want.Vouchers {
		assert.Equal(t, want.Vouchers[i].Code, got.Vouchers[i].Code)
		assert.Equal(t, want.Vouchers[i].Status, got.Vouchers[i].Status)
		require.Len(t, got.Vouchers[i].Lines, len(want.Vouchers[i].Lines))
		for j, l := range want.Vouchers[i].Lines {
			assert.True(t, l.Debit.Equal(got.Vouchers[i].Lines[j].Debit))
			assert.True(t, l.Credit.Equal(got.Vouchers[i].Lines[j].Credit))
			assert.Equal(t, l.AuxiliaryKey, got.Vouchers[i].Lines[j].AuxiliaryKey)
		}
	}
	require.Len(t, got.Journal, len(want.Journal))
	assert.Equal(t, "记-1", got.Journal[0].LinkedVoucherCode)
	assert.Equal(t, "1800.00", got.Journal[0].Income.String())
	assert.Equal(t, want.FundAccounts[1].OpeningDate, got.FundAccounts[1].OpeningDate)
	assert.Equal(t, "10000.00", got.FundAccounts[1].OpeningBalance.String())
	assert.Equal(t, 2025, got.InitialBalances[0].Year)
	assert.Equal(t, want.Categories, got.Categories)
	assert.Equal(t, want.Auxiliary, got.Auxiliary)

	src := book.DirSource{Dir: dir}
	viaSource, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, viaSource.Vouchers, 4)
}

func TestLoad_OptionalFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, book.SubjectsFile), []byte("subject_id,code,name,direction,parent_id,active\n1,1001,库存现金,借,,\n"), 0o644))

	b, err := book.Load(dir, 0)
	require.NoError(t, err)
	require.Len(t, b.Subjects, 1)
	assert.Equal(t, model.Debit, b.Subjects[0].Direction)
	assert.True(t, b.Subjects[0].Active, "blank active column means active")
	assert.Empty(t, b.Vouchers)
	assert.Empty(t, b.Journal)
}

func TestLoad_MissingSubjects(t *testing.T) {
	_, err := book.Load(t.TempDir(), 0)
	assert.Error(t, err)
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := book.DirSource{Dir: t.TempDir()}.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadVouchers_GroupsLines(t *testing.T) {
	in := strings.Join([]string{
		"voucher_id,code,date,status,subject_code,auxiliary_key,debit,credit,summary",
		"v1,记-1,2025-04-03,approved,1001,,100.00,,收款",
		"v1,记-1,2025-04-03,approved,5001,,,100.00,收款",
		"v2,记-2,2025-04-04,draft,5602,,30.5,,报销",
		"v2,记-2,2025-04-04,draft,1001,,,30.50,报销",
	}, "\n")
	vs, err := book.ReadVouchers(strings.NewReader(in), money.DefaultScale)
	require.NoError(t, err)
	require.Len(t, vs, 2)
	assert.Len(t, vs[0].Lines, 2)
	assert.Equal(t, model.VoucherDraft, vs[1].Status)
	assert.Equal(t, "30.50", vs[1].Lines[0].Debit.String())
}

func TestReadVouchers_Errors(t *testing.T) {
	header := "voucher_id,code,date,status,subject_code,auxiliary_key,debit,credit,summary\n"
	tests := []struct {
		name string
		rows string
	}{
		{"precision", "v1,记-1,2025-04-03,approved,1001,,10.005,,x\n"},
		{"status", "v1,记-1,2025-04-03,posted,1001,,10.00,,x\n"},
		{"date", "v1,记-1,04/03/2025,approved,1001,,10.00,,x\n"},
		{"no code", "v1,,2025-04-03,approved,1001,,10.00,,x\n"},
		{"no date", "v9,记-9,,approved,1001,,50.00,,x\n"},
		{"split voucher", "v1,记-1,2025-04-03,approved,1001,,10.00,,x\nv1,记-1,2025-04-04,approved,5001,,,10.00,x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := book.ReadVouchers(strings.NewReader(header+tt.rows), money.DefaultScale)
			assert.Error(t, err)
		})
	}

	_, err := book.ReadVouchers(strings.NewReader(header+"v1,记-1,2025-04-03,approved,1001,,10.005,,x\n"), money.DefaultScale)
	assert.ErrorIs(t, err, money.ErrPrecisionOverflow)
}

func TestReadJournal_Errors(t *testing.T) {
	header := "entry_id,date,fund_account_id,summary,income,expense,category_id,linked_voucher_code\n"
	tests := []struct {
		name string
		rows string
	}{
		{"no date", "j1,,cash,x,5.00,,,\n"},
		{"bad date", "j1,2025/04/01,cash,x,5.00,,,\n"},
		{"bad amount", "j1,2025-04-01,cash,x,five,,,\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := book.ReadJournal(strings.NewReader(header+tt.rows), money.DefaultScale)
			assert.Error(t, err)
		})
	}

	entries, err := book.ReadJournal(strings.NewReader(header+"j1,2025-04-01,cash,x,5.00,,,\n"), money.DefaultScale)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, booktest.April().Start, entries[0].Date)
}

func TestReadFundAccounts_OpeningDateOptional(t *testing.T) {
	header := "account_id,name,subject_code,auxiliary_key,opening_date,opening_balance\n"
	accounts, err := book.ReadFundAccounts(strings.NewReader(header+"cash,现金,1001,,,0.00\n"), money.DefaultScale)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].OpeningDate.IsZero())
}

func TestReadSubjects_WrongHeader(t *testing.T) {
	_, err := book.ReadSubjects(strings.NewReader("a,b,c,d,e,f\n1,1001,x,debit,,true\n"))
	assert.Error(t, err)
}

func TestReadSubjects_ByteOrderMark(t *testing.T) {
	subjects, err := book.ReadSubjects(strings.NewReader("\ufeffsubject_id,code,name,direction,parent_id,active\n1,1001,库存现金,debit,,true\n"))
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
}

func TestWriteJournal_BlankZeroAmounts(t *testing.T) {
	var buf bytes.Buffer
	err := book.WriteJournal(&buf, []model.JournalEntry{{ID: "j1", Date: booktest.April().Start, FundAccountID: "cash", Income: money.MustParse("5.00")}})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "j1,2025-04-01,cash,,5.00,,,", lines[1])
}

func TestDefaultChart(t *testing.T) {
	b := book.New()
	tree, err := b.Tree()
	require.NoError(t, err)

	i, ok := tree.Lookup("2221")
	require.True(t, ok)
	assert.False(t, tree.Nodes[i].IsLeaf)
	assert.Len(t, tree.Nodes[i].Children, 2)

	_, ok = tree.Lookup("1002")
	assert.True(t, ok)
	assert.Empty(t, book.Validate(b))
}

func TestBookHelpers(t *testing.T) {
	b := booktest.Sample()
	assert.Len(t, b.Approved(), 3)
	assert.Equal(t, model.VoucherDraft, b.VoucherIndex()["记-4"])

	a, err := b.FundAccount("icbc")
	require.NoError(t, err)
	assert.Equal(t, "1002", a.SubjectCode)
	_, err = b.FundAccount("nope")
	assert.ErrorIs(t, err, model.ErrUnknownFundAccount)

	ib, err := b.Openings()
	require.NoError(t, err)
	assert.Equal(t, "10000.00", ib.For("1002", "").OpeningBalance.String())
}
