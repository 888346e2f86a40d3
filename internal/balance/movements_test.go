package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func TestFromVouchers(t *testing.T) {
	vs := []model.Voucher{
		{Code: "记-1", Date: day(2025, 4, 5), Status: model.VoucherApproved, Lines: []model.VoucherLine{
			{SubjectCode: "1002", Debit: m("500.00"), Summary: "收到货款"},
			{SubjectCode: "1122", AuxiliaryKey: "cust-a", Credit: m("500.00"), Summary: "收到货款"},
		}},
	}
	movs, err := FromVouchers(vs)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, "1002", movs[0].Key)
	assert.Equal(t, "记-1", movs[0].SourceRef)
	assert.Equal(t, "cust-a", movs[1].AuxiliaryKey)
	assert.Equal(t, "500.00", movs[1].Credit.String())
}

func TestFromVouchers_RejectsDraft(t *testing.T) {
	vs := []model.Voucher{
		{Code: "记-1", Status: model.VoucherApproved},
		{Code: "记-2", Status: model.VoucherDraft},
	}
	movs, err := FromVouchers(vs)
	assert.ErrorIs(t, err, model.ErrUnapprovedVoucher)
	assert.Contains(t, err.Error(), "记-2")
	assert.Nil(t, movs)
}

func TestFromJournal(t *testing.T) {
	movs := FromJournal([]model.JournalEntry{
		{ID: "j1", Date: day(2025, 4, 2), FundAccountID: "cash", Income: m("80.00")},
		{ID: "j2", Date: day(2025, 4, 3), FundAccountID: "cash", Expense: m("30.00")},
	})
	require.Len(t, movs, 2)
	assert.Equal(t, "cash", movs[0].Key)
	assert.Equal(t, "80.00", movs[0].Debit.String())
	assert.Equal(t, "30.00", movs[1].Credit.String())

	b, err := Compute(movs, model.Debit, m("0"), april())
	require.NoError(t, err)
	assert.Equal(t, "50.00", b.Closing.String())
}

func TestFilter(t *testing.T) {
	movs := []model.Movement{
		{Key: "1122", AuxiliaryKey: "cust-a", SourceRef: "1"},
		{Key: "1122", AuxiliaryKey: "cust-b", SourceRef: "2"},
		{Key: "1122", SourceRef: "3"},
		{Key: "112201", SourceRef: "4"},
		{Key: "1002", SourceRef: "5"},
	}
	refs := func(ms []model.Movement) []string {
		var out []string
		for _, m := range ms {
			out = append(out, m.SourceRef)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, refs(Select(movs, Filter{Mode: SubjectOnly, Key: "1122"})))
	assert.Equal(t, []string{"2"}, refs(Select(movs, Filter{Mode: SubjectAuxiliary, Key: "1122", AuxiliaryKey: "cust-b"})))
	assert.Equal(t, []string{"1", "2", "3", "4"}, refs(Select(movs, Filter{Mode: Subtree, Key: "1122"})))
}

func TestFilter_Validate(t *testing.T) {
	assert.NoError(t, Filter{Mode: SubjectOnly, Key: "1122"}.Validate())
	assert.NoError(t, Filter{Mode: SubjectAuxiliary, Key: "1122", AuxiliaryKey: "x"}.Validate())
	assert.ErrorIs(t, Filter{Mode: SubjectOnly, Key: "1122", AuxiliaryKey: "x"}.Validate(), model.ErrInvalidSubjectConfiguration)
	assert.ErrorIs(t, Filter{Mode: SubjectAuxiliary, Key: "1122"}.Validate(), model.ErrInvalidSubjectConfiguration)
	assert.ErrorIs(t, Filter{Mode: Subtree}.Validate(), model.ErrUnknownSubjectReference)
	assert.ErrorIs(t, Filter{Mode: Mode(9), Key: "1"}.Validate(), model.ErrInvalidSubjectConfiguration)
}
