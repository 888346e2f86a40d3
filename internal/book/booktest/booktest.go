// Package booktest provides a small, fully populated book for tests.
package booktest

import (
	"context"
	"time"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func amt(s string) money.Money {
	return money.MustParse(s)
}

func dr(subject, aux, amount, summary string) model.VoucherLine {
	return model.VoucherLine{SubjectCode: subject, AuxiliaryKey: aux, Debit: amt(amount), Credit: money.Zero(), Summary: summary}
}

func cr(subject, aux, amount, summary string) model.VoucherLine {
	return model.VoucherLine{SubjectCode: subject, AuxiliaryKey: aux, Debit: money.Zero(), Credit: amt(amount), Summary: summary}
}

// April is the period the sample book is built around.
func April() model.DateRange {
	return model.DateRange{Start: day(2025, 4, 1), End: day(2025, 4, 30)}
}

// Sample returns a book for April 2025.
//
// Cash (1001) reconciles to a 200.00 difference: the journal records a 200.00
// receipt that has no voucher. The bank account (1002/icbc) reconciles exactly.
// 记-4 is a draft and stays out of every balance.
func Sample() *book.Book {
	return &book.Book{
		Subjects: []model.Subject{
			{ID: "1001", Code: "1001", Name: "库存现金", Direction: model.Debit, Active: true},
			{ID: "1002", Code: "1002", Name: "银行存款", Direction: model.Debit, Active: true},
			{ID: "1122", Code: "1122", Name: "应收账款", Direction: model.Debit, Active: true},
			{ID: "2202", Code: "2202", Name: "应付账款", Direction: model.Credit, Active: true},
			{ID: "3001", Code: "3001", Name: "实收资本", Direction: model.Credit, Active: true},
			{ID: "5001", Code: "5001", Name: "主营业务收入", Direction: model.Credit, Active: true},
			{ID: "5602", Code: "5602", Name: "管理费用", Direction: model.Debit, Active: true},
			{ID: "560201", Code: "560201", Name: "办公费", Direction: model.Debit, ParentID: "5602", Active: true},
			{ID: "560202", Code: "560202", Name: "房租", Direction: model.Debit, ParentID: "5602", Active: true},
		},
		Vouchers: []model.Voucher{
			{ID: "v1", Code: "记-1", Date: day(2025, 4, 3), Status: model.VoucherApproved, Lines: []model.VoucherLine{
				dr("1001", "", "1800.00", "销售收款"),
				cr("5001", "", "1800.00", "销售收款"),
			}},
			{ID: "v2", Code: "记-2", Date: day(2025, 4, 8), Status: model.VoucherApproved, Lines: []model.VoucherLine{
				dr("1002", "icbc", "3000.00", "客户回款"),
				cr("1122", "cust-a", "3000.00", "客户回款"),
			}},
			{ID: "v3", Code: "记-3", Date: day(2025, 4, 15), Status: model.VoucherApproved, Lines: []model.VoucherLine{
				dr("560202", "", "1200.00", "四月房租"),
				cr("1002", "icbc", "1200.00", "四月房租"),
			}},
			{ID: "v4", Code: "记-4", Date: day(2025, 4, 20), Status: model.VoucherDraft, Lines: []model.VoucherLine{
				dr("560201", "", "80.00", "办公用品"),
				cr("1001", "", "80.00", "办公用品"),
			}},
		},
		Journal: []model.JournalEntry{
			{ID: "j1", Date: day(2025, 4, 3), FundAccountID: "cash", Summary: "销售收款", Income: amt("1800.00"), Expense: money.Zero(), CategoryID: "sales", LinkedVoucherCode: "记-1"},
			{ID: "j2", Date: day(2025, 4, 9), FundAccountID: "cash", Summary: "零星收款", Income: amt("200.00"), Expense: money.Zero()},
			{ID: "j3", Date: day(2025, 4, 8), FundAccountID: "icbc", Summary: "客户回款", Income: amt("3000.00"), Expense: money.Zero(), CategoryID: "sales", LinkedVoucherCode: "记-2"},
			{ID: "j4", Date: day(2025, 4, 15), FundAccountID: "icbc", Summary: "四月房租", Income: money.Zero(), Expense: amt("1200.00"), CategoryID: "rent", LinkedVoucherCode: "记-3"},
		},
		FundAccounts: []model.FundAccount{
			{ID: "cash", Name: "现金", SubjectCode: "1001", OpeningDate: day(2025, 1, 1), OpeningBalance: money.Zero()},
			{ID: "icbc", Name: "工商银行", SubjectCode: "1002", AuxiliaryKey: "icbc", OpeningDate: day(2025, 1, 1), OpeningBalance: amt("10000.00")},
		},
		InitialBalances: []model.InitialBalance{
			{SubjectCode: "1002", AuxiliaryKey: "icbc", Year: 2025, OpeningBalance: amt("10000.00"), YearToDateDebit: money.Zero(), YearToDateCredit: money.Zero()},
			{SubjectCode: "1122", AuxiliaryKey: "cust-a", Year: 2025, OpeningBalance: amt("5000.00"), YearToDateDebit: money.Zero(), YearToDateCredit: money.Zero()},
			{SubjectCode: "3001", Year: 2025, OpeningBalance: amt("15000.00"), YearToDateDebit: money.Zero(), YearToDateCredit: money.Zero()},
		},
		Categories: []model.Category{
			{ID: "sales", Name: "销售收款", Kind: model.CategoryIncome},
			{ID: "rent", Name: "房租", Kind: model.CategoryExpense},
		},
		Auxiliary: []model.AuxiliaryItem{
			{Key: "icbc", Type: "bank", Name: "工商银行基本户"},
			{Key: "cust-a", Type: "customer", Name: "甲公司"},
		},
	}
}

// Source serves a fixed book. A nil Book loads Sample.
type Source struct {
	Book *book.Book
	Err  error
}

// Load implements book.Source.
func (s Source) Load(ctx context.Context) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Book == nil {
		return Sample(), nil
	}
	return s.Book, nil
}
