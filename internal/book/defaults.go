package book

import "github.com/cleared-dev/tally/internal/model"

func subject(code, name string, dir model.Direction) model.Subject {
	return model.Subject{ID: code, Code: code, Name: name, Direction: dir, Active: true}
}

// DefaultChart returns a small-enterprise chart of accounts. IDs equal codes.
func DefaultChart() []model.Subject {
	d, c := model.Debit, model.Credit
	return []model.Subject{
		subject("1001", "库存现金", d),
		subject("1002", "银行存款", d),
		subject("1012", "其他货币资金", d),
		subject("1122", "应收账款", d),
		subject("1123", "预付账款", d),
		subject("1221", "其他应收款", d),
		subject("1403", "原材料", d),
		subject("1405", "库存商品", d),
		subject("1601", "固定资产", d),
		subject("1602", "累计折旧", c),
		subject("2001", "短期借款", c),
		subject("2202", "应付账款", c),
		subject("2203", "预收账款", c),
		subject("2211", "应付职工薪酬", c),
		subject("2221", "应交税费", c),
		subject("222101", "应交增值税", c),
		subject("222102", "应交所得税", c),
		subject("2241", "其他应付款", c),
		subject("3001", "实收资本", c),
		subject("3101", "盈余公积", c),
		subject("3103", "本年利润", c),
		subject("3104", "利润分配", c),
		subject("4001", "生产成本", d),
		subject("5001", "主营业务收入", c),
		subject("5051", "其他业务收入", c),
		subject("5111", "投资收益", c),
		subject("5301", "营业外收入", c),
		subject("5401", "主营业务成本", d),
		subject("5402", "其他业务成本", d),
		subject("5403", "税金及附加", d),
		subject("5601", "销售费用", d),
		subject("5602", "管理费用", d),
		subject("5603", "财务费用", d),
		subject("5711", "营业外支出", d),
		subject("5801", "所得税费用", d),
	}
}

// DefaultCategories returns the cash-journal categories a new book starts with.
func DefaultCategories() []model.Category {
	return []model.Category{
		{ID: "sales", Name: "销售收款", Kind: model.CategoryIncome},
		{ID: "other-income", Name: "其他收入", Kind: model.CategoryIncome},
		{ID: "purchase", Name: "采购付款", Kind: model.CategoryExpense},
		{ID: "salary", Name: "工资薪酬", Kind: model.CategoryExpense},
		{ID: "tax", Name: "税费", Kind: model.CategoryExpense},
		{ID: "office", Name: "办公费用", Kind: model.CategoryExpense},
	}
}

// New returns an empty book seeded with the default chart and categories.
func New() *Book {
	return &Book{Subjects: DefaultChart(), Categories: DefaultCategories()}
}
