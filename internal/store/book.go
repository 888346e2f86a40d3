package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

// Save replaces the stored book with b in a single transaction.
func (s *Store) Save(ctx context.Context, b *book.Book) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"voucher_lines", "vouchers", "journal", "fund_accounts", "initial_balances", "categories", "auxiliary", "subjects"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, sub := range b.Subjects {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO subjects (seq, subject_id, code, name, direction, parent_id, active) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, sub.ID, sub.Code, sub.Name, string(sub.Direction), sub.ParentID, boolToInt(sub.Active),
		)
		if err != nil {
			return fmt.Errorf("insert subject %s: %w", sub.Code, err)
		}
	}

	for i, v := range b.Vouchers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO vouchers (seq, voucher_id, code, date, status) VALUES (?, ?, ?, ?, ?)`,
			i, v.ID, v.Code, formatDate(v.Date), string(v.Status),
		)
		if err != nil {
			return fmt.Errorf("insert voucher %s: %w", v.Code, err)
		}
		for j, l := range v.Lines {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO voucher_lines (voucher_seq, line_no, subject_code, auxiliary_key, debit, credit, summary) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				i, j, l.SubjectCode, l.AuxiliaryKey, l.Debit.String(), l.Credit.String(), l.Summary,
			)
			if err != nil {
				return fmt.Errorf("insert voucher %s line %d: %w", v.Code, j+1, err)
			}
		}
	}

	for i, e := range b.Journal {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO journal (seq, entry_id, date, fund_account_id, summary, income, expense, category_id, linked_voucher_code)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, e.ID, formatDate(e.Date), e.FundAccountID, e.Summary, e.Income.String(), e.Expense.String(), e.CategoryID, e.LinkedVoucherCode,
		)
		if err != nil {
			return fmt.Errorf("insert journal entry %s: %w", e.ID, err)
		}
	}

	for i, a := range b.FundAccounts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO fund_accounts (seq, account_id, name, subject_code, auxiliary_key, opening_date, opening_balance) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, a.ID, a.Name, a.SubjectCode, a.AuxiliaryKey, formatDate(a.OpeningDate), a.OpeningBalance.String(),
		)
		if err != nil {
			return fmt.Errorf("insert fund account %s: %w", a.ID, err)
		}
	}

	for i, r := range b.InitialBalances {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO initial_balances (seq, subject_code, auxiliary_key, year, opening_balance, ytd_debit, ytd_credit) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			i, r.SubjectCode, r.AuxiliaryKey, r.Year, r.OpeningBalance.String(), r.YearToDateDebit.String(), r.YearToDateCredit.String(),
		)
		if err != nil {
			return fmt.Errorf("insert initial balance %s/%s: %w", r.SubjectCode, r.AuxiliaryKey, err)
		}
	}

	for i, c := range b.Categories {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO categories (seq, category_id, name, kind) VALUES (?, ?, ?, ?)`,
			i, c.ID, c.Name, string(c.Kind),
		)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}

	for i, a := range b.Auxiliary {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO auxiliary (seq, aux_key, aux_type, name) VALUES (?, ?, ?, ?)`,
			i, a.Key, a.Type, a.Name,
		)
		if err != nil {
			return fmt.Errorf("insert auxiliary %s: %w", a.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load implements book.Source.
func (s *Store) Load(ctx context.Context) (*book.Book, error) {
	b := &book.Book{}
	var err error
	if b.Subjects, err = s.subjects(ctx); err != nil {
		return nil, err
	}
	if b.Vouchers, err = s.vouchers(ctx); err != nil {
		return nil, err
	}
	if b.Journal, err = s.journal(ctx); err != nil {
		return nil, err
	}
	if b.FundAccounts, err = s.fundAccounts(ctx); err != nil {
		return nil, err
	}
	if b.InitialBalances, err = s.initialBalances(ctx); err != nil {
		return nil, err
	}
	if b.Categories, err = s.categories(ctx); err != nil {
		return nil, err
	}
	if b.Auxiliary, err = s.auxiliary(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// queryRows runs query on the reader and scans each row with scan.
func queryRows[T any](ctx context.Context, db *sql.DB, what, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}

func (s *Store) subjects(ctx context.Context) ([]model.Subject, error) {
	return queryRows(ctx, s.reader, "subjects",
		`SELECT subject_id, code, name, direction, parent_id, active FROM subjects ORDER BY seq`,
		func(rows *sql.Rows) (model.Subject, error) {
			var sub model.Subject
			var dir string
			var active int
			if err := rows.Scan(&sub.ID, &sub.Code, &sub.Name, &dir, &sub.ParentID, &active); err != nil {
				return sub, err
			}
			sub.Direction = model.Direction(dir)
			sub.Active = active != 0
			return sub, nil
		})
}

type lineRow struct {
	seq  int
	line model.VoucherLine
}

func (s *Store) vouchers(ctx context.Context) ([]model.Voucher, error) {
	vouchers, err := queryRows(ctx, s.reader, "vouchers",
		`SELECT voucher_id, code, date, status FROM vouchers ORDER BY seq`,
		func(rows *sql.Rows) (model.Voucher, error) {
			var v model.Voucher
			var date, status string
			if err := rows.Scan(&v.ID, &v.Code, &date, &status); err != nil {
				return v, err
			}
			v.Status = model.VoucherStatus(status)
			var err error
			v.Date, err = parseDate(date)
			return v, err
		})
	if err != nil {
		return nil, err
	}

	lines, err := queryRows(ctx, s.reader, "voucher lines",
		`SELECT voucher_seq, subject_code, auxiliary_key, debit, credit, summary FROM voucher_lines ORDER BY voucher_seq, line_no`,
		func(rows *sql.Rows) (lineRow, error) {
			var r lineRow
			var debit, credit string
			if err := rows.Scan(&r.seq, &r.line.SubjectCode, &r.line.AuxiliaryKey, &debit, &credit, &r.line.Summary); err != nil {
				return r, err
			}
			var err error
			if r.line.Debit, err = s.amount(debit); err != nil {
				return r, err
			}
			r.line.Credit, err = s.amount(credit)
			return r, err
		})
	if err != nil {
		return nil, err
	}

	// seq values are the voucher's position as saved.
	for _, r := range lines {
		if r.seq < 0 || r.seq >= len(vouchers) {
			return nil, fmt.Errorf("voucher line references missing voucher %d", r.seq)
		}
		vouchers[r.seq].Lines = append(vouchers[r.seq].Lines, r.line)
	}
	return vouchers, nil
}

func (s *Store) journal(ctx context.Context) ([]model.JournalEntry, error) {
	return queryRows(ctx, s.reader, "journal",
		`SELECT entry_id, date, fund_account_id, summary, income, expense, category_id, linked_voucher_code FROM journal ORDER BY seq`,
		func(rows *sql.Rows) (model.JournalEntry, error) {
			var e model.JournalEntry
			var date, income, expense string
			if err := rows.Scan(&e.ID, &date, &e.FundAccountID, &e.Summary, &income, &expense, &e.CategoryID, &e.LinkedVoucherCode); err != nil {
				return e, err
			}
			var err error
			if e.Date, err = parseDate(date); err != nil {
				return e, err
			}
			if e.Income, err = s.amount(income); err != nil {
				return e, err
			}
			e.Expense, err = s.amount(expense)
			return e, err
		})
}

func (s *Store) fundAccounts(ctx context.Context) ([]model.FundAccount, error) {
	return queryRows(ctx, s.reader, "fund accounts",
		`SELECT account_id, name, subject_code, auxiliary_key, opening_date, opening_balance FROM fund_accounts ORDER BY seq`,
		func(rows *sql.Rows) (model.FundAccount, error) {
			var a model.FundAccount
			var date, opening string
			if err := rows.Scan(&a.ID, &a.Name, &a.SubjectCode, &a.AuxiliaryKey, &date, &opening); err != nil {
				return a, err
			}
			var err error
			if a.OpeningDate, err = parseDate(date); err != nil {
				return a, err
			}
			a.OpeningBalance, err = s.amount(opening)
			return a, err
		})
}

func (s *Store) initialBalances(ctx context.Context) ([]model.InitialBalance, error) {
	return queryRows(ctx, s.reader, "initial balances",
		`SELECT subject_code, auxiliary_key, year, opening_balance, ytd_debit, ytd_credit FROM initial_balances ORDER BY seq`,
		func(rows *sql.Rows) (model.InitialBalance, error) {
			var r model.InitialBalance
			var opening, debit, credit string
			if err := rows.Scan(&r.SubjectCode, &r.AuxiliaryKey, &r.Year, &opening, &debit, &credit); err != nil {
				return r, err
			}
			var err error
			if r.OpeningBalance, err = s.amount(opening); err != nil {
				return r, err
			}
			if r.YearToDateDebit, err = s.amount(debit); err != nil {
				return r, err
			}
			r.YearToDateCredit, err = s.amount(credit)
			return r, err
		})
}

func (s *Store) categories(ctx context.Context) ([]model.Category, error) {
	return queryRows(ctx, s.reader, "categories",
		`SELECT category_id, name, kind FROM categories ORDER BY seq`,
		func(rows *sql.Rows) (model.Category, error) {
			var c model.Category
			var kind string
			err := rows.Scan(&c.ID, &c.Name, &kind)
			c.Kind = model.CategoryKind(kind)
			return c, err
		})
}

func (s *Store) auxiliary(ctx context.Context) ([]model.AuxiliaryItem, error) {
	return queryRows(ctx, s.reader, "auxiliary",
		`SELECT aux_key, aux_type, name FROM auxiliary ORDER BY seq`,
		func(rows *sql.Rows) (model.AuxiliaryItem, error) {
			var a model.AuxiliaryItem
			err := rows.Scan(&a.Key, &a.Type, &a.Name)
			return a, err
		})
}

func (s *Store) amount(text string) (money.Money, error) {
	if text == "" {
		return money.New(0, s.scale), nil
	}
	return money.Parse(text, s.scale)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.DateFormat)
}

func parseDate(text string) (time.Time, error) {
	if text == "" {
		return time.Time{}, nil
	}
	return time.Parse(model.DateFormat, text)
}
