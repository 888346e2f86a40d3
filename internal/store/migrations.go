package store

import (
	"context"
	"database/sql"
	"fmt"
)

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.writer.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(ctx, tx); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return tx.Commit()
}

// Every table carries a seq column so rows load back in the order they were
// saved. Amounts are decimal text.
func migrateV1(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS subjects (
			seq        INTEGER PRIMARY KEY,
			subject_id TEXT NOT NULL,
			code       TEXT NOT NULL UNIQUE,
			name       TEXT NOT NULL,
			direction  TEXT NOT NULL CHECK (direction IN ('debit','credit')),
			parent_id  TEXT NOT NULL DEFAULT '',
			active     INTEGER NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS vouchers (
			seq        INTEGER PRIMARY KEY,
			voucher_id TEXT NOT NULL,
			code       TEXT NOT NULL,
			date       TEXT NOT NULL CHECK (date <> ''),
			status     TEXT NOT NULL CHECK (status IN ('draft','approved'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vouchers_code ON vouchers(code)`,

		`CREATE TABLE IF NOT EXISTS voucher_lines (
			voucher_seq   INTEGER NOT NULL REFERENCES vouchers(seq) ON DELETE CASCADE,
			line_no       INTEGER NOT NULL,
			subject_code  TEXT NOT NULL,
			auxiliary_key TEXT NOT NULL DEFAULT '',
			debit         TEXT NOT NULL,
			credit        TEXT NOT NULL,
			summary       TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (voucher_seq, line_no)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_voucher_lines_subject ON voucher_lines(subject_code)`,

		`CREATE TABLE IF NOT EXISTS journal (
			seq                 INTEGER PRIMARY KEY,
			entry_id            TEXT NOT NULL,
			date                TEXT NOT NULL CHECK (date <> ''),
			fund_account_id     TEXT NOT NULL,
			summary             TEXT NOT NULL DEFAULT '',
			income              TEXT NOT NULL,
			expense             TEXT NOT NULL,
			category_id         TEXT NOT NULL DEFAULT '',
			linked_voucher_code TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_account ON journal(fund_account_id)`,

		`CREATE TABLE IF NOT EXISTS fund_accounts (
			seq             INTEGER PRIMARY KEY,
			account_id      TEXT NOT NULL UNIQUE,
			name            TEXT NOT NULL,
			subject_code    TEXT NOT NULL DEFAULT '',
			auxiliary_key   TEXT NOT NULL DEFAULT '',
			opening_date    TEXT NOT NULL DEFAULT '',
			opening_balance TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS initial_balances (
			seq             INTEGER PRIMARY KEY,
			subject_code    TEXT NOT NULL,
			auxiliary_key   TEXT NOT NULL DEFAULT '',
			year            INTEGER NOT NULL,
			opening_balance TEXT NOT NULL,
			ytd_debit       TEXT NOT NULL,
			ytd_credit      TEXT NOT NULL,
			UNIQUE (subject_code, auxiliary_key)
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			seq         INTEGER PRIMARY KEY,
			category_id TEXT NOT NULL UNIQUE,
			name        TEXT NOT NULL,
			kind        TEXT NOT NULL CHECK (kind IN ('income','expense'))
		)`,

		`CREATE TABLE IF NOT EXISTS auxiliary (
			seq      INTEGER PRIMARY KEY,
			aux_key  TEXT NOT NULL,
			aux_type TEXT NOT NULL DEFAULT '',
			name     TEXT NOT NULL DEFAULT ''
		)`,

		`INSERT INTO schema_version (version) VALUES (1)`,
	}

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
	}
	return nil
}
