// Package store keeps a book in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"

	_ "modernc.org/sqlite"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/money"
)

// Store is a SQLite-backed book. It implements book.Source.
type Store struct {
	writer *sql.DB
	reader *sql.DB
	scale  int
}

var _ book.Source = (*Store)(nil)

// Open opens (creating if needed) the database at dbPath. Amounts are read
// back at scale; zero means the default currency scale.
func Open(ctx context.Context, dbPath string, scale int) (*Store, error) {
	if scale == 0 {
		scale = money.DefaultScale
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(runtime.NumCPU())

	s := &Store{writer: writer, reader: reader, scale: scale}

	if err := s.migrate(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close releases both connection pools.
func (s *Store) Close() error {
	err1 := s.writer.Close()
	err2 := s.reader.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
