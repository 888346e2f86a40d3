// Package book loads and saves an account book: the chart of accounts, vouchers,
// the cashier's journal and the lookups around them, stored as a directory of
// CSV files.
package book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cleared-dev/tally/internal/hierarchy"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

const (
	SubjectsFile        = "subjects.csv"
	VouchersFile        = "vouchers.csv"
	JournalFile         = "journal.csv"
	FundAccountsFile    = "fund-accounts.csv"
	InitialBalancesFile = "initial-balances.csv"
	CategoriesFile      = "categories.csv"
	AuxiliaryFile       = "auxiliary.csv"
)

// Book is everything the reports read.
type Book struct {
	Subjects        []model.Subject
	Vouchers        []model.Voucher
	Journal         []model.JournalEntry
	FundAccounts    []model.FundAccount
	InitialBalances []model.InitialBalance
	Categories      []model.Category
	Auxiliary       []model.AuxiliaryItem
}

// Source supplies a Book.
type Source interface {
	Load(ctx context.Context) (*Book, error)
}

// DirSource reads a book directory.
type DirSource struct {
	Dir   string
	Scale int
}

// Load implements Source.
func (s DirSource) Load(ctx context.Context) (*Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(s.Dir, s.Scale)
}

// Load reads a book directory. subjects.csv is required; every other file is
// optional and reads as empty when missing. Amounts are parsed at scale.
func Load(dir string, scale int) (*Book, error) {
	if scale == 0 {
		scale = money.DefaultScale
	}
	b := &Book{}

	found, err := readFile(dir, SubjectsFile, func(r io.Reader) (err error) {
		b.Subjects, err = ReadSubjects(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("opening book %s: %s not found", dir, SubjectsFile)
	}

	readers := []struct {
		name string
		read func(io.Reader) error
	}{
		{VouchersFile, func(r io.Reader) (err error) { b.Vouchers, err = ReadVouchers(r, scale); return err }},
		{JournalFile, func(r io.Reader) (err error) { b.Journal, err = ReadJournal(r, scale); return err }},
		{FundAccountsFile, func(r io.Reader) (err error) { b.FundAccounts, err = ReadFundAccounts(r, scale); return err }},
		{InitialBalancesFile, func(r io.Reader) (err error) { b.InitialBalances, err = ReadInitialBalances(r, scale); return err }},
		{CategoriesFile, func(r io.Reader) (err error) { b.Categories, err = ReadCategories(r); return err }},
		{AuxiliaryFile, func(r io.Reader) (err error) { b.Auxiliary, err = ReadAuxiliary(r); return err }},
	}
	for _, rd := range readers {
		if _, err := readFile(dir, rd.name, rd.read); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func readFile(dir, name string, read func(io.Reader) error) (bool, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return true, fmt.Errorf("%s: %w", path, err)
	}
	return true, nil
}

// Save writes every file of the book into dir, creating it if needed.
func (b *Book) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating book dir: %w", err)
	}
	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{SubjectsFile, func(w io.Writer) error { return WriteSubjects(w, b.Subjects) }},
		{VouchersFile, func(w io.Writer) error { return WriteVouchers(w, b.Vouchers) }},
		{JournalFile, func(w io.Writer) error { return WriteJournal(w, b.Journal) }},
		{FundAccountsFile, func(w io.Writer) error { return WriteFundAccounts(w, b.FundAccounts) }},
		{InitialBalancesFile, func(w io.Writer) error { return WriteInitialBalances(w, b.InitialBalances) }},
		{CategoriesFile, func(w io.Writer) error { return WriteCategories(w, b.Categories) }},
		{AuxiliaryFile, func(w io.Writer) error { return WriteAuxiliary(w, b.Auxiliary) }},
	}
	for _, wr := range writers {
		path := filepath.Join(dir, wr.name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		werr := wr.write(f)
		cerr := f.Close()
		if werr != nil {
			return fmt.Errorf("writing %s: %w", path, werr)
		}
		if cerr != nil {
			return fmt.Errorf("closing %s: %w", path, cerr)
		}
	}
	return nil
}

// Tree resolves the chart of accounts.
func (b *Book) Tree() (*hierarchy.Tree, error) {
	return hierarchy.Build(b.Subjects)
}

// Approved returns the vouchers that take part in balances.
func (b *Book) Approved() []model.Voucher {
	return model.Approved(b.Vouchers)
}

// VoucherIndex indexes every voucher, drafts included.
func (b *Book) VoucherIndex() model.VoucherIndex {
	return model.IndexVouchers(b.Vouchers)
}

// Openings indexes the initial balances.
func (b *Book) Openings() (*model.InitialBalances, error) {
	return model.NewInitialBalances(b.InitialBalances)
}

// FundAccount returns the fund account with id.
func (b *Book) FundAccount(id string) (model.FundAccount, error) {
	for _, a := range b.FundAccounts {
		if a.ID == id {
			return a, nil
		}
	}
	return model.FundAccount{}, fmt.Errorf("%w: %s", model.ErrUnknownFundAccount, id)
}
