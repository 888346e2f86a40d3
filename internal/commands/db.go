package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/store"
)

func newDBCommand(g *globalFlags) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "SQLite book operations",
	}
	dbCmd.AddCommand(newDBImportCommand(g))
	return dbCmd
}

func newDBImportCommand(g *globalFlags) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <csv-dir>",
		Short: "Replace the SQLite book with the contents of a CSV book directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()

			path := dbPath
			if path == "" {
				if s.cfg.Source.Kind != config.SourceSQLite {
					return fmt.Errorf("book source is %s; pass --db", s.cfg.Source.Kind)
				}
				path = s.cfg.Source.Path
			}
			if !filepath.IsAbs(path) {
				path = filepath.Join(s.dir, path)
			}

			b, err := book.Load(args[0], s.cfg.Book.CurrencyScale)
			if err != nil {
				return err
			}
			if problems := book.Validate(b); len(problems) > 0 {
				for _, p := range problems {
					s.log.WithField("rule", string(p.Rule)).WithField("ref", p.Ref).Warn(p.Description)
				}
			}

			// The session may hold this database open as its source; close it first.
			if err := s.Close(); err != nil {
				return err
			}
			s.closer = nil

			st, err := store.Open(cmd.Context(), path, s.cfg.Book.CurrencyScale)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Save(cmd.Context(), b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d subjects, %d vouchers, %d journal entries into %s\n",
				len(b.Subjects), len(b.Vouchers), len(b.Journal), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database file (default: the book's sqlite source)")
	return cmd
}
