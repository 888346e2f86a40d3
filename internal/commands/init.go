package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/store"
)

// DatabaseFile is the SQLite file init creates for --source sqlite.
const DatabaseFile = "book.db"

func newInitCommand() *cobra.Command {
	var name string
	var source string
	var useGit bool
	var author string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new book with the default chart of accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			opts := initOptions{name: name, source: source}
			if useGit {
				opts.gitAuthor = author
			}
			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, opts)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "book name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&source, "source", config.SourceCSV, "where the book's data lives: csv or sqlite")
	cmd.Flags().BoolVar(&useGit, "git", false, "initialize a git repository and commit the new book")
	cmd.Flags().StringVar(&author, "git-author", gitops.DefaultAuthor, "author of the initial commit")

	return cmd
}

type initOptions struct {
	name      string
	source    string
	gitAuthor string // empty means no git repository
}

func runInit(ctx context.Context, out io.Writer, dir string, opts initOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(opts.name)
	switch opts.source {
	case config.SourceCSV:
	case config.SourceSQLite:
		cfg.Source = config.SourceConfig{Kind: config.SourceSQLite, Path: DatabaseFile}
	default:
		return fmt.Errorf("unknown source %q", opts.source)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	b := book.New()
	switch cfg.Source.Kind {
	case config.SourceSQLite:
		st, err := store.Open(ctx, filepath.Join(dir, cfg.Source.Path), cfg.Book.CurrencyScale)
		if err != nil {
			return err
		}
		serr := st.Save(ctx, b)
		cerr := st.Close()
		if serr != nil {
			return fmt.Errorf("writing chart of accounts: %w", serr)
		}
		if cerr != nil {
			return cerr
		}
	default:
		if err := b.Save(dir); err != nil {
			return fmt.Errorf("writing chart of accounts: %w", err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally book %q at %s (%d subjects)\n", opts.name, dir, len(b.Subjects))

	if opts.gitAuthor == "" {
		return nil
	}
	if !gitops.IsRepo(dir) {
		if err := gitops.Init(ctx, dir); err != nil {
			return err
		}
	}
	hash, err := gitops.CommitAll(ctx, dir, "init: "+opts.name, opts.gitAuthor)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	fmt.Fprintf(out, "Committed %s\n", hash)
	return nil
}
