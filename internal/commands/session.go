package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/logging"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
	"github.com/cleared-dev/tally/internal/store"
)

// session is an opened book: its configuration, logger and report runner.
type session struct {
	dir     string
	cfg     *config.Config
	log     *logrus.Logger
	src     book.Source
	reports *report.Runner
	closer  func() error
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// openSession loads tally.yaml from the book directory, applies .env and
// environment overrides, and opens the configured source.
func openSession(ctx context.Context, cmd *cobra.Command, g *globalFlags) (*session, error) {
	dir, err := filepath.Abs(g.bookDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s is not a tally book (run tally init)", dir)
	}
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	s := &session{dir: dir, cfg: cfg, log: logger}
	path := cfg.Source.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	switch cfg.Source.Kind {
	case config.SourceSQLite:
		st, err := store.Open(ctx, path, cfg.Book.CurrencyScale)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		s.src, s.closer = st, st.Close
	default:
		s.src = book.DirSource{Dir: path, Scale: cfg.Book.CurrencyScale}
	}
	s.reports = report.New(s.src, cfg)
	logger.WithFields(logrus.Fields{"book": cfg.Book.Name, "source": cfg.Source.Kind}).Debug("book opened")
	return s, nil
}

// periodFlags are the --from/--to flags of the report commands.
type periodFlags struct {
	from, to string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.from, "from", "", "period start, YYYY-MM-DD (default: first day of the end month)")
	cmd.Flags().StringVar(&p.to, "to", "", "period end, YYYY-MM-DD (default: today)")
}

func (p *periodFlags) rangeAt(now time.Time) (model.DateRange, error) {
	return report.ParseRange(p.from, p.to, now)
}
