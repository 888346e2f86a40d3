// Package report loads a book and runs the ledger engine over it: subject
// balances, the trial balance, detailed ledgers, fund summaries and
// reconciliation. Independent per-subject and per-account work runs on a
// bounded worker pool; results keep input order.
package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/tally/internal/balance"
	"github.com/cleared-dev/tally/internal/book"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/hierarchy"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

// Runner produces reports from a book source.
type Runner struct {
	src book.Source
	cfg *config.Config
}

// New returns a Runner reading src with the engine settings in cfg.
func New(src book.Source, cfg *config.Config) *Runner {
	return &Runner{src: src, cfg: cfg}
}

// Config returns the runner's configuration.
func (r *Runner) Config() *config.Config { return r.cfg }

// loaded is a book with the derived structures every report needs.
type loaded struct {
	book      *book.Book
	tree      *hierarchy.Tree
	openings  *model.InitialBalances
	movements []model.Movement // approved voucher lines
}

func (r *Runner) load(ctx context.Context) (*loaded, error) {
	b, err := r.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading book: %w", err)
	}
	tree, err := b.Tree()
	if err != nil {
		return nil, err
	}
	openings, err := b.Openings()
	if err != nil {
		return nil, err
	}
	movs, err := balance.FromVouchers(b.Approved())
	if err != nil {
		return nil, err
	}
	if err := tree.CheckMovements(movs); err != nil {
		return nil, err
	}
	for _, ib := range b.InitialBalances {
		if err := tree.CheckLeaf(ib.SubjectCode); err != nil {
			return nil, fmt.Errorf("initial balance: %w", err)
		}
	}
	return &loaded{book: b, tree: tree, openings: openings, movements: movs}, nil
}

func (r *Runner) workers() int {
	if r.cfg == nil || r.cfg.Engine.Workers < 1 {
		return 1
	}
	return r.cfg.Engine.Workers
}

func (r *Runner) tolerance() (money.Money, error) {
	if r.cfg == nil {
		return money.Zero(), nil
	}
	return r.cfg.Tolerance()
}

func (r *Runner) yearStart(rng model.DateRange) (time.Time, error) {
	if r.cfg == nil {
		return time.Time{}, nil
	}
	return r.cfg.FiscalYearContaining(rng.End)
}

// parallel calls fn for every index in [0, n) on at most workers goroutines and
// stops at the first error. fn writes its result by index so output order
// follows input order.
func parallel(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
