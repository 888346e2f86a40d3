package commands

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/ledger"
)

func newBalancesCommand(g *globalFlags) *cobra.Command {
	var p periodFlags
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Show the subject balance report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := p.rangeAt(time.Now())
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.reports.SubjectBalances(cmd.Context(), rng)
			if err != nil {
				return err
			}
			if err := res.Trial.Err(); err != nil {
				s.log.WithField("range", rng.String()).Warn(err.Error())
			}
			if g.json {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return printSubjectBalances(cmd.OutOrStdout(), res)
		},
	}
	p.register(cmd)
	return cmd
}

func newTrialCommand(g *globalFlags) *cobra.Command {
	var p periodFlags
	var strict bool
	cmd := &cobra.Command{
		Use:   "trial",
		Short: "Check that the chart's root subjects balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := p.rangeAt(time.Now())
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.reports.TrialBalance(cmd.Context(), rng)
			if err != nil {
				return err
			}
			if g.json {
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				printTrial(cmd.OutOrStdout(), rng, res)
			}
			if err := res.Err(); err != nil {
				s.log.WithField("range", rng.String()).Warn(err.Error())
				if strict {
					return err
				}
			}
			return nil
		},
	}
	p.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when the trial balance does not balance")
	return cmd
}

func newLedgerCommand(g *globalFlags) *cobra.Command {
	var p periodFlags
	var aux, sortBy string
	cmd := &cobra.Command{
		Use:   "ledger <subject-code>",
		Short: "Show the detailed ledger of one subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := p.rangeAt(time.Now())
			if err != nil {
				return err
			}
			sortKey, err := ledger.ParseSortKey(sortBy)
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.reports.DetailLedger(cmd.Context(), args[0], aux, sortKey, rng)
			if err != nil {
				return err
			}
			if g.json {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return printLedger(cmd.OutOrStdout(), res)
		},
	}
	p.register(cmd)
	cmd.Flags().StringVar(&aux, "aux", "", "restrict to lines tagged with this auxiliary key")
	cmd.Flags().StringVar(&sortBy, "sort", string(ledger.ByDate), "row order: date or voucher_code")
	return cmd
}

func newFundsCommand(g *globalFlags) *cobra.Command {
	var p periodFlags
	cmd := &cobra.Command{
		Use:   "funds",
		Short: "Summarize the cash journal by fund account and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := p.rangeAt(time.Now())
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.reports.FundSummary(cmd.Context(), rng)
			if err != nil {
				return err
			}
			if g.json {
				return printJSON(cmd.OutOrStdout(), res)
			}
			return printFunds(cmd.OutOrStdout(), res)
		},
	}
	p.register(cmd)
	return cmd
}

func newReconcileCommand(g *globalFlags) *cobra.Command {
	var p periodFlags
	var details string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare fund account balances with the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := p.rangeAt(time.Now())
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()

			if details != "" {
				d, err := s.reports.DiffDetails(cmd.Context(), details, rng)
				if err != nil {
					return err
				}
				if g.json {
					return printJSON(cmd.OutOrStdout(), d)
				}
				return printDetails(cmd.OutOrStdout(), d)
			}

			rows, err := s.reports.Reconcile(cmd.Context(), rng)
			if err != nil {
				return err
			}
			for _, r := range rows {
				if !r.Diff.IsZero() {
					s.log.WithFields(logrus.Fields{"account": r.FundAccountID, "diff": r.Diff.String()}).Warn("fund account does not reconcile")
				}
			}
			if g.json {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			return printReconciliation(cmd.OutOrStdout(), rng, rows)
		},
	}
	p.register(cmd)
	cmd.Flags().StringVar(&details, "details", "", "list the entries behind the difference for this fund account")
	return cmd
}
