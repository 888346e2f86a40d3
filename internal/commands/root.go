package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/buildinfo"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	bookDir string
	envFile string
	json    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Ledger reports and cash reconciliation for small-business books",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&g.bookDir, "book", "C", ".", "book directory containing tally.yaml")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", "", "load environment overrides from this file (default .env if present)")
	rootCmd.PersistentFlags().BoolVar(&g.json, "json", false, "print reports as JSON")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newCheckCommand(g))
	rootCmd.AddCommand(newBalancesCommand(g))
	rootCmd.AddCommand(newTrialCommand(g))
	rootCmd.AddCommand(newLedgerCommand(g))
	rootCmd.AddCommand(newFundsCommand(g))
	rootCmd.AddCommand(newReconcileCommand(g))
	rootCmd.AddCommand(newDBCommand(g))
	rootCmd.AddCommand(newServeCommand(g))

	return rootCmd
}
