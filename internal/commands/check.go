package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/book"
)

func newCheckCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the book's integrity rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer s.Close()

			b, err := s.src.Load(cmd.Context())
			if err != nil {
				return err
			}
			problems := book.Validate(b)
			if g.json {
				if problems == nil {
					problems = []book.ValidationError{}
				}
				if err := printJSON(cmd.OutOrStdout(), problems); err != nil {
					return err
				}
			} else {
				printProblems(cmd.OutOrStdout(), problems)
			}
			for _, p := range problems {
				s.log.WithField("rule", string(p.Rule)).WithField("ref", p.Ref).Warn(p.Description)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problem(s) found", len(problems))
			}
			return nil
		},
	}
}
