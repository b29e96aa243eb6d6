package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/einvoice/constants"
	"github.com/joseph-ayodele/einvoice/internal/policy"
)

func newRequirementsCmd(c *cli) *cobra.Command {
	var all, builtinOnly bool
	cmd := &cobra.Command{
		Use:   "requirements [USE_CASE]",
		Short: "Print the mandatory fields for a use case",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := policy.NewTable()
			if !builtinOnly {
				table = policy.LoadTable(c.logger, c.cfg.Policy.MandatoryPath, c.cfg.Policy.SpecificPath)
			}

			if all {
				tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				for _, uc := range constants.AllUseCases() {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", uc, uc.Label(), len(table.Effective(uc)))
				}
				return tw.Flush()
			}

			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			uc, known := constants.ParseUseCase(input)
			if !known {
				c.logger.Warn("unknown use case, using default extension", "use_case", uc)
			}
			fmt.Fprintf(c.out, "%s (%s)\n", uc, uc.Label())
			for _, f := range table.Effective(uc) {
				fmt.Fprintf(c.out, "  %s\n", f)
			}
			if d := table.Divergence(); !d.Empty() && !builtinOnly {
				fmt.Fprintf(c.out, "\nexternal tables add fields for %d use case(s); base additions: %v\n", len(d.UseCases()), d.Base)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "list every use case with its label and field count")
	cmd.Flags().BoolVar(&builtinOnly, "builtin", false, "ignore external requirement tables")
	return cmd
}
