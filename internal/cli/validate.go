package cli

import (
	"github.com/spf13/cobra"

	"github.com/zatoshilabs/zord/internal/harness"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CommandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate token listing, detail and balance fields",
		Long: `Check that every listed token has a ticker, supply and max, and a
progress within [0, 1]. With --tick the token's detail record is checked;
with --address as well, that holder's balance.

The status and token listing fetches are required: if either fails the
command exits 1.

Example:
  zordcheck validate
  zordcheck validate --tick zatz --address t1abc`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhases(cmd, opts, "validate", harness.PhaseValidate)
		},
	}

	opts.addBaseFlags(cmd)
	opts.addTargetFlags(cmd)
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "token listing page size (default 200)")

	return cmd
}
