package cli

import (
	"github.com/spf13/cobra"

	"github.com/zatoshilabs/zord/internal/config"
	"github.com/zatoshilabs/zord/internal/harness"
)

// NewIntegrityCommand creates the integrity command.
func NewIntegrityCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CommandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Audit every token's supply against its holder balances",
		Long: `Fetch the token listing and each token's integrity report. Tokens the
indexer reports as inconsistent are printed in full.

With --cross-check the holder balances of every consistent token are
summed locally and compared with the reported supply.

Example:
  zordcheck integrity --base http://127.0.0.1:8080
  zordcheck integrity --cross-check --concurrency 4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhases(cmd, opts, "integrity", harness.PhaseIntegrity)
		},
	}

	opts.addBaseFlags(cmd)
	cmd.Flags().Lookup("base").Usage = "indexer base URL (default " + config.DefaultIntegrityBaseURL + ")"
	opts.addConcurrencyFlag(cmd)
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "token listing page size (default 500)")
	cmd.Flags().BoolVar(&opts.CrossCheck, "cross-check", false, "recompute holder sums for consistent tokens")

	return cmd
}
