package cli

import (
	"github.com/spf13/cobra"

	"github.com/zatoshilabs/zord/internal/harness"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CommandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run smoke, integrity and validate in one report",
		Long: `Run every phase against one indexer and print a single aggregated
report. Page sizes come from the config file or ZORD_* variables.

Example:
  zordcheck check --base http://127.0.0.1:3000 --record runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhases(cmd, opts, "check", harness.AllPhases...)
		},
	}

	opts.addBaseFlags(cmd)
	opts.addConcurrencyFlag(cmd)
	opts.addTargetFlags(cmd)
	cmd.Flags().IntVar(&opts.Scan, "scan", 0, "inscriptions scanned for a transfer sample (default 25)")
	cmd.Flags().BoolVar(&opts.CrossCheck, "cross-check", false, "recompute holder sums for consistent tokens")

	return cmd
}
