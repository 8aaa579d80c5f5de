package cli

import (
	"github.com/spf13/cobra"

	"github.com/zatoshilabs/zord/internal/harness"
)

// NewSmokeCommand creates the smoke command.
func NewSmokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CommandOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Discover samples and probe every reachable endpoint",
		Long: `Probe the indexer's pages, JSON feeds and every parameterized endpoint
that discovered samples make reachable.

Discovery reads the indexer's own listings for a token, holder, name,
inscription, transfer, block height and collection. Endpoint groups whose
samples are missing are skipped, never failed.

Example:
  zordcheck smoke --base http://127.0.0.1:3000
  zordcheck smoke --concurrency 8 --format table`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPhases(cmd, opts, "smoke", harness.PhaseSmoke)
		},
	}

	opts.addBaseFlags(cmd)
	opts.addConcurrencyFlag(cmd)
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "token listing page size used for discovery (default 50)")
	cmd.Flags().IntVar(&opts.Scan, "scan", 0, "inscriptions scanned for a transfer sample (default 25)")

	return cmd
}
