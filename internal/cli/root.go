package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zatoshilabs/zord/internal/harness"
	"github.com/zatoshilabs/zord/internal/runid"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "text" | "json" | "table"
	ConfigFile  string
	EnvFile     string
	Record      string
	PushGateway string

	// Clock and RunIDs override the wall clock and run id generator
	// (for testing). If nil, time.Now and UUIDv7 are used.
	Clock  harness.Clock
	RunIDs runid.Generator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "table"}

// NewRootCommand creates the root command for the zordcheck CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zordcheck",
		Short: "Black-box verification harness for the zord indexer",
		Long: `zordcheck probes a running zord indexer over HTTP.

It discovers live sample entities (tokens, holders, names, inscriptions,
collections), builds every endpoint those samples make reachable, probes
them, audits per-token supply integrity and validates record fields.

Exit status: 0 all checks passed, 2 verification failures, 1 setup error,
130 interrupted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitSetup, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|table)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file read for ZORD_* variables")
	cmd.PersistentFlags().StringVar(&opts.Record, "record", "", "append the run to this SQLite database")
	cmd.PersistentFlags().StringVar(&opts.PushGateway, "pushgateway", "", "push run metrics to this Prometheus Pushgateway URL")

	// Add subcommands
	cmd.AddCommand(NewSmokeCommand(opts))
	cmd.AddCommand(NewIntegrityCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
