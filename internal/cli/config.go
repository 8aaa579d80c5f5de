package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/zatoshilabs/zord/internal/config"
)

// CommandOptions holds the per-command flags. Only flags that were set
// on the command line override the resolved configuration.
type CommandOptions struct {
	*RootOptions
	Base        string
	Timeout     time.Duration
	Concurrency int
	Limit       int
	Scan        int
	CrossCheck  bool
	Tick        string
	Address     string
}

func (o *CommandOptions) addBaseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Base, "base", "", "indexer base URL (default "+config.DefaultBaseURL+")")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", 0, "per-request timeout (default 20s)")
}

func (o *CommandOptions) addConcurrencyFlag(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.Concurrency, "concurrency", 0, "maximum requests in flight (default 1)")
}

func (o *CommandOptions) addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Tick, "tick", "", "validate this token's detail record")
	cmd.Flags().StringVar(&o.Address, "address", "", "validate this holder's balance (requires --tick)")
}

// resolveConfig layers defaults, environment, config file and flags, then
// validates the result.
func resolveConfig(cmd *cobra.Command, opts *CommandOptions, command string) (config.Config, error) {
	cfg := config.Default()

	lookup, err := config.Environ(opts.EnvFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}

	if opts.ConfigFile != "" {
		if err := cfg.LoadFile(opts.ConfigFile); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.Format
	}
	if flags.Changed("record") {
		cfg.RecordDB = opts.Record
	}
	if flags.Changed("pushgateway") {
		cfg.PushGateway = opts.PushGateway
	}
	if flags.Changed("base") {
		cfg.BaseURL = opts.Base
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.Timeout
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = opts.Concurrency
	}
	if flags.Changed("scan") {
		cfg.InscriptionScan = opts.Scan
	}
	if flags.Changed("cross-check") {
		cfg.CrossCheck = opts.CrossCheck
	}
	if flags.Changed("tick") {
		cfg.Tick = opts.Tick
	}
	if flags.Changed("address") {
		cfg.Address = opts.Address
	}
	if flags.Changed("limit") {
		switch command {
		case "smoke":
			cfg.TokenLimit = opts.Limit
		case "integrity":
			cfg.IntegrityLimit = opts.Limit
		case "validate":
			cfg.ValidateLimit = opts.Limit
		}
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
