package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zatoshilabs/zord/internal/config"
	"github.com/zatoshilabs/zord/internal/fetch"
	"github.com/zatoshilabs/zord/internal/harness"
	"github.com/zatoshilabs/zord/internal/indexer"
	"github.com/zatoshilabs/zord/internal/metrics"
	"github.com/zatoshilabs/zord/internal/report"
	"github.com/zatoshilabs/zord/internal/store"
)

// newLogger returns the diagnostic logger: text on w, Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

// runPhases resolves configuration, runs phases and reports the result.
// The returned error carries the exit code.
func runPhases(cmd *cobra.Command, opts *CommandOptions, command string, phases ...harness.Phase) error {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := resolveConfig(cmd, opts, command)
	if err != nil {
		_ = out.Error(ErrCodeConfig, err.Error(), nil)
		return NewExitError(ExitSetup, "")
	}
	out.Format = cfg.Format

	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	baseURL := cfg.BaseURLFor(command)
	client := fetch.New(baseURL,
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
	)

	hopts := harness.Options{
		Command:         command,
		TokenLimit:      cfg.TokenLimit,
		InscriptionScan: cfg.InscriptionScan,
		IntegrityLimit:  cfg.IntegrityLimit,
		CrossCheck:      cfg.CrossCheck,
		ValidateLimit:   cfg.ValidateLimit,
		Tick:            cfg.Tick,
		Address:         cfg.Address,
		Concurrency:     cfg.Concurrency,
	}
	options := []harness.Option{harness.WithLogger(logger)}
	if opts.Clock != nil {
		options = append(options, harness.WithClock(opts.Clock))
	}
	if opts.RunIDs != nil {
		options = append(options, harness.WithRunID(opts.RunIDs))
	}
	h := harness.New(indexer.NewAPI(client), hopts, options...)

	// SIGINT/SIGTERM cancel the run; tests cancel through ExecuteContext.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Debug("resolved config", "base", baseURL, "timeout", cfg.Timeout, "concurrency", cfg.Concurrency)
	r, err := h.Run(ctx, phases...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			_ = out.Interrupted()
			return NewExitError(ExitInterrupted, "")
		}
		// Phases that finished before the setup error still report.
		if r != nil && r.Phases() > 0 {
			if err := out.Partial(r, ErrCodeSetup, err.Error()); err != nil {
				return WrapExitError(ExitSetup, "write report", err)
			}
			return NewExitError(ExitSetup, "")
		}
		_ = out.Error(ErrCodeSetup, err.Error(), nil)
		return NewExitError(ExitSetup, "")
	}

	if err := out.Report(r); err != nil {
		return WrapExitError(ExitSetup, "write report", err)
	}
	publish(ctx, cfg, r, logger)

	if r.ExitCode() != report.ExitOK {
		return NewExitError(ExitVerification, "")
	}
	return nil
}

// publish records the run and pushes metrics when configured. Neither
// affects the exit status.
func publish(ctx context.Context, cfg config.Config, r *report.RunReport, logger *slog.Logger) {
	if cfg.RecordDB != "" {
		if err := record(ctx, cfg.RecordDB, r); err != nil {
			logger.Error("failed to record run", "db", cfg.RecordDB, "error", err)
		} else {
			logger.Info("run recorded", "db", cfg.RecordDB, "run_id", r.RunID)
		}
	}
	if cfg.PushGateway != "" {
		if err := metrics.Push(ctx, nil, cfg.PushGateway, metrics.DefaultJob, r); err != nil {
			logger.Error("failed to push metrics", "error", err)
		} else {
			logger.Info("metrics pushed", "gateway", cfg.PushGateway)
		}
	}
}

func record(ctx context.Context, path string, r *report.RunReport) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	return st.WriteRun(ctx, r)
}
