package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/zatoshilabs/zord/internal/audit"
	"github.com/zatoshilabs/zord/internal/discovery"
	"github.com/zatoshilabs/zord/internal/indexer"
	"github.com/zatoshilabs/zord/internal/probe"
	"github.com/zatoshilabs/zord/internal/registry"
	"github.com/zatoshilabs/zord/internal/report"
	"github.com/zatoshilabs/zord/internal/runid"
	"github.com/zatoshilabs/zord/internal/validate"
)

// Harness runs verification phases against one indexer.
type Harness struct {
	api    *indexer.API
	opts   Options
	now    Clock
	ids    runid.Generator
	logger *slog.Logger
}

// Option customizes a Harness.
type Option func(*Harness)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(h *Harness) { h.now = c }
}

// WithRunID replaces the run id generator.
func WithRunID(g runid.Generator) Option {
	return func(h *Harness) { h.ids = g }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// New creates a harness. By default it uses time.Now, UUIDv7 run ids and
// a discarding logger.
func New(api *indexer.API, opts Options, options ...Option) *Harness {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	h := &Harness{
		api:    api,
		opts:   opts,
		now:    time.Now,
		ids:    runid.UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range options {
		o(h)
	}
	return h
}

// Run executes phases in order and returns the merged report.
//
// A *SetupError aborts the run; the phases completed so far stay in the
// returned report. On cancellation the partial report is returned with
// ctx.Err().
func (h *Harness) Run(ctx context.Context, phases ...Phase) (*report.RunReport, error) {
	started := h.now()
	r := &report.RunReport{
		RunID:   h.ids.Generate(),
		Command: h.opts.Command,
		BaseURL: h.api.Client().BaseURL(),
		Started: started,
	}
	h.logger.Info("run started", "run_id", r.RunID, "command", r.Command, "base", r.BaseURL)

	for _, phase := range phases {
		t0 := h.now()
		var err error
		switch phase {
		case PhaseSmoke:
			var s *report.Smoke
			s, err = h.smoke(ctx)
			if s != nil {
				s.Elapsed = h.now().Sub(t0)
				r.Smoke = s
			}
		case PhaseIntegrity:
			var res *audit.Result
			res, err = h.integrity(ctx)
			if res != nil {
				r.Integrity = &report.Integrity{Result: res, Elapsed: h.now().Sub(t0)}
			}
		case PhaseValidate:
			var res *validate.Result
			res, err = h.validate(ctx)
			if res != nil {
				r.Validation = &report.Validation{Result: res, Elapsed: h.now().Sub(t0)}
			}
		default:
			err = fmt.Errorf("unknown phase %q", phase)
		}

		if err != nil {
			r.Elapsed = h.now().Sub(started)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return r, ctxErr
			}
			return r, err
		}
		h.logger.Debug("phase complete", "phase", phase)
	}

	r.Elapsed = h.now().Sub(started)
	h.logger.Info("run complete", "run_id", r.RunID, "failures", len(r.Failures()))
	return r, nil
}

// smoke runs the status preflight, discovery, registry build and probes.
// A failed preflight is recorded, not fatal.
func (h *Harness) smoke(ctx context.Context) (*report.Smoke, error) {
	s := &report.Smoke{}

	status, err := h.api.Status(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		h.logger.Info("status preflight failed", "error", err)
		s.StatusError = err.Error()
	} else {
		s.Status = &report.StatusSummary{
			Height: status.Height.String(),
			Tokens: status.Tokens.String(),
			Names:  status.Names.String(),
		}
	}

	limits := discovery.DefaultLimits()
	limits.Tokens = h.opts.TokenLimit
	limits.TransferScan = h.opts.InscriptionScan
	disc := discovery.New(h.api, limits, h.logger).Discover(ctx)
	s.Discovery = disc.Steps
	if err := ctx.Err(); err != nil {
		return s, err
	}

	reg := registry.Build(disc.Samples)
	s.Parameterized = reg.Parameterized()
	h.logger.Info("registry built", "endpoints", reg.Len(), "parameterized", s.Parameterized)

	outcomes, err := probe.NewExecutor(h.api.Client(), h.opts.Concurrency, h.logger).Run(ctx, reg.Specs())
	s.Outcomes = outcomes
	return s, err
}

func (h *Harness) integrity(ctx context.Context) (*audit.Result, error) {
	opts := audit.DefaultOptions()
	opts.Limit = h.opts.IntegrityLimit
	opts.Concurrency = h.opts.Concurrency
	opts.CrossCheck = h.opts.CrossCheck

	res, err := audit.New(h.api, opts, h.logger).Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &SetupError{Phase: PhaseIntegrity, Err: err}
	}
	return res, nil
}

func (h *Harness) validate(ctx context.Context) (*validate.Result, error) {
	opts := validate.Options{
		Limit:   h.opts.ValidateLimit,
		Tick:    h.opts.Tick,
		Address: h.opts.Address,
	}
	res, err := validate.New(h.api, opts, h.logger).Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &SetupError{Phase: PhaseValidate, Err: err}
	}
	return res, nil
}
