// Package audit checks every listed token's integrity report and collects
// the tokens whose supply does not reconcile with their holder balances.
//
// By default the indexer's own "consistent" verdict is trusted. With
// CrossCheck enabled the auditor also pages through each consistent
// token's holders and recomputes the sum itself.
package audit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/zatoshilabs/zord/internal/indexer"
)

// Drift sources.
const (
	SourceIndexer    = "indexer"
	SourceRecomputed = "recomputed"
)

// Drift is a token whose aggregate supply does not reconcile.
type Drift struct {
	Ticker string                  `json:"ticker"`
	Source string                  `json:"source"`
	Report indexer.IntegrityReport `json:"report"`

	// Recomputed is the holder sum computed locally, set for
	// SourceRecomputed only.
	Recomputed string `json:"recomputed,omitempty"`
}

// Skip is a token that could not be judged.
type Skip struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// Result is the outcome of one audit.
type Result struct {
	Tokens   int      `json:"tokens"`
	Checked  int      `json:"checked"`
	Drift    []Drift  `json:"drift"`
	Skipped  []Skip   `json:"skipped"`
	Failures []string `json:"failures"`
}

// Failed reports whether the audit found drift or could not fetch a report.
func (r *Result) Failed() bool {
	return len(r.Drift) > 0 || len(r.Failures) > 0
}

// Options configures an Auditor.
type Options struct {
	// Limit is the page size of the token listing.
	Limit int

	// Concurrency bounds the number of tokens audited at once.
	Concurrency int

	// CrossCheck recomputes holder sums for tokens the indexer reports
	// as consistent.
	CrossCheck bool

	// HolderPageSize and MaxHolderPages bound the cross-check walk.
	HolderPageSize int
	MaxHolderPages int
}

// DefaultOptions returns the settings used against a production indexer.
func DefaultOptions() Options {
	return Options{
		Limit:          500,
		Concurrency:    1,
		HolderPageSize: 100,
		MaxHolderPages: 1000,
	}
}

// Auditor runs integrity audits.
type Auditor struct {
	api    *indexer.API
	opts   Options
	logger *slog.Logger
}

// New creates an auditor. A nil logger discards output.
func New(api *indexer.API, opts Options, logger *slog.Logger) *Auditor {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.HolderPageSize < 1 {
		opts.HolderPageSize = DefaultOptions().HolderPageSize
	}
	if opts.MaxHolderPages < 1 {
		opts.MaxHolderPages = DefaultOptions().MaxHolderPages
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Auditor{api: api, opts: opts, logger: logger}
}

// verdict is the per-token result, merged in listing order.
type verdict struct {
	tick    string
	checked bool
	drift   *Drift
	skip    *Skip
	failure string
}

// Run lists tokens and audits each one. Only a failure to fetch the
// listing itself is returned as an error; everything per token is
// recorded in the result.
func (a *Auditor) Run(ctx context.Context) (*Result, error) {
	page, err := a.api.Tokens(ctx, 0, a.opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("token listing: %w", err)
	}

	res := &Result{
		Tokens:   len(page.Items),
		Drift:    []Drift{},
		Skipped:  []Skip{},
		Failures: []string{},
	}

	verdicts := make([]verdict, len(page.Items))

	var g errgroup.Group
	g.SetLimit(a.opts.Concurrency)
	for i, item := range page.Items {
		tick := item.Tick()
		if tick == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			verdicts[i] = a.auditToken(ctx, tick)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, v := range verdicts {
		if v.tick == "" {
			continue
		}
		if v.checked {
			res.Checked++
		}
		switch {
		case v.drift != nil:
			res.Drift = append(res.Drift, *v.drift)
		case v.skip != nil:
			res.Skipped = append(res.Skipped, *v.skip)
		case v.failure != "":
			res.Failures = append(res.Failures, v.failure)
		}
	}
	return res, nil
}

func (a *Auditor) auditToken(ctx context.Context, tick string) verdict {
	v := verdict{tick: tick}

	report, err := a.api.Integrity(ctx, tick)
	if err != nil {
		a.logger.Info("integrity fetch failed", "tick", tick, "error", err)
		v.failure = fmt.Sprintf("%s -> %v", indexer.IntegrityPath(tick), err)
		return v
	}

	// A token delisted between the listing and this fetch answers with
	// an error member; that is not drift.
	if report.Error.Truthy() {
		a.logger.Debug("audit skip", "tick", tick, "error", report.Error.String())
		v.skip = &Skip{Ticker: tick, Reason: report.Error.String()}
		return v
	}

	v.checked = true
	if !report.Consistent.Truthy() {
		v.drift = &Drift{Ticker: tick, Source: SourceIndexer, Report: *report}
		return v
	}

	if a.opts.CrossCheck {
		a.crossCheck(ctx, tick, report, &v)
	}
	return v
}

// crossCheck recomputes the holder sum of a token the indexer reports as
// consistent and records drift when it disagrees with the reported supply.
func (a *Auditor) crossCheck(ctx context.Context, tick string, report *indexer.IntegrityReport, v *verdict) {
	supply, ok := report.Supply.Rat()
	if !ok {
		v.skip = &Skip{Ticker: tick, Reason: "cross-check: supply is not numeric"}
		return
	}

	sum, err := a.sumHolders(ctx, tick)
	if err != nil {
		a.logger.Info("cross-check failed", "tick", tick, "error", err)
		v.failure = fmt.Sprintf("%s -> cross-check: %v", indexer.HoldersPath(tick, 0, a.opts.HolderPageSize), err)
		return
	}

	if sum.Cmp(supply) != 0 {
		a.logger.Info("recomputed drift", "tick", tick, "supply", supply.RatString(), "sum", sum.RatString())
		v.drift = &Drift{
			Ticker:     tick,
			Source:     SourceRecomputed,
			Report:     *report,
			Recomputed: sum.RatString(),
		}
	}
}

// sumHolders pages through a token's balance listing and sums "overall".
// The indexer may serve fewer rows than requested, so a short page does not
// end the walk: an empty page does, or reaching the listing's total.
func (a *Auditor) sumHolders(ctx context.Context, tick string) (*big.Rat, error) {
	sum := new(big.Rat)
	size := a.opts.HolderPageSize
	seen := 0

	for p := 0; p < a.opts.MaxHolderPages; p++ {
		hp, err := a.api.Holders(ctx, tick, p, size)
		if err != nil {
			return nil, err
		}
		if len(hp.Holders) == 0 {
			return sum, nil
		}
		for _, h := range hp.Holders {
			v, ok := h.Overall.Rat()
			if !ok {
				return nil, fmt.Errorf("holder %s: overall %s is not numeric", h.Address.String(), h.Overall.String())
			}
			sum.Add(sum, v)
		}
		seen += len(hp.Holders)
		if total, ok := hp.Total.Float(); ok && float64(seen) >= total {
			return sum, nil
		}
	}
	return nil, fmt.Errorf("more than %d pages of holders", a.opts.MaxHolderPages)
}
