// Package probe fetches registered endpoints and classifies each response.
package probe

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zatoshilabs/zord/internal/fetch"
	"github.com/zatoshilabs/zord/internal/registry"
)

// Executor probes endpoints with at most Concurrency requests in flight.
type Executor struct {
	client      *fetch.Client
	concurrency int
	logger      *slog.Logger
}

// NewExecutor creates an executor. A concurrency below 1 is treated as 1,
// which probes strictly in order. A nil logger discards output.
func NewExecutor(client *fetch.Client, concurrency int, logger *slog.Logger) *Executor {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{client: client, concurrency: concurrency, logger: logger}
}

// Run probes every spec once and returns one outcome per spec, in spec
// order. A failing endpoint never stops the others. The returned error is
// non-nil only when ctx was cancelled; the outcomes gathered so far are
// still returned.
func (e *Executor) Run(ctx context.Context, specs []registry.EndpointSpec) ([]Outcome, error) {
	outcomes := make([]Outcome, len(specs))

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	launched := 0
	for i, spec := range specs {
		if ctx.Err() != nil {
			break
		}
		launched++
		i, spec := i, spec
		g.Go(func() error {
			outcomes[i] = e.probe(ctx, spec)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return outcomes[:launched], err
	}
	return outcomes, nil
}

// probe fetches and classifies a single endpoint.
func (e *Executor) probe(ctx context.Context, spec registry.EndpointSpec) Outcome {
	start := time.Now()
	resp, err := e.client.Get(ctx, spec.Path)
	o := Classify(spec, resp, err)
	o.Duration = time.Since(start)

	if o.Passed {
		e.logger.Debug("probe", "path", spec.Path, "status", o.Status, "size", o.Size, "duration", o.Duration)
	} else {
		e.logger.Info("probe failed", "path", spec.Path, "reason", o.Detail)
	}
	return o
}

// Passed counts passing outcomes.
func Passed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Passed {
			n++
		}
	}
	return n
}
