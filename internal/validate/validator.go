package validate

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/zatoshilabs/zord/internal/indexer"
)

// Options configures a Validator.
type Options struct {
	// Limit is the page size of the token listing.
	Limit int

	// Tick enables token detail validation. Address additionally enables
	// balance validation and is ignored without Tick.
	Tick    string
	Address string
}

// BalanceSummary echoes a validated balance.
type BalanceSummary struct {
	Tick      string `json:"tick"`
	Address   string `json:"address"`
	Available string `json:"available"`
	Overall   string `json:"overall"`
}

// Result is the outcome of one validation run.
type Result struct {
	Height       string          `json:"height"`
	Inscriptions string          `json:"inscriptions"`
	Tokens       int             `json:"tokens"`
	ListingValid bool            `json:"listing_valid"`
	Tick         string          `json:"tick,omitempty"`
	TickSupply   string          `json:"tick_supply,omitempty"`
	Balance      *BalanceSummary `json:"balance,omitempty"`
	Problems     []string        `json:"problems"`
}

// Failed reports whether any problem was found.
func (r *Result) Failed() bool {
	return len(r.Problems) > 0
}

// Validator runs the listing, detail and balance checks against an indexer.
type Validator struct {
	api    *indexer.API
	opts   Options
	logger *slog.Logger
}

// New creates a validator. A nil logger discards output.
func New(api *indexer.API, opts Options, logger *slog.Logger) *Validator {
	if opts.Limit < 1 {
		opts.Limit = 200
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Validator{api: api, opts: opts, logger: logger}
}

// Run validates the indexer. The status and token listing fetches are
// required: their failure is returned as an error. Every later problem is
// collected in the result.
func (v *Validator) Run(ctx context.Context) (*Result, error) {
	status, err := v.api.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	res := &Result{
		Height:       status.Height.String(),
		Inscriptions: status.Inscriptions.String(),
		Problems:     []string{},
	}

	page, err := v.api.Tokens(ctx, 0, v.opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("token listing: %w", err)
	}
	res.Tokens = len(page.Items)
	if len(page.Items) == 0 {
		res.Problems = append(res.Problems, "No tokens returned by "+indexer.TokensPath(0, v.opts.Limit))
	}
	res.Problems = append(res.Problems, Tokens(page.Items)...)
	res.ListingValid = len(res.Problems) == 0
	v.logger.Debug("token listing validated", "tokens", res.Tokens, "problems", len(res.Problems))

	if v.opts.Tick == "" {
		return res, nil
	}
	tick := v.opts.Tick
	res.Tick = tick

	detail, err := v.api.Token(ctx, tick)
	if err != nil {
		res.Problems = append(res.Problems, fmt.Sprintf("Token %s: %v", tick, err))
		return res, nil
	}
	if err := Tick(tick, detail); err != nil {
		res.Problems = append(res.Problems, indexer.SemanticMessage(err))
		return res, nil
	}
	res.TickSupply = detail.Supply.String()

	if v.opts.Address == "" {
		return res, nil
	}
	bal, err := v.api.Balance(ctx, tick, v.opts.Address)
	if err != nil {
		res.Problems = append(res.Problems, fmt.Sprintf("Balance query error: %v", err))
		return res, nil
	}
	if err := Balance(tick, v.opts.Address, bal); err != nil {
		res.Problems = append(res.Problems, indexer.SemanticMessage(err))
		return res, nil
	}
	res.Balance = &BalanceSummary{
		Tick:      bal.Tick.String(),
		Address:   bal.Address.String(),
		Available: bal.Available.String(),
		Overall:   bal.Overall.String(),
	}
	return res, nil
}
