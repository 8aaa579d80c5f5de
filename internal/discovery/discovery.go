// Package discovery finds live sample entities on the indexer so that
// parameterized routes can be probed.
//
// Every lookup is best-effort. A failed or empty lookup leaves its sample
// absent and suppresses the lookups that depend on it; it never aborts the
// run. Lookups execute strictly in order because later steps consume the
// samples of earlier ones.
package discovery

import (
	"context"
	"io"
	"log/slog"

	"github.com/zatoshilabs/zord/internal/indexer"
	"github.com/zatoshilabs/zord/internal/optional"
)

// Limits bounds the page sizes used by discovery lookups.
type Limits struct {
	Tokens           int
	Holders          int
	Names            int
	Collections      int
	CollectionTokens int
	TransferScan     int
}

// DefaultLimits returns the page sizes used against a production indexer.
func DefaultLimits() Limits {
	return Limits{
		Tokens:           50,
		Holders:          25,
		Names:            50,
		Collections:      25,
		CollectionTokens: 10,
		TransferScan:     25,
	}
}

// Samples are the identifiers discovered in one run. Each may be absent.
type Samples struct {
	Tick        optional.Option[string]
	Holder      optional.Option[string]
	Name        optional.Option[string]
	NameOwner   optional.Option[string]
	Inscription optional.Option[string]
	TxID        optional.Option[string]
	Height      optional.Option[string]
	Collection  optional.Option[string]
	NFTID       optional.Option[string]
	Transfer    optional.Option[string]
}

// Address is the address used by address-parameterized routes: the
// discovered token holder, falling back to the first name owner.
func (s Samples) Address() optional.Option[string] {
	return s.Holder.OrElse(s.NameOwner)
}

// Step records the outcome of one discovery lookup.
type Step struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Result is the output of Discover.
type Result struct {
	Samples Samples
	Steps   []Step
}

// Engine runs the discovery sequence against an indexer.
type Engine struct {
	api    *indexer.API
	limits Limits
	logger *slog.Logger
}

// New creates a discovery engine. A nil logger discards output.
func New(api *indexer.API, limits Limits, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{api: api, limits: limits, logger: logger}
}

// Discover runs every lookup in order and returns whatever samples could
// be found. It never fails.
func (e *Engine) Discover(ctx context.Context) *Result {
	res := &Result{}
	var s Samples

	tokens := attempt(e, res, "tokens", func() (*indexer.TokenPage, error) {
		return e.api.Tokens(ctx, 0, e.limits.Tokens)
	})
	s.Tick = optional.AndThen(tokens, firstTicker)

	holders := optional.AndThen(s.Tick, func(tick string) optional.Option[*indexer.HolderPage] {
		return attempt(e, res, "holders", func() (*indexer.HolderPage, error) {
			return e.api.Holders(ctx, tick, 0, e.limits.Holders)
		})
	})
	s.Holder = optional.AndThen(holders, firstHolder)

	names := attempt(e, res, "names", func() (*indexer.NamePage, error) {
		return e.api.Names(ctx, 0, e.limits.Names)
	})
	name := optional.AndThen(names, firstName)
	s.Name = optional.AndThen(name, func(n indexer.NameRecord) optional.Option[string] {
		return optional.NonEmpty(n.Name.Text())
	})
	s.NameOwner = optional.AndThen(name, func(n indexer.NameRecord) optional.Option[string] {
		return optional.NonEmpty(n.Owner.Text())
	})

	feed := attempt(e, res, "inscriptions", func() (*indexer.InscriptionFeed, error) {
		return e.api.Inscriptions(ctx)
	})
	inscription := optional.AndThen(feed, firstInscription)
	s.Inscription = optional.AndThen(inscription, func(i indexer.Inscription) optional.Option[string] {
		return optional.NonEmpty(i.ID.Text())
	})
	s.TxID = optional.AndThen(inscription, func(i indexer.Inscription) optional.Option[string] {
		return optional.NonEmpty(i.TxID())
	})

	height := attempt(e, res, "height", func() (*indexer.BlockHeight, error) {
		return e.api.BlockHeight(ctx)
	})
	s.Height = optional.AndThen(height, func(h *indexer.BlockHeight) optional.Option[string] {
		return optional.NonEmpty(h.Height.Text())
	})

	attempt(e, res, "zrc721-status", func() ([]byte, error) {
		return e.api.ZRC721Status(ctx)
	})

	collections := attempt(e, res, "collections", func() (*indexer.CollectionPage, error) {
		return e.api.Collections(ctx, 0, e.limits.Collections)
	})
	s.Collection = optional.AndThen(collections, firstCollection)

	nfts := optional.AndThen(s.Collection, func(c string) optional.Option[*indexer.CollectionTokenPage] {
		return attempt(e, res, "collection-tokens", func() (*indexer.CollectionTokenPage, error) {
			return e.api.CollectionTokens(ctx, c, 0, e.limits.CollectionTokens)
		})
	})
	s.NFTID = optional.AndThen(nfts, firstNFT)

	s.Transfer = optional.AndThen(feed, func(f *indexer.InscriptionFeed) optional.Option[string] {
		return e.scanTransfers(ctx, res, f.Items)
	})

	res.Samples = s
	e.logger.Debug("discovery complete",
		"tick", s.Tick, "address", s.Address(), "name", s.Name,
		"inscription", s.Inscription, "collection", s.Collection, "transfer", s.Transfer)
	return res
}

// scanTransfers probes the leading inscriptions as transfer lookups and
// returns the first id the indexer resolves without an error.
func (e *Engine) scanTransfers(ctx context.Context, res *Result, items []indexer.Inscription) optional.Option[string] {
	if len(items) > e.limits.TransferScan {
		items = items[:e.limits.TransferScan]
	}
	scanned := 0
	for _, item := range items {
		id := item.ID.Text()
		if id == "" {
			continue
		}
		scanned++
		if _, err := e.api.Transfer(ctx, id); err != nil {
			e.logger.Debug("transfer candidate rejected", "id", id, "error", err)
			continue
		}
		res.Steps = append(res.Steps, Step{Name: "transfer", OK: true})
		return optional.Some(id)
	}
	e.logger.Debug("no transfer inscription found", "scanned", scanned)
	res.Steps = append(res.Steps, Step{Name: "transfer", OK: false, Error: "no transfer inscription found"})
	return optional.None[string]()
}

// attempt runs one best-effort lookup. Errors are logged and recorded,
// never returned.
func attempt[T any](e *Engine, res *Result, step string, call func() (T, error)) optional.Option[T] {
	v, err := call()
	if err != nil {
		e.logger.Debug("discovery step failed", "step", step, "error", err)
		res.Steps = append(res.Steps, Step{Name: step, Error: err.Error()})
		return optional.None[T]()
	}
	e.logger.Debug("discovery step", "step", step)
	res.Steps = append(res.Steps, Step{Name: step, OK: true})
	return optional.Some(v)
}

func firstTicker(p *indexer.TokenPage) optional.Option[string] {
	if len(p.Items) == 0 {
		return optional.None[string]()
	}
	return optional.NonEmpty(p.Items[0].Tick())
}

func firstHolder(p *indexer.HolderPage) optional.Option[string] {
	if len(p.Holders) == 0 {
		return optional.None[string]()
	}
	return optional.NonEmpty(p.Holders[0].Address.Text())
}

func firstName(p *indexer.NamePage) optional.Option[indexer.NameRecord] {
	if len(p.Items) == 0 {
		return optional.None[indexer.NameRecord]()
	}
	return optional.Some(p.Items[0])
}

func firstInscription(f *indexer.InscriptionFeed) optional.Option[indexer.Inscription] {
	if len(f.Items) == 0 {
		return optional.None[indexer.Inscription]()
	}
	return optional.Some(f.Items[0])
}

func firstCollection(p *indexer.CollectionPage) optional.Option[string] {
	if len(p.Collections) == 0 {
		return optional.None[string]()
	}
	return optional.NonEmpty(p.Collections[0].Collection.Text())
}

func firstNFT(p *indexer.CollectionTokenPage) optional.Option[string] {
	if len(p.Tokens) == 0 {
		return optional.None[string]()
	}
	return optional.NonEmpty(p.Tokens[0].TokenID.Text())
}
