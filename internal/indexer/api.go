// Package indexer describes the HTTP surface of the zord indexer as typed,
// optional-field records and wraps the fetch client with one method per
// endpoint family.
//
// Records decode tolerantly: unknown members are ignored and every member
// of interest is a Field, so a missing key is observable rather than fatal.
package indexer

import (
	"context"
	"encoding/json"

	"github.com/zatoshilabs/zord/internal/fetch"
)

// API is a typed view over the indexer's listing and detail endpoints.
type API struct {
	client *fetch.Client
}

// NewAPI wraps a fetch client.
func NewAPI(client *fetch.Client) *API {
	return &API{client: client}
}

// Client returns the underlying fetch client.
func (a *API) Client() *fetch.Client {
	return a.client
}

func (a *API) Status(ctx context.Context) (*Status, error) {
	var s Status
	if _, err := a.client.GetJSON(ctx, StatusPath(), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (a *API) Tokens(ctx context.Context, page, limit int) (*TokenPage, error) {
	var p TokenPage
	if _, err := a.client.GetJSON(ctx, TokensPath(page, limit), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) Holders(ctx context.Context, tick string, page, limit int) (*HolderPage, error) {
	var p HolderPage
	if _, err := a.client.GetJSON(ctx, HoldersPath(tick, page, limit), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Integrity fetches a token's reconciliation report. A report carrying an
// error member is returned as-is; callers decide how to treat it.
func (a *API) Integrity(ctx context.Context, tick string) (*IntegrityReport, error) {
	var r IntegrityReport
	if _, err := a.client.GetJSON(ctx, IntegrityPath(tick), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Token fetches the top-level token detail route.
func (a *API) Token(ctx context.Context, tick string) (*TokenDetail, error) {
	var d TokenDetail
	if _, err := a.client.GetJSON(ctx, TokenLegacyPath(tick), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (a *API) Balance(ctx context.Context, tick, address string) (*Balance, error) {
	var b Balance
	if _, err := a.client.GetJSON(ctx, BalancePath(tick, address), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (a *API) Names(ctx context.Context, page, limit int) (*NamePage, error) {
	var p NamePage
	if _, err := a.client.GetJSON(ctx, NamesPath(page, limit), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) Inscriptions(ctx context.Context) (*InscriptionFeed, error) {
	var f InscriptionFeed
	if _, err := a.client.GetJSON(ctx, InscriptionsPath(), &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (a *API) BlockHeight(ctx context.Context) (*BlockHeight, error) {
	var h BlockHeight
	if _, err := a.client.GetJSON(ctx, BlockHeightPath(), &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ZRC721Status fetches the NFT module status. The document is opaque.
func (a *API) ZRC721Status(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if _, err := a.client.GetJSON(ctx, ZRC721StatusPath(), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (a *API) Collections(ctx context.Context, page, limit int) (*CollectionPage, error) {
	var p CollectionPage
	if _, err := a.client.GetJSON(ctx, CollectionsPath(page, limit), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (a *API) CollectionTokens(ctx context.Context, collection string, page, limit int) (*CollectionTokenPage, error) {
	var p CollectionTokenPage
	if _, err := a.client.GetJSON(ctx, CollectionTokensPath(collection, page, limit), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Transfer fetches a transfer inscription and returns a SemanticError when
// the indexer answers with a truthy error member or with a document that
// is not an object.
func (a *API) Transfer(ctx context.Context, id string) (*Transfer, error) {
	var t Transfer
	path := TransferPath(id)
	body, err := a.client.GetJSON(ctx, path, &t)
	if err != nil {
		return nil, err
	}
	if _, isObject, err := ErrorOf(body); err != nil || !isObject {
		return nil, &SemanticError{Path: path, Message: "transfer is not an object"}
	}
	if t.Error.Truthy() {
		return nil, &SemanticError{Path: path, Message: t.Error.String()}
	}
	return &t, nil
}
