package indexer

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Status is the /api/v1/status document.
type Status struct {
	Height       Field `json:"height"`
	Tokens       Field `json:"tokens"`
	Names        Field `json:"names"`
	Inscriptions Field `json:"inscriptions"`
}

// TokenSummary is one entry of the token listing.
type TokenSummary struct {
	Ticker   Field `json:"ticker"`
	Supply   Field `json:"supply"`
	Max      Field `json:"max"`
	Progress Field `json:"progress"`
}

// Tick returns the ticker, or "" when missing or not a scalar.
func (t TokenSummary) Tick() string {
	return t.Ticker.Text()
}

// TokenPage is the token listing (/api/v1/tokens).
type TokenPage struct {
	Items []TokenSummary `json:"items"`
}

// TokenDetail is a single token (/token/{tick} or /api/v1/zrc20/token/{tick}).
type TokenDetail struct {
	Tick   Field `json:"tick"`
	Max    Field `json:"max"`
	Lim    Field `json:"lim"`
	Dec    Field `json:"dec"`
	Supply Field `json:"supply"`
	Error  Field `json:"error"`
}

// Missing returns the names of required detail members absent from the
// document. A member present as null is not reported.
func (d TokenDetail) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		field Field
	}{
		{"max", d.Max},
		{"lim", d.Lim},
		{"dec", d.Dec},
		{"supply", d.Supply},
	} {
		if !f.field.Present() {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Holder is one entry of a token's balance listing.
type Holder struct {
	Address   Field `json:"address"`
	Available Field `json:"available"`
	Overall   Field `json:"overall"`
}

// HolderPage is a token's balance listing.
type HolderPage struct {
	Holders []Holder `json:"holders"`
	Total   Field    `json:"total"`
}

// IntegrityReport is the indexer's own reconciliation verdict for a token.
// Raw keeps the document verbatim for display.
type IntegrityReport struct {
	Ticker     Field `json:"ticker"`
	Consistent Field `json:"consistent"`
	Supply     Field `json:"supply"`
	SumOverall Field `json:"sumOverall"`
	Error      Field `json:"error"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known members and keeps the full document.
func (r *IntegrityReport) UnmarshalJSON(b []byte) error {
	type plain IntegrityReport
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = IntegrityReport(p)
	r.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// MarshalJSON emits the verbatim document.
func (r IntegrityReport) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// Indent renders the verbatim document as indented JSON.
func (r IntegrityReport) Indent() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw, "", "  "); err != nil {
		return string(r.Raw)
	}
	return buf.String()
}

// Balance is a holder's balance for one token.
type Balance struct {
	Tick      Field `json:"tick"`
	Address   Field `json:"address"`
	Available Field `json:"available"`
	Overall   Field `json:"overall"`
	Error     Field `json:"error"`
}

// Missing returns the names of required balance members that are absent.
func (b Balance) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		field Field
	}{
		{"tick", b.Tick},
		{"address", b.Address},
		{"available", b.Available},
		{"overall", b.Overall},
	} {
		if !f.field.Present() {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// NameRecord is one entry of the name listing.
type NameRecord struct {
	Name  Field `json:"name"`
	Owner Field `json:"owner"`
}

// NamePage is the name listing (/api/v1/names).
type NamePage struct {
	Items []NameRecord `json:"items"`
}

// Inscription is one entry of the inscription feed.
type Inscription struct {
	ID   Field           `json:"id"`
	Meta json.RawMessage `json:"meta"`
}

// TxID returns meta.txid when meta is an object carrying one.
func (i Inscription) TxID() string {
	if len(i.Meta) == 0 {
		return ""
	}
	var meta struct {
		TxID Field `json:"txid"`
	}
	if err := json.Unmarshal(i.Meta, &meta); err != nil {
		return ""
	}
	return meta.TxID.Text()
}

// InscriptionFeed is the inscription listing. The indexer serves either a
// bare array or an object with an "items" array.
type InscriptionFeed struct {
	Items []Inscription
}

// UnmarshalJSON accepts both feed shapes.
func (f *InscriptionFeed) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &f.Items)
	}
	var obj struct {
		Items []Inscription `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("inscription feed: %w", err)
	}
	f.Items = obj.Items
	return nil
}

// BlockHeight is the /block/height document.
type BlockHeight struct {
	Height Field `json:"height"`
}

// Collection is one entry of the ZRC-721 collection listing.
type Collection struct {
	Collection Field `json:"collection"`
}

// CollectionPage is the ZRC-721 collection listing.
type CollectionPage struct {
	Collections []Collection `json:"collections"`
}

// CollectionToken is one NFT inside a collection.
type CollectionToken struct {
	TokenID Field `json:"token_id"`
}

// CollectionTokenPage is a collection's token listing.
type CollectionTokenPage struct {
	Tokens []CollectionToken `json:"tokens"`
}

// Transfer is a ZRC-20 transfer inscription. Only the error member is
// interpreted; the rest of the document is opaque.
type Transfer struct {
	Error Field `json:"error"`
}
