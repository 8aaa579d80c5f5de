package fakeindexer

// Token is a ZRC-20 token served by the fake.
type Token struct {
	Ticker   string
	Supply   string
	Max      string
	Lim      string
	Dec      int
	Progress float64
	Burned   string
	Holders  []Holder

	// Integrity replaces the computed integrity report when non-nil.
	Integrity map[string]any
}

// Holder is a balance entry of a token.
type Holder struct {
	Address   string
	Available string
	Overall   string
}

// Name is a registered name record.
type Name struct {
	Name  string
	Owner string
}

// Inscription is an inscription served by the feed. Transfer marks ids that
// resolve as ZRC-20 transfer inscriptions.
type Inscription struct {
	ID          string
	TxID        string
	Address     string
	ContentType string
	Content     string
	Transfer    bool
}

// Collection is a ZRC-721 collection and its token ids.
type Collection struct {
	ID       string
	TokenIDs []string
}

// Response is a canned reply used by Fixture.Overrides.
type Response struct {
	Status      int
	ContentType string
	Body        string
}

// Fixture is the full data set behind a fake indexer.
type Fixture struct {
	Height       int64
	Tokens       []Token
	Names        []Name
	Inscriptions []Inscription
	Collections  []Collection

	// BareInscriptionFeed serves /api/v1/inscriptions as a JSON array
	// instead of an {"items": [...]} object.
	BareInscriptionFeed bool

	// MaxPageSize clamps the limit of every paged listing when positive.
	MaxPageSize int

	// OmitHolderTotal drops "total" from token balance listings.
	OmitHolderTotal bool

	// Overrides replaces the reply for an exact decoded request path,
	// query string excluded.
	Overrides map[string]Response
}

// Default returns a small consistent data set covering every sample kind,
// including a non-ASCII ticker and a name with a reserved character.
func Default() *Fixture {
	return &Fixture{
		Height: 3021337,
		Tokens: []Token{
			{
				Ticker:   "zatz",
				Supply:   "1000",
				Max:      "21000",
				Lim:      "100",
				Dec:      8,
				Progress: 0.047,
				Burned:   "0",
				Holders: []Holder{
					{Address: "t1alice", Available: "500", Overall: "600"},
					{Address: "t1bob", Available: "400", Overall: "400"},
				},
			},
			{
				Ticker:   "zörd",
				Supply:   "50",
				Max:      "100",
				Lim:      "10",
				Dec:      0,
				Progress: 0.5,
				Burned:   "0",
				Holders: []Holder{
					{Address: "t1carol", Available: "50", Overall: "50"},
				},
			},
		},
		Names: []Name{
			{Name: "alice.zec", Owner: "t1alice"},
			{Name: "b:ob.zcash", Owner: "t1bob"},
		},
		Inscriptions: []Inscription{
			{ID: "9f1ci0", TxID: "9f1c", Address: "t1alice", ContentType: "text/plain", Content: "hello"},
			{ID: "7a2bi0", TxID: "7a2b", Address: "t1bob", ContentType: "application/json", Content: `{"p":"zrc-20","op":"transfer","tick":"zatz","amt":"5"}`, Transfer: true},
		},
		Collections: []Collection{
			{ID: "zpunks", TokenIDs: []string{"1", "2"}},
		},
	}
}

func (f *Fixture) token(tick string) *Token {
	for i := range f.Tokens {
		if f.Tokens[i].Ticker == tick {
			return &f.Tokens[i]
		}
	}
	return nil
}

func (f *Fixture) collection(id string) *Collection {
	for i := range f.Collections {
		if f.Collections[i].ID == id {
			return &f.Collections[i]
		}
	}
	return nil
}

func (f *Fixture) inscription(id string) *Inscription {
	for i := range f.Inscriptions {
		if f.Inscriptions[i].ID == id {
			return &f.Inscriptions[i]
		}
	}
	return nil
}

func (f *Fixture) name(n string) *Name {
	for i := range f.Names {
		if f.Names[i].Name == n {
			return &f.Names[i]
		}
	}
	return nil
}
