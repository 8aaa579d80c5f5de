// Package registry expands discovered samples into the ordered set of
// endpoints to probe.
package registry

import (
	"github.com/zatoshilabs/zord/internal/discovery"
	"github.com/zatoshilabs/zord/internal/optional"
)

// Kind is the expected response kind of an endpoint.
type Kind string

const (
	KindJSON  Kind = "json"
	KindHTML  Kind = "html"
	KindBytes Kind = "bytes"
)

// Endpoint groups. Static and feed endpoints need no sample.
const (
	GroupStatic       = "static"
	GroupFeed         = "feed"
	GroupToken        = "token"
	GroupTokenAddress = "token+address"
	GroupCollection   = "collection"
	GroupNFT          = "nft"
	GroupName         = "name"
	GroupOwner        = "owner"
	GroupInscription  = "inscription"
	GroupTransfer     = "transfer"
	GroupHeight       = "height"
	GroupTx           = "tx"
	GroupAddress      = "address"
	GroupCompat       = "compat"
)

// EndpointSpec is one route to probe. Path is raw; the fetch client
// encodes it.
type EndpointSpec struct {
	Path  string `json:"path"`
	Kind  Kind   `json:"kind"`
	Group string `json:"group"`
}

// Parameterized reports whether the endpoint was built from a sample.
func (e EndpointSpec) Parameterized() bool {
	switch e.Group {
	case GroupStatic, GroupFeed, GroupCompat:
		return false
	}
	return true
}

// Registry is an insertion-ordered set of endpoints keyed by path.
// The zero value is ready to use.
type Registry struct {
	specs []EndpointSpec
	seen  map[string]struct{}
}

// Add registers an endpoint. A path already present is ignored, so the
// first registration wins. Add reports whether the endpoint was new.
func (r *Registry) Add(spec EndpointSpec) bool {
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	if _, dup := r.seen[spec.Path]; dup {
		return false
	}
	r.seen[spec.Path] = struct{}{}
	r.specs = append(r.specs, spec)
	return true
}

func (r *Registry) addAll(group string, kind Kind, paths ...string) {
	for _, p := range paths {
		r.Add(EndpointSpec{Path: p, Kind: kind, Group: group})
	}
}

// Specs returns the endpoints in first-registration order.
func (r *Registry) Specs() []EndpointSpec {
	out := make([]EndpointSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Len returns the number of unique endpoints.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Parameterized returns how many endpoints were built from samples.
func (r *Registry) Parameterized() int {
	n := 0
	for _, s := range r.specs {
		if s.Parameterized() {
			n++
		}
	}
	return n
}

// StaticPages are the HTML pages served without parameters.
var StaticPages = []string{
	"/",
	"/tokens",
	"/names",
	"/names/zec",
	"/names/zcash",
	"/collections",
	"/zrc721",
	"/docs",
	"/spec",
	"/api",
}

// Feeds are the JSON listings served without parameters.
var Feeds = []string{
	"/api/v1/inscriptions",
	"/api/v1/tokens?page=0&limit=24",
	"/api/v1/names?page=0&limit=24",
	"/api/v1/names/zec?page=0&limit=24",
	"/api/v1/names/zcash?page=0&limit=24",
	"/api/v1/status",
	"/api/v1/zrc20/status",
	"/api/v1/zrc20/tokens?page=0&limit=24",
	"/api/v1/zrc721/status",
	"/api/v1/zrc721/collections?page=0&limit=24",
	"/api/v1/healthz",
}

// CompatAliases are legacy routes kept for older clients.
var CompatAliases = []string{
	"/status",
	"/health",
	"/inscriptions",
	"/tokens/list",
	"/names/list",
	"/inscription/number/0",
}

// Build expands samples into the full endpoint set. Each parameterized
// group is registered only when every sample it needs is present.
func Build(s discovery.Samples) *Registry {
	r := &Registry{}

	r.addAll(GroupStatic, KindHTML, StaticPages...)
	r.addAll(GroupFeed, KindJSON, Feeds...)

	if tick, ok := s.Tick.Get(); ok {
		r.addAll(GroupToken, KindJSON,
			"/token/"+tick,
			"/api/v1/zrc20/token/"+tick,
			"/api/v1/zrc20/token/"+tick+"/summary",
			"/api/v1/zrc20/token/"+tick+"/balances?page=0&limit=10",
			"/api/v1/zrc20/token/"+tick+"/integrity",
			"/api/v1/zrc20/token/"+tick+"/burned",
		)
	}

	address := s.Address()
	if p, ok := optional.Zip(s.Tick, address).Get(); ok {
		tick, addr := p.First, p.Second
		r.addAll(GroupTokenAddress, KindJSON,
			"/token/"+tick+"/balance/"+addr,
			"/api/v1/zrc20/address/"+addr,
			"/api/v1/zrc20/token/"+tick+"/rank/"+addr,
		)
	}

	if c, ok := s.Collection.Get(); ok {
		r.Add(EndpointSpec{Path: "/collection/" + c, Kind: KindHTML, Group: GroupCollection})
		r.addAll(GroupCollection, KindJSON,
			"/api/v1/zrc721/collection/"+c,
			"/api/v1/zrc721/collection/"+c+"/tokens?page=0&limit=10",
		)
	}
	if p, ok := optional.Zip(s.Collection, s.NFTID).Get(); ok {
		r.addAll(GroupNFT, KindJSON, "/api/v1/zrc721/token/"+p.First+"/"+p.Second)
	}

	if name, ok := s.Name.Get(); ok {
		r.addAll(GroupName, KindJSON,
			"/name/"+name,
			"/resolve/"+name,
			"/api/v1/resolve/"+name,
		)
	}

	if owner, ok := s.NameOwner.Get(); ok {
		r.addAll(GroupOwner, KindJSON, "/api/v1/names/address/"+owner)
	}

	if id, ok := s.Inscription.Get(); ok {
		r.Add(EndpointSpec{Path: "/inscription/" + id, Kind: KindHTML, Group: GroupInscription})
		r.Add(EndpointSpec{Path: "/content/" + id, Kind: KindBytes, Group: GroupInscription})
		r.Add(EndpointSpec{Path: "/preview/" + id, Kind: KindHTML, Group: GroupInscription})
	}

	if id, ok := s.Transfer.Get(); ok {
		r.addAll(GroupTransfer, KindJSON, "/api/v1/zrc20/transfer/"+id)
	}

	if h, ok := s.Height.Get(); ok {
		r.addAll(GroupHeight, KindJSON, "/block/"+h)
	}

	if txid, ok := s.TxID.Get(); ok {
		r.addAll(GroupTx, KindJSON, "/tx/"+txid)
	}

	if addr, ok := address.Get(); ok {
		r.addAll(GroupAddress, KindJSON, "/address/"+addr+"/inscriptions")
	}

	r.addAll(GroupCompat, KindJSON, CompatAliases...)

	return r
}
