package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatoshilabs/zord/internal/fakeindexer"
	"github.com/zatoshilabs/zord/internal/fetch"
	"github.com/zatoshilabs/zord/internal/indexer"
)

func discover(t *testing.T, f *fakeindexer.Fixture) (*Result, *fakeindexer.Server) {
	t.Helper()
	fake := fakeindexer.New(f)
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	eng := New(indexer.NewAPI(fetch.New(srv.URL)), DefaultLimits(), nil)
	return eng.Discover(context.Background()), fake
}

func value(t *testing.T, o interface{ Get() (string, bool) }) string {
	t.Helper()
	v, ok := o.Get()
	require.True(t, ok, "expected sample to be present")
	return v
}

func TestDiscoverFindsEverySample(t *testing.T) {
	res, _ := discover(t, fakeindexer.Default())
	s := res.Samples

	assert.Equal(t, "zatz", value(t, s.Tick))
	assert.Equal(t, "t1alice", value(t, s.Holder))
	assert.Equal(t, "alice.zec", value(t, s.Name))
	assert.Equal(t, "t1alice", value(t, s.NameOwner))
	assert.Equal(t, "9f1ci0", value(t, s.Inscription))
	assert.Equal(t, "9f1c", value(t, s.TxID))
	assert.Equal(t, "3021337", value(t, s.Height))
	assert.Equal(t, "zpunks", value(t, s.Collection))
	assert.Equal(t, "1", value(t, s.NFTID))
	assert.Equal(t, "7a2bi0", value(t, s.Transfer))
	assert.Equal(t, "t1alice", value(t, s.Address()))

	for _, step := range res.Steps {
		assert.True(t, step.OK, "step %s failed: %s", step.Name, step.Error)
	}
}

func TestDiscoverWithoutTokensFallsBackToNameOwner(t *testing.T) {
	f := fakeindexer.Default()
	f.Tokens = nil
	f.Names = []fakeindexer.Name{{Name: "carol.zec", Owner: "t1carol"}}

	res, fake := discover(t, f)
	s := res.Samples

	assert.False(t, s.Tick.IsSome())
	assert.False(t, s.Holder.IsSome())
	assert.Equal(t, "t1carol", value(t, s.Address()))
	assert.Zero(t, fake.Hits("/api/v1/zrc20/token/zatz/balances"))
}

func TestDiscoverToleratesFailedSteps(t *testing.T) {
	f := fakeindexer.Default()
	f.Overrides = map[string]fakeindexer.Response{
		"/api/v1/names":              {Status: http.StatusInternalServerError, Body: "boom"},
		"/block/height":              {Body: "not json"},
		"/api/v1/zrc721/collections": {Status: http.StatusNotFound},
	}

	res, fake := discover(t, f)
	s := res.Samples

	assert.False(t, s.Name.IsSome())
	assert.False(t, s.NameOwner.IsSome())
	assert.False(t, s.Height.IsSome())
	assert.False(t, s.Collection.IsSome())
	assert.False(t, s.NFTID.IsSome())
	assert.Zero(t, fake.Hits("/api/v1/zrc721/collection/zpunks/tokens"))

	assert.Equal(t, "zatz", value(t, s.Tick))
	assert.Equal(t, "9f1ci0", value(t, s.Inscription))
	assert.Equal(t, "7a2bi0", value(t, s.Transfer))

	failed := map[string]bool{}
	for _, step := range res.Steps {
		if !step.OK {
			failed[step.Name] = true
		}
	}
	assert.Equal(t, map[string]bool{"names": true, "height": true, "collections": true}, failed)
}

func TestDiscoverAcceptsBareInscriptionFeed(t *testing.T) {
	f := fakeindexer.Default()
	f.BareInscriptionFeed = true

	res, _ := discover(t, f)
	assert.Equal(t, "9f1ci0", value(t, res.Samples.Inscription))
	assert.Equal(t, "9f1c", value(t, res.Samples.TxID))
}

func TestTransferScanStopsAtFirstSuccess(t *testing.T) {
	f := fakeindexer.Default()
	f.Inscriptions = []fakeindexer.Inscription{
		{ID: "a0i0", TxID: "a0"},
		{ID: "b0i0", TxID: "b0", Transfer: true},
		{ID: "c0i0", TxID: "c0", Transfer: true},
	}

	res, fake := discover(t, f)
	assert.Equal(t, "b0i0", value(t, res.Samples.Transfer))
	assert.Equal(t, 1, fake.Hits("/api/v1/zrc20/transfer/a0i0"))
	assert.Equal(t, 1, fake.Hits("/api/v1/zrc20/transfer/b0i0"))
	assert.Zero(t, fake.Hits("/api/v1/zrc20/transfer/c0i0"))
}

func TestTransferScanIsBounded(t *testing.T) {
	f := fakeindexer.Default()
	f.Inscriptions = nil
	for i := 0; i < 30; i++ {
		f.Inscriptions = append(f.Inscriptions, fakeindexer.Inscription{ID: string(rune('a'+i%26)) + "x" + string(rune('0'+i/26)) + "i0"})
	}
	f.Inscriptions[27].Transfer = true

	res, fake := discover(t, f)
	assert.False(t, res.Samples.Transfer.IsSome())
	assert.Zero(t, fake.Hits("/api/v1/zrc20/transfer/"+f.Inscriptions[27].ID))
	assert.Equal(t, 1, fake.Hits("/api/v1/zrc20/transfer/"+f.Inscriptions[24].ID))
}

func TestTransferScanSkipsNonObjectReplies(t *testing.T) {
	f := fakeindexer.Default()
	f.Inscriptions = []fakeindexer.Inscription{
		{ID: "a0i0", TxID: "a0", Transfer: true},
		{ID: "b0i0", TxID: "b0", Transfer: true},
		{ID: "c0i0", TxID: "c0", Transfer: true},
	}
	f.Overrides = map[string]fakeindexer.Response{
		"/api/v1/zrc20/transfer/a0i0": {Body: "null"},
		"/api/v1/zrc20/transfer/b0i0": {Body: `"ok"`},
	}

	res, fake := discover(t, f)
	assert.Equal(t, "c0i0", value(t, res.Samples.Transfer))
	assert.Equal(t, 1, fake.Hits("/api/v1/zrc20/transfer/a0i0"))
	assert.Equal(t, 1, fake.Hits("/api/v1/zrc20/transfer/b0i0"))
}
