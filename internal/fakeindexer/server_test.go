package fakeindexer

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, srv *httptest.Server, path string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var doc map[string]any
	if resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(body, &doc))
	}
	return resp.StatusCode, doc
}

func TestDefaultIntegrityIsConsistent(t *testing.T) {
	srv := httptest.NewServer(New(Default()))
	defer srv.Close()

	status, doc := get(t, srv, "/api/v1/zrc20/token/zatz/integrity")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, doc["consistent"])
	assert.Equal(t, "1000", doc["sumOverall"])
}

func TestEscapedParamsAreDecoded(t *testing.T) {
	srv := httptest.NewServer(New(Default()))
	defer srv.Close()

	_, doc := get(t, srv, "/name/b%3Aob.zcash")
	assert.Equal(t, "t1bob", doc["owner"])

	_, doc = get(t, srv, "/api/v1/zrc20/token/z%C3%B6rd")
	assert.Equal(t, "zörd", doc["tick"])
}

func TestUnknownTokenAnswersWithErrorMember(t *testing.T) {
	srv := httptest.NewServer(New(Default()))
	defer srv.Close()

	status, doc := get(t, srv, "/token/nope")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "token not found", doc["error"])
}

func TestOverridesAndHits(t *testing.T) {
	f := Default()
	f.Overrides = map[string]Response{
		"/api/v1/healthz": {Status: http.StatusServiceUnavailable, Body: `{"status":"down"}`},
	}
	fake := New(f)
	srv := httptest.NewServer(fake)
	defer srv.Close()

	status, doc := get(t, srv, "/api/v1/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "down", doc["status"])

	get(t, srv, "/api/v1/healthz")
	assert.Equal(t, 2, fake.Hits("/api/v1/healthz"))
	assert.Equal(t, 2, fake.TotalHits())
}

func TestTokenListingPagination(t *testing.T) {
	srv := httptest.NewServer(New(Default()))
	defer srv.Close()

	_, doc := get(t, srv, "/api/v1/tokens?page=1&limit=1")
	items, ok := doc["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "zörd", items[0].(map[string]any)["ticker"])
}

func TestStaticPagesAreHTML(t *testing.T) {
	srv := httptest.NewServer(New(Default()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/docs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
