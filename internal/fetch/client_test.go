package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsUserAgentAndEncodedPath(t *testing.T) {
	var gotUA, gotRawPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotRawPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	resp, err := c.Get(context.Background(), "/token/é")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "application/json", resp.ContentType())
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "/token/%C3%A9", gotRawPath)
}

func TestClientCustomUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithUserAgent("zordcheck-test")).Get(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "zordcheck-test", gotUA)
}

func TestClientGetReturnsNon200WithoutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Get(context.Background(), "/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.Equal(t, "?", resp.ContentType())
}

func TestGetJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var v map[string]any
	_, err := New(srv.URL).GetJSON(context.Background(), "/api/v1/status", &v)
	require.Error(t, err)
	assert.True(t, IsHTTPStatus(err))
	assert.Equal(t, http.StatusServiceUnavailable, StatusOf(err))
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestGetJSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	var v map[string]any
	body, err := New(srv.URL).GetJSON(context.Background(), "/api/v1/status", &v)
	require.Error(t, err)
	assert.True(t, IsDecode(err))
	assert.False(t, IsHTTPStatus(err))
	assert.Equal(t, "<html>not json</html>", string(body))
}

func TestGetJSONDecodesNumbersLosslessly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"supply":123456789012345678901234567890}`))
	}))
	defer srv.Close()

	var v map[string]any
	_, err := New(srv.URL).GetJSON(context.Background(), "/", &v)
	require.NoError(t, err)
	assert.Equal(t, json.Number("123456789012345678901234567890"), v["supply"])
}

func TestTransportErrorOnRefusedConnection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url).Get(context.Background(), "/api/v1/status")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.Contains(t, err.Error(), "network error")
}

func TestTransportErrorOnTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, WithTimeout(50*time.Millisecond)).Get(context.Background(), "/slow")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.Timeout())
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	var v map[string]any
	err := Decode([]byte(`{"a":1}{"b":2}`), &v)
	require.Error(t, err)
}

func TestDecodeKeepsNumbers(t *testing.T) {
	var v map[string]any
	require.NoError(t, Decode([]byte(`{"a":1}`+"\n"), &v))
	assert.Equal(t, json.Number("1"), v["a"])
}
