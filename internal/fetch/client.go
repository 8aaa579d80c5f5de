// Package fetch is the HTTP layer of the harness.
//
// A Client issues single GET requests against the indexer base URL with an
// explicit timeout and client identifier. It never retries: one request,
// one outcome. Failures are reported with the typed errors in errors.go so
// callers can tell a dead network from a bad status or a malformed body.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "zord-smoke/1.0"
)

// Client issues GET requests relative to a base URL.
type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

// Option configures Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithUserAgent sets the client identifier sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the given base URL. Trailing slashes are trimmed
// so paths can always start with "/".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL builds the request URL for a raw (unencoded) path.
func (c *Client) URL(path string) string {
	return c.baseURL + EncodePath(path)
}

// Response is the raw result of a GET request.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// ContentType returns the Content-Type header, or "?" when absent.
func (r *Response) ContentType() string {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "?"
}

// Get fetches path (relative to the base URL) and returns the response
// whatever its status code. Only network-level failures return an error,
// always as *TransportError.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	url := c.URL(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/html;q=0.9, */*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("read response: %w", err)}
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}, nil
}

// GetJSON fetches path, requires status 200 and decodes the body into v.
// It returns the raw body alongside so callers can keep the verbatim
// document for display.
func (c *Client) GetJSON(ctx context.Context, path string, v any) ([]byte, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return resp.Body, &HTTPStatusError{URL: c.URL(path), Status: resp.Status}
	}
	if err := Decode(resp.Body, v); err != nil {
		return resp.Body, &DecodeError{URL: c.URL(path), Err: err}
	}
	return resp.Body, nil
}

// Decode unmarshals a JSON body. Numbers decoded into interface values are
// kept as json.Number so large integer amounts survive intact.
func Decode(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON document")
	}
	return nil
}
