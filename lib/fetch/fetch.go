// Package fetch issues single JSON requests against a REST backend.
//
// A request either completes, in which case the response body is returned
// as JSON regardless of the HTTP status, or fails in transport, in which case
// the fixed ErrTransport is returned. There is no retry and no client-side
// timeout; callers bound a request through its context.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrTransport is the only error a request reports. Network failures,
// cancelled contexts and unserializable bodies all collapse into it.
var ErrTransport = errors.New("error")

// null is returned for bodies that are empty or not valid JSON.
var null = json.RawMessage("null")

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends JSON requests.
type Client struct {
	http   Doer
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client. By default it uses an *http.Client without timeout.
func New(opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request sends one request with method to url. A non-nil body is encoded
// as JSON. The returned value is the response body as JSON; bodies that do
// not parse are returned as JSON null. Status codes are not inspected.
func (c *Client) Request(ctx context.Context, url, method string, body any) (json.RawMessage, error) {
	if method == "" {
		method = http.MethodGet
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, ErrTransport
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, ErrTransport
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "request failed", "method", method, "url", url, "err", err)
		return nil, ErrTransport
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrTransport
	}
	c.logger.DebugContext(ctx, "request",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !json.Valid(raw) {
		return null, nil
	}
	return json.RawMessage(raw), nil
}
