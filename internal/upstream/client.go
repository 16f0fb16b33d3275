// Package upstream is the HTTP client for the Headless RAG API. The BFF
// treats upstream payloads as opaque bytes: it forwards bodies verbatim and
// attaches service credentials plus the caller's identity.
package upstream

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Outbound headers added to every proxied request.
const (
	APIKeyHeader    = "X-API-Key"
	UserEmailHeader = "X-User-Email"
)

// Client issues requests to the upstream service. Buffered calls are bounded
// by a client timeout; streaming calls are bounded only by the caller's
// context, since a RAG answer may legitimately stream for longer than any
// fixed request budget.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	stream  *http.Client
}

// New creates a Client for the given base URL. timeout applies to buffered
// requests only.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		stream:  &http.Client{},
	}
}

// Do issues a buffered request to path. The caller owns the response body.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, email string) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, path, body, email)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

// Stream issues a request whose response may be an unbounded event stream.
// Cancelling ctx terminates the upstream read.
func (c *Client) Stream(ctx context.Context, method, path string, body io.Reader, email string) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, path, body, email)
	if err != nil {
		return nil, err
	}
	return c.stream.Do(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, email string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set(UserEmailHeader, email)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
