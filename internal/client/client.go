// ABOUTME: HTTP transport for the Bloom Refresh backend services
// ABOUTME: Builds JSON requests, attaches bearer tokens and classifies responses

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the per-request timeout enforced by the transport
const DefaultTimeout = 30 * time.Second

// maxBodyBytes caps how much of a response body is read
const maxBodyBytes = 10 << 20

// Request describes one logical call. Body is kept as a value and marshalled
// on every attempt, so a replay sends the same bytes.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// ID is sent as X-Request-ID and kept across a replay
	ID string

	retried bool
}

// MarkRetried flags the request as replayed. It returns false if the request
// was already flagged, so a caller can never retry the same request twice.
func (r *Request) MarkRetried() bool {
	if r.retried {
		return false
	}
	r.retried = true
	return true
}

// Retried reports whether the request has been replayed
func (r *Request) Retried() bool {
	return r.retried
}

// Client is the raw backend client. It knows nothing about sessions; callers
// pass the token to attach.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AttachToken returns a copy of req carrying the bearer token. An empty token
// leaves the request unauthenticated.
func AttachToken(req *http.Request, token string) *http.Request {
	out := req.Clone(req.Context())
	if token == "" {
		out.Header.Del("Authorization")
		return out
	}
	out.Header.Set("Authorization", "Bearer "+token)
	return out
}

// HandleResponse returns the body of a 2xx response, or an *APIError built
// from the body's message field.
func HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: DefaultErrorMessage,
		Body:    body,
	}
	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		apiErr.Message = errResp.Message
	}
	return nil, apiErr
}

// build turns a Request into an *http.Request. Errors here mean the request
// could not be constructed and are returned unchanged.
func (c *Client) build(ctx context.Context, r *Request) (*http.Request, error) {
	u := c.baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", r.ID)
	return req, nil
}

// Send performs a single attempt of r with the given token. It never retries.
func (c *Client) Send(ctx context.Context, r *Request, token string) ([]byte, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	req, err := c.build(ctx, r)
	if err != nil {
		return nil, err
	}
	req = AttachToken(req, token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		terr := &TransportError{URL: c.baseURL, Err: err}
		slog.Debug("Request failed without response",
			"request_id", r.ID, "method", req.Method, "path", r.Path,
			"timeout", terr.Timeout(), "error", err)
		return nil, terr
	}
	defer resp.Body.Close()

	slog.Debug("Request completed",
		"request_id", r.ID, "method", req.Method, "path", r.Path,
		"status", resp.StatusCode, "duration", time.Since(start), "retried", r.retried)

	return HandleResponse(resp)
}

// Decode unmarshals a response body into out. A nil out or empty body is a no-op.
func Decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}
