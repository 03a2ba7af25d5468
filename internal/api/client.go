package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody limits how much of an error response is read.
const maxErrorBody = 64 << 10

// Client talks to the Parser Engine REST API.
//
// A Client is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger

	timeout      time.Duration
	proxyAddress string
	headers      map[string]string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Proxy and header
// options are ignored when it is set.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithProxy routes backend traffic through the SOCKS5 proxy at
// address ("host:port").
func WithProxy(address string) Option {
	return func(cl *Client) {
		cl.proxyAddress = address
	}
}

// WithHeaders adds fixed headers, for example an API gateway key, to every
// request.
func WithHeaders(headers map[string]string) Option {
	return func(cl *Client) {
		cl.headers = headers
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// NewClient returns a client for the backend at baseURL, for example
// "http://localhost:8000". A trailing slash is ignored.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: u,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.http == nil {
		transport, err := newTransport(c.proxyAddress)
		if err != nil {
			return nil, err
		}
		var rt http.RoundTripper = transport
		if len(c.headers) > 0 {
			rt = &headerTransport{base: transport, headers: c.headers}
		}
		c.http = &http.Client{Transport: rt, Timeout: c.timeout}
	}
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidBaseURL
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// endpoint joins path onto the base URL and attaches query.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends a JSON request and decodes a 2xx response body into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	target := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api response",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// errorBody is the shape of FastAPI and generic JSON error responses.
// detail may be a string or a validation error list.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  string          `json:"error"`
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode, Message: defaultErrorMessage}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}

	if msg := detailMessage(body.Detail); msg != "" {
		apiErr.Message = msg
	} else if body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

// detailMessage returns a string detail as is, and any other non-null
// detail as compact JSON.
func detailMessage(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// IsUnreachable reports whether err means the backend could not be reached.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}
