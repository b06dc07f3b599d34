// Package api is the HTTP client for the commit-analytics backend. It
// owns the endpoint contract: URL shapes, query-parameter omission
// rules, and the error taxonomy (transport failure, structured non-2xx
// response, malformed response shape).
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/commitpulse/commitpulse/pkg/debug"
)

// DefaultTimeout bounds any single backend request. Status polls and
// view fetches share it; the 5 s poll cadence stays above the expected
// round trip so overlapping polls are not started intentionally.
const DefaultTimeout = 30 * time.Second

// StatusError is a non-2xx response whose body carried a structured
// message. Error() returns the backend message verbatim so callers can
// surface it to the user unchanged.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned HTTP %d", e.Code)
}

// ShapeError is a 2xx response whose body did not match the expected
// shape. It is distinct from StatusError so callers can tell a broken
// contract from a refused request.
type ShapeError struct {
	Endpoint string
	Cause    error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape from %s: %v", e.Endpoint, e.Cause)
}

func (e *ShapeError) Unwrap() error { return e.Cause }

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client talks to one backend instance. It is safe for concurrent use;
// SetToken is the only mutator and replaces the value atomically enough
// for the single-threaded UI loop that calls it.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the given base URL ("https://host[:port]").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken replaces the bearer token, e.g. after a config hot reload.
func (c *Client) SetToken(token string) { c.token = token }

// get issues a GET and decodes the 2xx body into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, path, out)
}

// post issues a POST with a JSON body and decodes the 2xx body into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, endpoint, err)
	}
	defer resp.Body.Close()
	debug.Log("%s %s -> %d (%v)", req.Method, endpoint, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("%s %s: reading body: %w", req.Method, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ShapeError{Endpoint: endpoint, Cause: err}
	}
	return nil
}

// errorMessage pulls the structured message out of an error body. The
// backend uses both {"message": ...} and {"error": ...} envelopes.
func errorMessage(raw []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
