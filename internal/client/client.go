// Package client is the REST client of the vendor inventory API and its
// typed endpoint groups.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/vendor-inventory/internal/obs"
)

// RequestIDHeader is propagated to the upstream API for correlation.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID stores the correlation id forwarded on upstream requests.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// TokenSource yields the bearer token of the current session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client issues authenticated JSON requests against the inventory API.
// It never retries and sets no timeout of its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	observe    func(method string, status int, elapsed time.Duration)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers a hook called once per request with the response
// status, or 0 when no response was received, and the round trip time.
func WithObserver(f func(method string, status int, elapsed time.Duration)) Option {
	return func(c *Client) { c.observe = f }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends exactly one request. body, when non-nil, is encoded as JSON; a
// non-empty response body is decoded into out (which may be nil).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshalling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID(ctx))

	// A missing session is not fatal here; the API rejects the request.
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			obs.Logger.Debug("api_request_unauthenticated", "path", path, "error", err)
		} else if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	obs.Logger.Debug("api_request", "method", method, "path", path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(method, 0, time.Since(start))
		return &NetworkError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()
	c.record(method, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, URL: url, Err: fmt.Errorf("error reading response: %w", err)}
	}
	text := string(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		obs.Logger.Warn("api_error", "method", method, "path", path, "status", resp.StatusCode)
		return &APIError{Status: resp.StatusCode, Body: text}
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}
	if out == nil {
		if !json.Valid(raw) {
			return &MalformedResponseError{Status: resp.StatusCode, Body: text, Err: errors.New("invalid JSON")}
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedResponseError{Status: resp.StatusCode, Body: text, Err: err}
	}
	return nil
}

func (c *Client) record(method string, status int, elapsed time.Duration) {
	if c.observe != nil {
		c.observe(method, status, elapsed)
	}
}

// Ack is the raw acknowledgment of a mutating call. It is advisory only:
// callers re-read the affected resource to display authoritative state.
type Ack json.RawMessage

func (a Ack) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(a).MarshalJSON()
}

func (a *Ack) UnmarshalJSON(data []byte) error {
	*a = append((*a)[:0], data...)
	return nil
}

// Decode unmarshals the acknowledgment into v.
func (a Ack) Decode(v any) error {
	if len(a) == 0 {
		return nil
	}
	return json.Unmarshal(a, v)
}

func (c *Client) mutate(ctx context.Context, method, path string, body any) (Ack, error) {
	var ack Ack
	if err := c.Do(ctx, method, path, body, &ack); err != nil {
		return nil, err
	}
	return ack, nil
}
