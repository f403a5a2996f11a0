// Package sdk is an HTTP client for the simsearch API. Use it from
// services that talk to a deployed simsearch server; for direct access
// to the backing store, use the root simsearch package instead.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultTimeout = 30 * time.Second

// SessionHeader carries the caller's session identity.
const SessionHeader = "X-Session-ID"

// Sentinel errors mapped from API error codes. Use errors.Is.
var (
	ErrUnknownDomain    = errors.New("unknown domain")
	ErrEncodingFailure  = errors.New("query encoding failed")
	ErrIndexUnavailable = errors.New("vector index unavailable")
	ErrNoActiveSearch   = errors.New("no active search for session")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Client talks to a simsearch server.
type Client struct {
	baseURL   string
	apiKey    string
	sessionID string
	http      *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithSession pins the session identity for this client. Every search
// and paginate call shares one cached result set per session.
func WithSession(sessionID string) Option {
	return func(c *Client) { c.sessionID = sessionID }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs a similarity search and returns the first page. The
// server replaces this session's cached result set.
func (c *Client) Search(ctx context.Context, domain, keyword string) (Page, error) {
	body, err := json.Marshal(searchRequest{Domain: domain, Keyword: keyword})
	if err != nil {
		return Page{}, fmt.Errorf("marshal search request: %w", err)
	}

	var page Page
	if err := c.do(ctx, http.MethodPost, "/search", bytes.NewReader(body), &page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// Paginate fetches a page of the session's last result set.
func (c *Client) Paginate(ctx context.Context, page int) (Page, error) {
	path := "/paginate?page=" + url.QueryEscape(strconv.Itoa(page))

	var out Page
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return Page{}, err
	}
	return out, nil
}

// Health reports the server's component health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()

	// /health answers with a body on both 200 and 503.
	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("decode health response: %w", err)
	}
	return h, nil
}

func (c *Client) do(ctx context.Context, method, path string, body *bytes.Reader, out any) error {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.sessionID != "" {
		req.Header.Set(SessionHeader, c.sessionID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseAPIError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var apiErr errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	sentinel := map[string]error{
		"unknown_domain":    ErrUnknownDomain,
		"encoding_failure":  ErrEncodingFailure,
		"index_unavailable": ErrIndexUnavailable,
		"no_active_search":  ErrNoActiveSearch,
	}
	if s, ok := sentinel[apiErr.Code]; ok {
		return fmt.Errorf("%w: %s", s, apiErr.Message)
	}
	return fmt.Errorf("api error %s: %s", apiErr.Code, apiErr.Message)
}
