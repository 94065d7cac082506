// Package api provides the HTTP client for the chat backend. It
// implements the thread, document, and exchange ports against the
// backend's REST and SSE endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/parley-cli/internal/core/domain"
	"github.com/custodia-labs/parley-cli/internal/core/ports/driven"
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second

	// DefaultRequestsPerSecond bounds outgoing request rate so a
	// misbehaving caller cannot hammer the backend.
	DefaultRequestsPerSecond = 10
)

// Config holds configuration for the backend API client.
type Config struct {
	// BaseURL is the backend base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the request timeout for non-streaming calls
	// (default: 30s). Streaming exchanges are bounded by their
	// context instead.
	Timeout time.Duration

	// RequestsPerSecond caps the outgoing request rate (default: 10).
	RequestsPerSecond float64
}

// Client talks to the chat backend. All requests carry a bearer token
// from the session provider; a 401 invalidates the stored session.
type Client struct {
	client  *http.Client
	stream  *http.Client
	baseURL string
	session driven.SessionProvider
	limiter *rate.Limiter
}

// NewClient creates a backend API client.
func NewClient(cfg Config, session driven.SessionProvider) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		// No client timeout on the streaming path: an exchange lives
		// as long as its context does.
		stream:  &http.Client{},
		baseURL: cfg.BaseURL,
		session: session,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), int(cfg.RequestsPerSecond)),
	}
}

// newRequest builds an authenticated request for the given path.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	// Request IDs let backend logs be correlated with a client session.
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// doJSON sends a JSON request and decodes a JSON response. Pass nil
// for in or out to skip the request body or response decoding.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out != nil {
		return decodeJSON(resp.Body, out)
	}
	return nil
}

func decodeJSON(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkStatus converts a non-2xx response into an error, reading the
// body for the backend's {"detail": ...} message. A 401 invalidates
// the stored session first.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.session.Invalidate(); err != nil {
			return fmt.Errorf("invalidating session: %w", err)
		}
		return domain.ErrSessionExpired
	}

	var errBody struct {
		Detail string `json:"detail"`
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		_ = json.Unmarshal(body, &errBody)
	}
	return &domain.HTTPError{Status: resp.StatusCode, Detail: errBody.Detail}
}

// parseTime handles the backend's ISO 8601 timestamps, which do not
// always carry a timezone offset.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
