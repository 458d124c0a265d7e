// Package lastfm is a minimal client for the Last.fm user.getrecenttracks
// API. It fetches the single most recent listening event for a user and
// normalizes it into a track record.
package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/nowsync/nowsync/internal/track"
)

// DefaultBaseURL is the Last.fm API 2.0 endpoint.
const DefaultBaseURL = "https://ws.audioscrobbler.com/2.0/"

// DefaultTimeout is the per-request HTTP timeout.
const DefaultTimeout = 10 * time.Second

const (
	// maxAttempts bounds retries for server-side failures.
	maxAttempts = 5
	// baseBackoff is the first retry delay; it doubles per attempt.
	baseBackoff = 100 * time.Millisecond
)

// Error represents a failure while fetching from Last.fm.
type Error struct {
	StatusCode int
	Message    string
	Cause      error
	// Retryable marks transport errors and the 500/502/503/504 family.
	// Client errors and malformed responses are never retried.
	Retryable bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lastfm: %s: %v", e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("lastfm: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("lastfm: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Config holds the client configuration.
type Config struct {
	APIKey string
	User   string

	// BaseURL overrides the API endpoint, primarily for tests.
	BaseURL string
	// HTTPClient overrides the default client (10s timeout).
	HTTPClient *http.Client
	// Limiter throttles outgoing requests, retries included. Defaults to
	// one request per second, which is what Last.fm asks of clients.
	Limiter *rate.Limiter
}

// Client fetches the current track for a single user.
type Client struct {
	apiKey  string
	user    string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient validates the configuration and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("lastfm: API key required")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("lastfm: user required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.Limiter == nil {
		cfg.Limiter = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	return &Client{
		apiKey:  cfg.APIKey,
		user:    cfg.User,
		baseURL: cfg.BaseURL,
		http:    cfg.HTTPClient,
		limiter: cfg.Limiter,
	}, nil
}

// CurrentTrack returns the most recent listening event for the configured
// user. Server-side failures (transport errors, 500/502/503/504) are retried
// with exponential backoff up to maxAttempts; anything else fails
// immediately. All four track fields must be present in the response.
func (c *Client) CurrentTrack(ctx context.Context) (*track.Track, error) {
	var lastErr error
	backoff := baseBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Message: "rate limiter wait", Cause: err}
		}

		t, err := c.fetchOnce(ctx)
		if err == nil {
			return t, nil
		}
		lastErr = err

		var apiErr *Error
		if !errors.As(err, &apiErr) || !apiErr.Retryable {
			return nil, err
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, &Error{Message: "retry canceled", Cause: ctx.Err()}
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("lastfm: giving up after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) (*track.Track, error) {
	q := url.Values{}
	q.Set("method", "user.getrecenttracks")
	q.Set("user", c.user)
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &Error{Message: "failed to create request", Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: "HTTP request failed", Cause: err, Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused across retries.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    "unexpected status",
			Retryable:  retryableStatus(resp.StatusCode),
		}
	}

	var body recentTracksResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &Error{Message: "malformed response body", Cause: err}
	}

	events := body.RecentTracks.Track
	if len(events) == 0 {
		return nil, &Error{Message: "no recent tracks in response"}
	}

	ev := events[0]
	t := &track.Track{
		Artist: ev.Artist.Text,
		Name:   ev.Name,
		Album:  ev.Album.Text,
		URL:    ev.URL,
	}
	if t.Artist == "" || t.Name == "" || t.Album == "" || t.URL == "" {
		return nil, &Error{Message: "response missing required track fields"}
	}
	return t, nil
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
