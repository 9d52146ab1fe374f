// Package api is the HTTP client for the music backend. It is deliberately
// thin: one best-effort call per user action, no caching, no retries.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tunetui/tunetui/domain"
)

// NetworkError is returned for transport failures and non-success statuses.
// Callers render it as a generic retry-able message.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Source is the search-and-stream surface the rest of the application
// depends on, so screens and the controller can be tested with fakes.
type Source interface {
	SearchSongs(ctx context.Context, query string) ([]domain.Song, error)
	StreamURL(videoID string) string
	CheckHealth(ctx context.Context) bool
}

// Client talks to the backend search/stream API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// SearchSongs queries the backend for songs matching query. Empty queries
// are the caller's responsibility to skip; this method always issues the
// request it is given.
func (c *Client) SearchSongs(ctx context.Context, query string) ([]domain.Song, error) {
	requestURL := fmt.Sprintf("%s/api/search?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &NetworkError{Op: "search", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "search", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &NetworkError{
			Op:  "search",
			Err: errors.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var dtos []songDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, &NetworkError{Op: "search", Err: errors.Wrap(err, "decode response")}
	}

	c.log.Debug().Str("query", query).Int("results", len(dtos)).Msg("search completed")
	return toDomainSongs(dtos), nil
}

// StreamURL builds the streaming endpoint URL for a video id. Pure string
// construction: no network call, no validation of the id.
func (c *Client) StreamURL(videoID string) string {
	return fmt.Sprintf("%s/api/stream/%s", c.baseURL, videoID)
}

// CheckHealth probes the backend. Best effort: any failure is swallowed
// and reported as false.
func (c *Client) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Msg("health probe failed")
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
