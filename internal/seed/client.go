// Package seed fetches the initial user list from the remote mock API.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
	"github.com/rs/zerolog"
	"github.com/user-directory/internal/config"
	"github.com/user-directory/internal/directory"
	"github.com/user-directory/internal/metrics"
	"github.com/user-directory/internal/models"
)

const userAgent = "user-directory/1.0"

// Client fetches the seed payload over HTTP
type Client struct {
	httpClient  *http.Client
	url         string
	maxBodySize int64
	metrics     metrics.Recorder
	log         zerolog.Logger
}

// Verify interface compliance
var _ directory.Source = (*Client)(nil)

// NewClient creates a seed client. A nil recorder disables metrics.
func NewClient(httpClient *http.Client, cfg *config.SeedConfig, rec metrics.Recorder, log zerolog.Logger) *Client {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Client{
		httpClient:  httpClient,
		url:         cfg.URL,
		maxBodySize: cfg.MaxBodySize,
		metrics:     rec,
		log:         log.With().Str("component", "seed").Str("url", cfg.URL).Logger(),
	}
}

// NewHTTPClient builds the HTTP client used for seeding. With SafeClient set
// the client refuses private, loopback and link-local targets and any port
// outside AllowedPorts, re-checking after DNS resolution.
func NewHTTPClient(cfg *config.SeedConfig) *http.Client {
	if !cfg.SafeClient {
		return &http.Client{Timeout: cfg.Timeout}
	}

	safeCfg := safeurl.GetConfigBuilder().
		SetTimeout(cfg.Timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(cfg.AllowedPorts...).
		Build()

	return safeurl.Client(safeCfg).Client
}

// Fetch performs one GET against the seed URL. Every failure wraps
// directory.ErrSourceUnavailable.
func (c *Client) Fetch(ctx context.Context) ([]models.User, error) {
	start := time.Now()
	users, err := c.fetch(ctx)
	duration := time.Since(start)
	c.metrics.RecordSeedFetch(duration, err)

	if err != nil {
		c.log.Error().Err(err).Dur("duration", duration).Msg("Seed fetch failed")
		return nil, fmt.Errorf("%w: %w", directory.ErrSourceUnavailable, err)
	}

	c.log.Info().
		Int("count", len(users)).
		Dur("duration", duration).
		Msg("Seed fetched")

	return users, nil
}

func (c *Client) fetch(ctx context.Context) ([]models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("response body exceeds %d bytes", c.maxBodySize)
	}

	return Decode(body)
}

// Decode parses a seed payload: a JSON array of objects from which only
// name and email are read.
func Decode(body []byte) ([]models.User, error) {
	var payload []models.SeedUser
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("malformed payload: expected a JSON array")
	}

	users := make([]models.User, 0, len(payload))
	for _, p := range payload {
		users = append(users, p.ToUser())
	}
	return users, nil
}
