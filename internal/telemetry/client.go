package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	"github.com/dmforge/encounter-api/internal/pkg/clock"
)

//go:generate mockgen -destination=mock/mock_client.go -package=telemetrymock github.com/dmforge/encounter-api/internal/telemetry Client

const (
	// DefaultCacheTTL bounds how long an adjustment factor is reused
	// within one planning burst
	DefaultCacheTTL = 30 * time.Second

	// DefaultMaxRetries bounds transient-failure retries on posts
	DefaultMaxRetries = 2

	defaultRequestTimeout = 5 * time.Second
)

// Client is the difficulty telemetry service surface
type Client interface {
	// PostEncounterTelemetry reports an encounter outcome. Transient
	// failures are retried with backoff before an error is returned.
	PostEncounterTelemetry(ctx context.Context, record *encounter.TelemetryRecord) error

	// GetEncounterAdjustment returns the adjustment factor for a
	// (session, difficulty) bucket, served from a short-lived cache
	GetEncounterAdjustment(ctx context.Context, sessionID string, difficulty encounter.Difficulty) (float64, error)
}

// HTTPConfig holds the configuration for the HTTP telemetry client
type HTTPConfig struct {
	BaseURL string

	// HTTPClient is optional; a default with a request timeout is used
	HTTPClient *http.Client

	// Clock is optional; the real clock is used when nil
	Clock clock.Clock

	// CacheTTL is optional; 0 uses DefaultCacheTTL
	CacheTTL time.Duration

	// MaxRetries is optional; 0 uses DefaultMaxRetries
	MaxRetries int
}

// Validate ensures all required dependencies are provided
func (c *HTTPConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.InvalidArgument("telemetry base URL is required")
	}
	return nil
}

type cacheEntry struct {
	factor  float64
	expires time.Time
}

// HTTPClient talks to an external telemetry service over the wire contract:
// POST /telemetry with the record body, GET /adjustment keyed by session and
// difficulty returning {"factor": n}.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	clock      clock.Clock
	cacheTTL   time.Duration
	maxRetries uint64

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewHTTPClient creates a telemetry client for an external service
func NewHTTPClient(cfg *HTTPConfig) (*HTTPClient, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		clock:      c,
		cacheTTL:   ttl,
		maxRetries: uint64(retries),
		cache:      make(map[string]cacheEntry),
	}, nil
}

var _ Client = (*HTTPClient)(nil)

// PostEncounterTelemetry reports an encounter outcome, retrying transient
// failures with exponential backoff
func (c *HTTPClient) PostEncounterTelemetry(ctx context.Context, record *encounter.TelemetryRecord) error {
	if record == nil {
		return errors.InvalidArgument("record cannot be nil")
	}

	body, err := json.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal telemetry record")
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/telemetry", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("telemetry service returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("telemetry service rejected record with %d", resp.StatusCode))
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "telemetry post failed")
	}
	return nil
}

// GetEncounterAdjustment fetches the adjustment factor, serving repeat
// lookups within the cache TTL from memory
func (c *HTTPClient) GetEncounterAdjustment(ctx context.Context, sessionID string, difficulty encounter.Difficulty) (float64, error) {
	if sessionID == "" {
		return 0, errors.InvalidArgument("session ID cannot be empty")
	}

	key := sessionID + ":" + string(difficulty)
	now := c.clock.Now()

	c.mu.Lock()
	if entry, ok := c.cache[key]; ok && now.Before(entry.expires) {
		c.mu.Unlock()
		return entry.factor, nil
	}
	c.mu.Unlock()

	endpoint := fmt.Sprintf("%s/adjustment?sessionId=%s&difficulty=%s",
		c.baseURL, url.QueryEscape(sessionID), url.QueryEscape(string(difficulty)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to build adjustment request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeUnavailable, "adjustment lookup failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Unavailablef("adjustment lookup returned %d", resp.StatusCode)
	}

	var payload struct {
		Factor float64 `json:"factor"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&payload); err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeUnavailable, "adjustment response is malformed")
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{factor: payload.Factor, expires: now.Add(c.cacheTTL)}
	c.mu.Unlock()

	return payload.Factor, nil
}

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	return b
}
