// Package timezone implements the UTC offset provider adapter. The offset
// is requested for the birth instant so the provider applies the DST rules
// in force at that historical date.
package timezone

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sophie623/birth-chart-generator/internal/domain/model"
	"github.com/sophie623/birth-chart-generator/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	providerLabel  = "timezone"

	secondsPerHour = 3600
)

// Client calls the timezone-by-position API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds each lookup call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient creates a timezone client for the given endpoint.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// offsetResponse mirrors the provider's JSON response.
type offsetResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	GMTOffset *float64 `json:"gmtOffset"` // seconds east of UTC
}

// OffsetFor returns the UTC offset in fractional hours valid at the birth
// date and the given position.
func (c *Client) OffsetFor(ctx context.Context, coord model.GeoCoordinate, birth model.BirthEvent) (model.UTCOffset, error) {
	start := time.Now()
	defer func() {
		metrics.RecordProviderLatency(providerLabel, float64(time.Since(start).Milliseconds()))
	}()

	// Anchor the lookup at the civil birth instant so seasonal rules of
	// that date apply, not today's.
	at := time.Date(birth.Year, time.Month(birth.Month), birth.Day,
		birth.Hour, birth.Minute, 0, 0, time.UTC)

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("format", "json")
	q.Set("by", "position")
	q.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	q.Set("time", strconv.FormatInt(at.Unix(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-time-zone?"+q.Encode(), nil)
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return 0, fmt.Errorf("build timezone request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return 0, fmt.Errorf("%w: %w", ErrUnresolved, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordProviderError(providerLabel)
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("%w: status %d: %s", ErrUnresolved, resp.StatusCode, string(body))
	}

	var out offsetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.RecordProviderError(providerLabel)
		return 0, fmt.Errorf("%w: decode response: %w", ErrUnresolved, err)
	}
	if out.Status != "" && out.Status != "OK" {
		metrics.RecordProviderError(providerLabel)
		return 0, fmt.Errorf("%w: provider status %s: %s", ErrUnresolved, out.Status, out.Message)
	}
	if out.GMTOffset == nil {
		metrics.RecordProviderError(providerLabel)
		return 0, fmt.Errorf("%w: response carried no offset", ErrUnresolved)
	}
	return model.UTCOffset(*out.GMTOffset / secondsPerHour), nil
}
