// Package location implements the geocoding provider adapter: free-text
// queries against a search endpoint returning candidate places.
package location

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
	maxResults     = 5
	providerLabel  = "location"
)

// Client calls the geocoding search API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds each search call.
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

// NewClient creates a geocoding client for the given endpoint.
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

// searchResult mirrors one entry of the provider's JSON response. Latitude
// and longitude arrive as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search looks up places matching the query. An empty slice is a valid
// response; the resolver treats it as a candidate miss.
func (c *Client) Search(ctx context.Context, query string) ([]model.Place, error) {
	start := time.Now()
	defer func() {
		metrics.RecordProviderLatency(providerLabel, float64(time.Since(start).Milliseconds()))
	}()

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return nil, fmt.Errorf("build geocode request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordProviderError(providerLabel)
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geocode request: status %d: %s", resp.StatusCode, string(body))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		metrics.RecordProviderError(providerLabel)
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	places := make([]model.Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		places = append(places, model.Place{
			Coordinate:  model.GeoCoordinate{Latitude: lat, Longitude: lon},
			DisplayName: r.DisplayName,
		})
	}
	return places, nil
}
