// Package ephemeris implements the ephemeris provider adapter: planetary
// positions and Placidus house cusps for a birth instant and position.
package ephemeris

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sophie623/birth-chart-generator/internal/domain/model"
	"github.com/sophie623/birth-chart-generator/pkg/metrics"
)

const (
	defaultTimeout = 15 * time.Second
	providerLabel  = "ephemeris"

	// houseSystem is fixed; every chart this service produces uses
	// Placidus cusps.
	houseSystem = "placidus"
)

// Client calls the western horoscope computation API.
type Client struct {
	baseURL string
	userID  string
	apiKey  string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds each computation call.
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

// NewClient creates an ephemeris client authenticating with basic auth.
func NewClient(baseURL, userID, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		userID:  userID,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// computeRequest mirrors the provider's request schema.
type computeRequest struct {
	Day       int     `json:"day"`
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Hour      int     `json:"hour"`
	Min       int     `json:"min"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Tzone     float64 `json:"tzone"`
	HouseType string  `json:"house_type"`
}

// computeResponse mirrors the provider's response schema. FullDegree is a
// pointer so an omitted position is distinguishable from 0 degrees Aries.
type computeResponse struct {
	Planets []struct {
		Name       string   `json:"name"`
		FullDegree *float64 `json:"full_degree"`
		Sign       string   `json:"sign"`
		House      int      `json:"house"`
	} `json:"planets"`
	Houses []struct {
		House  int     `json:"house"`
		Sign   string  `json:"sign"`
		Degree float64 `json:"degree"`
	} `json:"houses"`
}

// Compute requests body positions and house cusps for the birth event. A
// non-success status fails with ErrProvider carrying the raw upstream
// diagnostic text.
func (c *Client) Compute(ctx context.Context, birth model.BirthEvent, coord model.GeoCoordinate, offset model.UTCOffset) (model.Ephemeris, error) {
	start := time.Now()
	defer func() {
		metrics.RecordProviderLatency(providerLabel, float64(time.Since(start).Milliseconds()))
	}()

	payload, err := json.Marshal(computeRequest{
		Day:       birth.Day,
		Month:     birth.Month,
		Year:      birth.Year,
		Hour:      birth.Hour,
		Min:       birth.Minute,
		Lat:       coord.Latitude,
		Lon:       coord.Longitude,
		Tzone:     float64(offset),
		HouseType: houseSystem,
	})
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return model.Ephemeris{}, fmt.Errorf("marshal ephemeris request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/western_horoscope", bytes.NewReader(payload))
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return model.Ephemeris{}, fmt.Errorf("build ephemeris request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.userID, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return model.Ephemeris{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordProviderError(providerLabel)
		body, _ := io.ReadAll(resp.Body)
		return model.Ephemeris{}, fmt.Errorf("%w: status %d: %s",
			ErrProvider, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out computeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.RecordProviderError(providerLabel)
		return model.Ephemeris{}, fmt.Errorf("%w: decode response: %w", ErrProvider, err)
	}

	eph := model.Ephemeris{
		Bodies: make([]model.EphemerisBody, 0, len(out.Planets)),
		Cusps:  make([]model.HouseCusp, 0, len(out.Houses)),
	}
	for _, p := range out.Planets {
		eph.Bodies = append(eph.Bodies, model.EphemerisBody{
			Name:   p.Name,
			Degree: p.FullDegree,
			Sign:   p.Sign,
			House:  p.House,
		})
	}
	for _, h := range out.Houses {
		eph.Cusps = append(eph.Cusps, model.HouseCusp{
			House:  h.House,
			Sign:   h.Sign,
			Degree: h.Degree,
		})
	}
	return eph, nil
}
