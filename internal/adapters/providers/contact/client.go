// Package contact implements the contact-management service adapter used
// by the notification step: create-or-identify a subscriber, then apply
// placement tags to it.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sophie623/birth-chart-generator/pkg/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	providerLabel  = "contact"
)

// Client calls the contact-management API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout bounds each call.
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

// NewClient creates a contact-service client.
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

type subscribeRequest struct {
	APIKey    string `json:"api_key"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
}

type subscribeResponse struct {
	Subscriber struct {
		ID json.Number `json:"id"`
	} `json:"subscriber"`
}

// CreateOrIdentify registers the email with the contact service and returns
// the contact id. The service treats an already-registered email as a
// successful identify, so any 2xx resolves the id.
func (c *Client) CreateOrIdentify(ctx context.Context, email, displayName string) (string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordProviderLatency(providerLabel, float64(time.Since(start).Milliseconds()))
	}()

	payload, err := json.Marshal(subscribeRequest{
		APIKey:    c.apiKey,
		Email:     email,
		FirstName: displayName,
	})
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return "", fmt.Errorf("%w: marshal subscribe request: %w", ErrService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/subscribers", bytes.NewReader(payload))
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return "", fmt.Errorf("%w: build subscribe request: %w", ErrService, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordProviderError(providerLabel)
		return "", fmt.Errorf("%w: %w", ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordProviderError(providerLabel)
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s",
			ErrService, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out subscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.RecordProviderError(providerLabel)
		return "", fmt.Errorf("%w: decode subscribe response: %w", ErrService, err)
	}
	id := out.Subscriber.ID.String()
	if id == "" {
		metrics.RecordProviderError(providerLabel)
		return "", fmt.Errorf("%w: response carried no contact id", ErrService)
	}
	return id, nil
}

type tagRequest struct {
	APIKey string `json:"api_key"`
	TagID  string `json:"tag_id"`
}

// ApplyTag attaches one tag to a contact. Failures here are reported to the
// caller, which records them as warnings; they never abort the pipeline.
func (c *Client) ApplyTag(ctx context.Context, contactID, tagID string) error {
	start := time.Now()
	defer func() {
		metrics.RecordProviderLatency(providerLabel, float64(time.Since(start).Milliseconds()))
	}()

	payload, err := json.Marshal(tagRequest{APIKey: c.apiKey, TagID: tagID})
	if err != nil {
		return fmt.Errorf("marshal tag request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/subscribers/"+contactID+"/tags", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build tag request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apply tag %s: %w", tagID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("apply tag %s: status %d: %s",
			tagID, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
