package idleclans

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultBaseURL = "https://query.idleclans.com/api"

// StatusError is returned when the query API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("idleclans API %d: %s", e.StatusCode, e.Body)
}

// DecodeError is returned when a response body cannot be decoded as JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("idleclans decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Client is a rate-limited HTTP client for the Idle Clans query API.
type Client struct {
	http    *http.Client
	baseURL string
	sem     chan struct{}
	group   singleflight.Group
}

// NewClient creates a client with a request timeout and a small concurrency
// limit (the query API is a shared community service).
func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		sem:     make(chan struct{}, 8),
	}
}

// NewClientWithBaseURL creates a client against a non-default API base URL.
// Used by tests to point at an httptest server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// HealthCheck verifies the query API is reachable.
func (c *Client) HealthCheck(ctx context.Context) bool {
	var out []PriceRecord
	err := c.GetJSON(ctx, "/PlayerMarket/items/prices/latest?includeAveragePrice=false", &out)
	return err == nil
}

// GetJSON fetches an API path and decodes the JSON response into dst.
// Failures are distinguishable with errors.As: *StatusError for non-200
// responses, *DecodeError for malformed bodies, anything else is transport.
func (c *Client) GetJSON(ctx context.Context, path string, dst interface{}) error {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "clans-optimizer/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
