// Package hue talks to the bridge's CLIP v2 REST API: entertainment
// configurations, streaming activation, pairing and discovery. It is the
// configuration producer for the streaming core, never part of the per-tick
// path.
package hue

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Client provides access to the Hue CLIP v2 API.
type Client struct {
	address    string
	appKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a v2 API client. The bridge serves a self-signed
// certificate, so TLS verification is disabled. Requests are rate limited to
// rps to stay within the bridge's comfort zone; rps <= 0 disables limiting.
func NewClient(address, appKey string, timeout time.Duration, rps float64) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	return &Client{
		address: address,
		appKey:  appKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter: limiter,
	}
}

// Address returns the bridge address.
func (c *Client) Address() string {
	return c.address
}

// Connect tests connectivity and credentials against the v2 API.
func (c *Client) Connect(ctx context.Context) error {
	resp, err := c.request(ctx, "GET", "resource", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to Hue bridge v2 API: %w", err)
	}
	resp.Body.Close()

	log.Info().Str("address", c.address).Msg("Connected to Hue bridge")
	return nil
}

// Close closes idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("https://%s/clip/v2/%s", c.address, path)
}

func (c *Client) request(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("hue-application-key", c.appKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

// getJSON performs a GET and decodes the standard v2 {"data": [...]} wrapper.
func getJSON[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	resp, err := c.request(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bridge returned %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Data []T `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Data, nil
}
