// Package serper provides a client for the Serper Google Maps search API.
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://google.serper.dev"

// Client performs Serper search operations.
type Client interface {
	Maps(ctx context.Context, req MapsRequest) (map[string]any, error)
}

// MapsRequest describes a maps search around a coordinate.
type MapsRequest struct {
	Query     string
	Language  string // hl, e.g. "pt"
	Country   string // gl, e.g. "br"
	Latitude  float64
	Longitude float64
	Zoom      int
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL. Empty keeps the default.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Serper API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type mapsRequest struct {
	Q  string `json:"q"`
	HL string `json:"hl,omitempty"`
	GL string `json:"gl,omitempty"`
	LL string `json:"ll,omitempty"`
}

// location renders the "@lat,lng,zoomz" form the maps endpoint expects.
func (r MapsRequest) location() string {
	zoom := r.Zoom
	if zoom <= 0 {
		zoom = 14
	}
	return fmt.Sprintf("@%g,%g,%dz", r.Latitude, r.Longitude, zoom)
}

func (c *httpClient) Maps(ctx context.Context, req MapsRequest) (map[string]any, error) {
	body, err := json.Marshal(mapsRequest{
		Q:  req.Query,
		HL: req.Language,
		GL: req.Country,
		LL: req.location(),
	})
	if err != nil {
		return nil, eris.Wrap(err, "serper: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/maps", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "serper: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "serper: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "serper: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("serper: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "serper: unmarshal response")
	}
	if result == nil {
		return nil, eris.New("serper: empty response body")
	}

	return result, nil
}
