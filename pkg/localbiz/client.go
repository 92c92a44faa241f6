// Package localbiz provides a client for the Local Business Data API on RapidAPI.
package localbiz

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultHost    = "local-business-data.p.rapidapi.com"
	defaultBaseURL = "https://" + defaultHost
)

// Client performs local business directory lookups.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (map[string]any, error)
}

// SearchRequest describes a business search around a coordinate.
type SearchRequest struct {
	Query           string
	Latitude        float64
	Longitude       float64
	Limit           int
	Language        string
	Region          string
	ExtractContacts bool // ask the provider to crawl business sites for emails and phones
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

// WithHost overrides the x-rapidapi-host header.
func WithHost(host string) Option {
	return func(c *httpClient) {
		if host != "" {
			c.host = host
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
	host    string
	baseURL string
	http    *http.Client
}

// NewClient creates a Local Business Data API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		host:    defaultHost,
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

func (r SearchRequest) values() url.Values {
	v := url.Values{}
	v.Set("query", r.Query)
	v.Set("lat", strconv.FormatFloat(r.Latitude, 'f', -1, 64))
	v.Set("lng", strconv.FormatFloat(r.Longitude, 'f', -1, 64))
	if r.Limit > 0 {
		v.Set("limit", strconv.Itoa(r.Limit))
	}
	if r.Language != "" {
		v.Set("language", r.Language)
	}
	if r.Region != "" {
		v.Set("region", r.Region)
	}
	v.Set("extract_emails_and_contacts", strconv.FormatBool(r.ExtractContacts))
	return v
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (map[string]any, error) {
	u := c.baseURL + "/search?" + req.values().Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "localbiz: create request")
	}
	httpReq.Header.Set("x-rapidapi-host", c.host)
	httpReq.Header.Set("x-rapidapi-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "localbiz: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "localbiz: read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("localbiz: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "localbiz: unmarshal response")
	}
	if result == nil {
		return nil, eris.New("localbiz: empty response body")
	}

	return result, nil
}
