package mapquest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the public MapQuest API host.
const DefaultBaseURL = "https://www.mapquestapi.com"

// HTTPAPIClient is the production implementation of APIClient.
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &HTTPAPIClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Geocode calls GET /geocoding/v1/address?location=...
func (c *HTTPAPIClient) Geocode(ctx context.Context, location string) (*GeocodeResponse, error) {
	q := url.Values{}
	q.Set("location", location)
	q.Set("maxResults", "1")

	var result GeocodeResponse
	if err := c.get(ctx, "/geocoding/v1/address", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Route calls GET /directions/v2/route?from=...&to=...&unit=m
func (c *HTTPAPIClient) Route(ctx context.Context, from, to string) (*RouteResponse, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	q.Set("unit", "m")
	q.Set("routeType", "fastest")

	var result RouteResponse
	if err := c.get(ctx, "/directions/v2/route", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPAPIClient) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "freightbench/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// parseError extracts error information from a non-200 response.
func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var envelope struct {
		Info Info `json:"info"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Info.StatusCode != 0 {
		return statusError(envelope.Info)
	}

	return &APIError{
		Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Message: string(body),
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)
