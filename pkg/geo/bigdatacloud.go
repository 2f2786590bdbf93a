package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const bdcDefaultBaseURL = "https://api.bigdatacloud.net"

// ErrNoResult is returned when a provider answered but produced no usable
// place label. Callers fall through to the next resolver.
var ErrNoResult = errors.New("geo: no usable result")

// BigDataCloudClient wraps the BigDataCloud client-side reverse geocode API.
type BigDataCloudClient struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	baseURL    string
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithBaseURL overrides the provider base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			o.baseURL = trimmed
		}
	}
}

func applyOptions(defaults clientOptions, opts []Option) clientOptions {
	for _, opt := range opts {
		if opt != nil {
			opt(&defaults)
		}
	}
	if defaults.httpClient == nil {
		defaults.httpClient = &http.Client{Timeout: 6 * time.Second}
	}
	return defaults
}

// NewBigDataCloudClient builds the reverse geocode client.
func NewBigDataCloudClient(opts ...Option) *BigDataCloudClient {
	resolved := applyOptions(clientOptions{baseURL: bdcDefaultBaseURL}, opts)
	return &BigDataCloudClient{
		httpClient: resolved.httpClient,
		baseURL:    resolved.baseURL,
	}
}

type bdcResponse struct {
	City                 string `json:"city"`
	Locality             string `json:"locality"`
	PrincipalSubdivision string `json:"principalSubdivision"`
}

// ReverseGeocode maps a lat/lng pair to a city or locality label.
func (c *BigDataCloudClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	endpoint := fmt.Sprintf("%s/data/reverse-geocode-client", strings.TrimRight(c.baseURL, "/"))

	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("localityLanguage", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build reverse geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode status %d", resp.StatusCode)
	}

	var payload bdcResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode reverse geocode response: %w", err)
	}

	if label := strings.TrimSpace(payload.City); label != "" {
		return label, nil
	}
	if label := strings.TrimSpace(payload.Locality); label != "" {
		return label, nil
	}
	return "", ErrNoResult
}
