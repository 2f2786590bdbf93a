package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const nominatimDefaultBaseURL = "https://nominatim.openstreetmap.org"

// NominatimClient wraps the OpenStreetMap Nominatim reverse API, the second
// provider in the resolution chain.
type NominatimClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewNominatimClient builds the Nominatim client. The user agent is
// mandatory per the Nominatim usage policy.
func NewNominatimClient(userAgent string, opts ...Option) (*NominatimClient, error) {
	trimmedAgent := strings.TrimSpace(userAgent)
	if trimmedAgent == "" {
		return nil, fmt.Errorf("nominatim user agent is required")
	}

	resolved := applyOptions(clientOptions{baseURL: nominatimDefaultBaseURL}, opts)
	return &NominatimClient{
		httpClient: resolved.httpClient,
		baseURL:    resolved.baseURL,
		userAgent:  trimmedAgent,
	}, nil
}

type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
	} `json:"address"`
}

// ReverseGeocode maps a lat/lng pair to the nearest named settlement.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse", strings.TrimRight(c.baseURL, "/"))

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("format", "jsonv2")
	query.Set("zoom", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse status %d", resp.StatusCode)
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode reverse response: %w", err)
	}

	for _, candidate := range []string{
		payload.Address.City,
		payload.Address.Town,
		payload.Address.Village,
		payload.Address.County,
	} {
		if label := strings.TrimSpace(candidate); label != "" {
			return label, nil
		}
	}
	return "", ErrNoResult
}
