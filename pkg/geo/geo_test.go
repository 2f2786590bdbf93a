package geo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonBodyResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestBigDataCloudReverseGeocode(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	client := NewBigDataCloudClient(
		WithBaseURL("https://bdc.test"),
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			captured = req
			return jsonBodyResponse(http.StatusOK, `{"city":"Anantapur","locality":"Somewhere"}`), nil
		})}),
	)

	city, err := client.ReverseGeocode(context.Background(), 14.6819, 77.6006)
	if err != nil {
		t.Fatalf("reverse geocode: %v", err)
	}
	if city != "Anantapur" {
		t.Fatalf("expected Anantapur, got %q", city)
	}
	if captured == nil {
		t.Fatalf("no request issued")
	}
	if got := captured.URL.Query().Get("latitude"); got != "14.6819" {
		t.Fatalf("unexpected latitude param %q", got)
	}
	if captured.URL.Host != "bdc.test" {
		t.Fatalf("unexpected host %q", captured.URL.Host)
	}
}

func TestBigDataCloudFallsBackToLocality(t *testing.T) {
	t.Parallel()

	client := NewBigDataCloudClient(
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonBodyResponse(http.StatusOK, `{"city":"","locality":"Ramagiri"}`), nil
		})}),
	)

	city, err := client.ReverseGeocode(context.Background(), 14.147, 77.468)
	if err != nil {
		t.Fatalf("reverse geocode: %v", err)
	}
	if city != "Ramagiri" {
		t.Fatalf("expected Ramagiri, got %q", city)
	}
}

func TestBigDataCloudEmptyResult(t *testing.T) {
	t.Parallel()

	client := NewBigDataCloudClient(
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonBodyResponse(http.StatusOK, `{}`), nil
		})}),
	)

	if _, err := client.ReverseGeocode(context.Background(), 0, 0); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult, got %v", err)
	}
}

func TestNominatimReverseGeocode(t *testing.T) {
	t.Parallel()

	var captured *http.Request
	client, err := NewNominatimClient("kiranakart-test/1.0",
		WithBaseURL("https://nominatim.test"),
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			captured = req
			return jsonBodyResponse(http.StatusOK, `{"address":{"city":"","town":"Kalyandurg"}}`), nil
		})}),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	city, err := client.ReverseGeocode(context.Background(), 14.545, 77.105)
	if err != nil {
		t.Fatalf("reverse geocode: %v", err)
	}
	if city != "Kalyandurg" {
		t.Fatalf("expected Kalyandurg, got %q", city)
	}
	if got := captured.Header.Get("User-Agent"); got != "kiranakart-test/1.0" {
		t.Fatalf("missing user agent, got %q", got)
	}
}

func TestNominatimRequiresUserAgent(t *testing.T) {
	t.Parallel()

	if _, err := NewNominatimClient("  "); err == nil {
		t.Fatalf("expected error for blank user agent")
	}
}

func TestNominatimNon200(t *testing.T) {
	t.Parallel()

	client, err := NewNominatimClient("kiranakart-test/1.0",
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonBodyResponse(http.StatusTooManyRequests, `{}`), nil
		})}),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.ReverseGeocode(context.Background(), 1, 1); err == nil {
		t.Fatalf("expected error on 429")
	}
}

func TestCentroidMatcher(t *testing.T) {
	t.Parallel()

	matcher := NewCentroidMatcher(nil)

	city, err := matcher.ReverseGeocode(context.Background(), 14.68, 77.60)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if city != "Anantapur" {
		t.Fatalf("expected Anantapur, got %q", city)
	}

	city, err = matcher.ReverseGeocode(context.Background(), 14.15, 77.47)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if city != "Ramagiri" {
		t.Fatalf("expected Ramagiri, got %q", city)
	}

	if _, err := matcher.ReverseGeocode(context.Background(), 28.61, 77.21); !errors.Is(err, ErrNoResult) {
		t.Fatalf("expected ErrNoResult far outside district, got %v", err)
	}
}
