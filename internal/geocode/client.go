package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrNotFound means the destination did not resolve to any place.
	ErrNotFound = errors.New("geocode: destination not found")
	// ErrUpstreamUnavailable means the geocoding API could not be reached or
	// answered with a non-2xx status.
	ErrUpstreamUnavailable = errors.New("geocode: upstream unavailable")
	// ErrMalformedPayload means the geocoding API answered with an undecodable body.
	ErrMalformedPayload = errors.New("geocode: malformed payload")
)

// Location is a resolved latitude/longitude pair.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Geocoder resolves a destination name to a location.
type Geocoder interface {
	Lookup(ctx context.Context, query string) (Location, error)
}

// Client calls the OpenWeather direct geocoding endpoint.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Lookup returns the first match for query.
func (c *Client) Lookup(ctx context.Context, query string) (Location, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/geo/1.0/direct?"+q.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("build geocode request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Location{}, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var results []Location
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if len(results) == 0 {
		return Location{}, ErrNotFound
	}
	return results[0], nil
}
