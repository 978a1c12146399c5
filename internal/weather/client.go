package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client fetches 5-day / 3-hour forecasts from OpenWeather.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   Cache
}

// NewClient builds a forecast client. cache may be nil.
func NewClient(baseURL, apiKey string, cache Cache) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
	}
}

type forecastResponse struct {
	List *[]struct {
		Dt   int64 `json:"dt"`
		Main struct {
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Pop    float64 `json:"pop"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Weather []struct {
			ID int `json:"id"`
		} `json:"weather"`
		Rain map[string]float64 `json:"rain"`
	} `json:"list"`
	City struct {
		Timezone *int `json:"timezone"`
	} `json:"city"`
}

// Forecast returns the raw forecast samples for a location, ascending by time.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]Sample, error) {
	key := cacheKey(lat, lon)
	if c.cache != nil {
		if samples, ok := c.cache.Get(ctx, key); ok {
			return samples, nil
		}
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", "imperial")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/data/2.5/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if body.List == nil {
		return nil, fmt.Errorf("%w: missing list", ErrMalformedPayload)
	}

	loc := time.UTC
	if body.City.Timezone != nil {
		loc = time.FixedZone("", *body.City.Timezone)
	}

	samples := make([]Sample, 0, len(*body.List))
	for _, item := range *body.List {
		s := Sample{
			Time:              time.Unix(item.Dt, 0).In(loc),
			FeelsLike:         item.Main.FeelsLike,
			WindSpeed:         item.Wind.Speed,
			Humidity:          item.Main.Humidity,
			PrecipProbability: item.Pop,
			CloudCover:        item.Clouds.All,
			RainMM:            item.Rain["3h"],
		}
		if n := len(item.Weather); n > 0 {
			s.ConditionCode = item.Weather[n-1].ID
		}
		samples = append(samples, s)
	}

	if c.cache != nil {
		c.cache.Set(ctx, key, samples)
	}
	return samples, nil
}
