// Package weatherapi implements the external weather provider client
// against an OpenWeatherMap-compatible API.
package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/AstafevaAnastasia/weather-tracker/internal/domain"
	"go.uber.org/zap"
)

// Provider failure conditions surfaced to services. The domain layer
// never retries; retry policy belongs to the caller of this package.
var (
	// ErrCityNotFound is returned when the provider has no match for a city name
	ErrCityNotFound = errors.New("city not found by weather provider")

	// ErrUnavailable is returned on transport errors or non-success provider responses
	ErrUnavailable = errors.New("weather provider unavailable")
)

// Client queries an OpenWeatherMap-style API for current conditions,
// hourly windows and geocoding.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a weather provider client
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CurrentConditions returns the provider's current observation for a city
func (c *Client) CurrentConditions(ctx context.Context, cityName string) (domain.Sample, error) {
	params := url.Values{
		"q":     {cityName},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	var resp conditionsResponse
	if err := c.get(ctx, "/data/2.5/weather", params, &resp); err != nil {
		return domain.Sample{}, err
	}

	return resp.sample(), nil
}

// HourlyWindow returns an ordered window of hourly samples around the
// current hour: before samples in the past, the current one, after
// samples of forecast.
func (c *Client) HourlyWindow(ctx context.Context, cityName string, before, after int) ([]domain.Sample, error) {
	params := url.Values{
		"q":     {cityName},
		"appid": {c.apiKey},
		"units": {"metric"},
		"cnt":   {fmt.Sprintf("%d", before+1+after)},
		"past":  {fmt.Sprintf("%d", before)},
	}

	var resp forecastResponse
	if err := c.get(ctx, "/data/2.5/forecast", params, &resp); err != nil {
		return nil, err
	}

	if len(resp.List) == 0 {
		return nil, fmt.Errorf("empty forecast for %s: %w", cityName, ErrCityNotFound)
	}

	samples := make([]domain.Sample, 0, len(resp.List))
	for _, item := range resp.List {
		samples = append(samples, item.sample())
	}

	return samples, nil
}

// Geocode resolves a city name to its country and coordinates
func (c *Client) Geocode(ctx context.Context, cityName string) (domain.Place, error) {
	params := url.Values{
		"q":     {cityName},
		"appid": {c.apiKey},
		"limit": {"1"},
	}

	var resp []geocodeResult
	if err := c.get(ctx, "/geo/1.0/direct", params, &resp); err != nil {
		return domain.Place{}, err
	}

	if len(resp) == 0 {
		return domain.Place{}, fmt.Errorf("no geocoding match for %s: %w", cityName, ErrCityNotFound)
	}

	r := resp[0]
	return domain.Place{
		Name:      r.Name,
		Country:   r.Country,
		Latitude:  r.Lat,
		Longitude: r.Lon,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	fullURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("weather provider request failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("provider request: %w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("provider returned 404: %w", ErrCityNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("weather provider returned non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("provider status %d: %w", resp.StatusCode, ErrUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode provider response: %w: %v", ErrUnavailable, err)
	}

	return nil
}

// Provider API response types.

type conditionsResponse struct {
	Main    mainBlock      `json:"main"`
	Wind    windBlock      `json:"wind"`
	Weather []weatherBlock `json:"weather"`
	Dt      int64          `json:"dt"`
}

type forecastResponse struct {
	List []conditionsResponse `json:"list"`
}

type mainBlock struct {
	Temp     float64 `json:"temp"`
	Humidity int     `json:"humidity"`
}

type windBlock struct {
	Speed float64 `json:"speed"`
}

type weatherBlock struct {
	Description string `json:"description"`
}

type geocodeResult struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (r conditionsResponse) sample() domain.Sample {
	sample := domain.Sample{
		Temperature: r.Main.Temp,
		Humidity:    r.Main.Humidity,
		WindSpeed:   r.Wind.Speed,
		Timestamp:   time.Unix(r.Dt, 0).UTC(),
	}
	if len(r.Weather) > 0 {
		sample.Description = r.Weather[0].Description
	}
	return sample
}
