package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dashboard/models"
)

// NWSProvider fetches forecasts from the National Weather Service API
// (api.weather.gov, no API key). The service addresses forecasts
// indirectly: a coordinate pair resolves to a grid cell via the "points"
// endpoint, and the grid cell carries the URL of its forecast feed. Both
// steps run on every fetch; there are no retries and nothing is cached.
type NWSProvider struct {
	latitude   float64
	longitude  float64
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNWSProvider creates a provider for a fixed coordinate pair. contact
// is embedded in the User-Agent, which api.weather.gov requires of
// unauthenticated clients.
func NewNWSProvider(lat, lon float64, contact string) *NWSProvider {
	return &NWSProvider{
		latitude:  lat,
		longitude: lon,
		baseURL:   "https://api.weather.gov",
		userAgent: fmt.Sprintf("dashboard/1.0 (%s)", contact),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the provider name
func (p *NWSProvider) Name() string {
	return "weather.gov"
}

// SetBaseURL overrides the API root. Tests use it to point the provider at
// a stub server.
func (p *NWSProvider) SetBaseURL(u string) {
	p.baseURL = u
}

// get performs one GET against the service and returns the response body.
func (p *NWSProvider) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// FetchPeriods resolves the coordinate pair to its forecast feed and
// returns the first n periods (fewer if the feed is short). Failure of the
// lookup step reports ErrLocationUnavailable without attempting the
// forecast step; failure of the forecast step reports
// ErrForecastUnavailable. Missing period fields default to neutral values
// instead of failing the whole request.
func (p *NWSProvider) FetchPeriods(ctx context.Context, n int) ([]models.ForecastPeriod, error) {
	if n < 1 {
		return nil, fmt.Errorf("period count must be at least 1, got %d", n)
	}

	// Step 1: coordinate pair -> grid cell.
	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", p.baseURL, p.latitude, p.longitude)
	body, err := p.get(ctx, pointsURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationUnavailable, err)
	}

	var points struct {
		Properties struct {
			Forecast string `json:"forecast"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("%w: failed to parse points response: %v", ErrLocationUnavailable, err)
	}
	if points.Properties.Forecast == "" {
		return nil, fmt.Errorf("%w: points response carries no forecast URL", ErrLocationUnavailable)
	}

	// Step 2: grid cell -> forecast feed.
	body, err = p.get(ctx, points.Properties.Forecast)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}

	var forecast struct {
		Properties struct {
			Periods []struct {
				Name             string `json:"name"`
				Temperature      *int   `json:"temperature"`
				TemperatureUnit  string `json:"temperatureUnit"`
				ShortForecast    string `json:"shortForecast"`
				WindSpeed        string `json:"windSpeed"`
				DetailedForecast string `json:"detailedForecast"`
			} `json:"periods"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, fmt.Errorf("%w: failed to parse forecast response: %v", ErrForecastUnavailable, err)
	}

	raw := forecast.Properties.Periods
	if n > len(raw) {
		n = len(raw)
	}

	periods := make([]models.ForecastPeriod, 0, n)
	for _, item := range raw[:n] {
		name := item.Name
		if name == "" {
			name = "Forecast"
		}
		unit := item.TemperatureUnit
		if unit == "" {
			unit = "F"
		}

		periods = append(periods, models.ForecastPeriod{
			Name:             name,
			Temperature:      item.Temperature,
			TemperatureUnit:  unit,
			ShortForecast:    item.ShortForecast,
			WindSpeed:        item.WindSpeed,
			DetailedForecast: item.DetailedForecast,
		})
	}

	return periods, nil
}

// Verify NWSProvider implements the ForecastSource interface
var _ ForecastSource = (*NWSProvider)(nil)
