package datasource

import (
	"context"
	"fmt"

	"dashboard/models"

	"golang.org/x/time/rate"
)

// RateLimitedForecastSource wraps a ForecastSource with rate limiting.
// api.weather.gov publishes no hard quota but asks unauthenticated clients
// to stay restrained.
type RateLimitedForecastSource struct {
	source  ForecastSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedForecastSource creates a new rate limited forecast source
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedForecastSource(source ForecastSource, rps float64, burst int) *RateLimitedForecastSource {
	return &RateLimitedForecastSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchPeriods fetches forecast periods, respecting rate limits
func (r *RateLimitedForecastSource) FetchPeriods(ctx context.Context, n int) ([]models.ForecastPeriod, error) {
	// Wait for rate limiter permission or context cancellation
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	// Forward to the underlying source
	return r.source.FetchPeriods(ctx, n)
}

// Name returns the source name
func (r *RateLimitedForecastSource) Name() string {
	return r.name
}

// Verify RateLimitedForecastSource implements the ForecastSource interface
var _ ForecastSource = (*RateLimitedForecastSource)(nil)
