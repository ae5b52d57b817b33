package datasource

import (
	"context"
	"errors"

	"dashboard/models"
)

// ForecastSource is an interface for services that can fetch upcoming
// forecast periods for the dashboard's fixed location.
type ForecastSource interface {
	// FetchPeriods fetches up to n upcoming forecast periods.
	FetchPeriods(ctx context.Context, n int) ([]models.ForecastPeriod, error)

	// Name returns the source's name
	Name() string
}

// Weather failures surface as one of these two conditions so callers can
// render a single "weather unavailable" state and keep the rest of the
// dashboard working.
var (
	// ErrLocationUnavailable means the coordinate-to-grid lookup failed.
	ErrLocationUnavailable = errors.New("could not load weather location")

	// ErrForecastUnavailable means the forecast feed itself failed.
	ErrForecastUnavailable = errors.New("could not load forecast")
)

// Unavailable reports whether err is either weather failure condition.
func Unavailable(err error) bool {
	return errors.Is(err, ErrLocationUnavailable) || errors.Is(err, ErrForecastUnavailable)
}
