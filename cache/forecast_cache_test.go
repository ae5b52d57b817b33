package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"dashboard/models"
)

type countingSource struct {
	periods []models.ForecastPeriod
	err     error
	calls   int
}

func (s *countingSource) FetchPeriods(ctx context.Context, n int) ([]models.ForecastPeriod, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.periods, nil
}

func (s *countingSource) Name() string { return "counting" }

func TestCachedSourceServesSecondFetchFromCache(t *testing.T) {
	inner := &countingSource{periods: []models.ForecastPeriod{{Name: "Today"}}}
	cached := NewCachedForecastSource(inner, time.Minute)

	for i := 0; i < 2; i++ {
		periods, err := cached.FetchPeriods(context.Background(), 3)
		if err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
		if len(periods) != 1 || periods[0].Name != "Today" {
			t.Fatalf("fetch %d: unexpected periods %+v", i, periods)
		}
	}

	if inner.calls != 1 {
		t.Errorf("underlying source called %d times, want 1", inner.calls)
	}
	hits, misses := cached.CacheStats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = (%d hits, %d misses), want (1, 1)", hits, misses)
	}
}

func TestCachedSourceExpiresEntries(t *testing.T) {
	inner := &countingSource{periods: []models.ForecastPeriod{{Name: "Today"}}}
	cached := NewCachedForecastSource(inner, time.Nanosecond)

	cached.FetchPeriods(context.Background(), 3)
	time.Sleep(time.Millisecond)
	cached.FetchPeriods(context.Background(), 3)

	if inner.calls != 2 {
		t.Errorf("underlying source called %d times after expiry, want 2", inner.calls)
	}
}

func TestCachedSourceKeysByPeriodCount(t *testing.T) {
	inner := &countingSource{periods: []models.ForecastPeriod{{Name: "Today"}}}
	cached := NewCachedForecastSource(inner, time.Minute)

	cached.FetchPeriods(context.Background(), 1)
	cached.FetchPeriods(context.Background(), 3)

	if inner.calls != 2 {
		t.Errorf("distinct period counts shared a cache entry (calls = %d)", inner.calls)
	}
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	inner := &countingSource{err: errors.New("upstream down")}
	cached := NewCachedForecastSource(inner, time.Minute)

	if _, err := cached.FetchPeriods(context.Background(), 3); err == nil {
		t.Fatal("expected error from failing source")
	}

	inner.err = nil
	inner.periods = []models.ForecastPeriod{{Name: "Today"}}
	periods, err := cached.FetchPeriods(context.Background(), 3)
	if err != nil {
		t.Fatalf("recovery fetch: %v", err)
	}
	if len(periods) != 1 {
		t.Errorf("recovery fetch returned %d periods, want 1", len(periods))
	}
	if inner.calls != 2 {
		t.Errorf("underlying source called %d times, want 2", inner.calls)
	}
}

func TestCachedSourceName(t *testing.T) {
	cached := NewCachedForecastSource(&countingSource{}, time.Minute)
	if got := cached.Name(); got != "counting [Cached]" {
		t.Errorf("Name() = %q", got)
	}
}
