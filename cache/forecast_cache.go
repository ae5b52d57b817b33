// Package cache provides a TTL cache decorator for forecast sources.
package cache

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"dashboard/datasource"
	"dashboard/models"
)

// CachedForecastSource wraps a ForecastSource and adds caching
// functionality. Entries are keyed by period count and live for the
// configured duration; errors are never cached, so a failed refresh is
// retried on the next fetch.
type CachedForecastSource struct {
	source         datasource.ForecastSource
	cache          map[int]cacheEntry // key is period count
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
}

// cacheEntry represents a cached set of periods with its timestamp
type cacheEntry struct {
	Periods   []models.ForecastPeriod
	Timestamp time.Time
}

// NewCachedForecastSource creates a new cached wrapper around a forecast source
func NewCachedForecastSource(source datasource.ForecastSource, cacheDuration time.Duration) *CachedForecastSource {
	return &CachedForecastSource{
		source:        source,
		cache:         make(map[int]cacheEntry),
		cacheDuration: cacheDuration,
	}
}

// Name returns the name of the underlying forecast source with [Cached] suffix
func (c *CachedForecastSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// FetchPeriods fetches forecast periods, using cache when available
func (c *CachedForecastSource) FetchPeriods(ctx context.Context, n int) ([]models.ForecastPeriod, error) {
	// First check if we have this period count in the cache
	c.mutex.RLock()
	entry, found := c.cache[n]
	c.mutex.RUnlock()

	// If found and not expired, return the cached periods
	if found && time.Since(entry.Timestamp) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		fmt.Printf("Cache HIT for %d periods from %s (age: %s)\n",
			n, c.source.Name(), time.Since(entry.Timestamp).Round(time.Second))

		return slices.Clone(entry.Periods), nil
	}

	// Cache miss or expired, fetch fresh data
	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	fmt.Printf("Cache MISS for %d periods from %s, fetching fresh data...\n",
		n, c.source.Name())

	periods, err := c.source.FetchPeriods(ctx, n)
	if err != nil {
		return nil, err
	}

	// Store in cache
	c.mutex.Lock()
	c.cache[n] = cacheEntry{
		Periods:   periods,
		Timestamp: time.Now(),
	}
	c.mutex.Unlock()

	return periods, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedForecastSource) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Ensure CachedForecastSource implements the ForecastSource interface
var _ datasource.ForecastSource = (*CachedForecastSource)(nil)
