// Package cache provides best-effort TTL-bound memoization. Cache
// failures are recorded and degrade to misses; they never propagate to
// the caller.
package cache

import (
	"context"
	"fmt"
	"time"
)

type Cache interface {
	// Get returns the cached value and whether it was present and
	// fresh. Backend errors read as misses.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given TTL. Backend errors are
	// logged and swallowed.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// ForecastKey is the cache key for an assembled region/date forecast.
func ForecastKey(regionID string, date time.Time) string {
	return fmt.Sprintf("forecast:%s:%s", regionID, date.Format("2006-01-02"))
}

// WeatherKey is the cache key for current weather at a coordinate,
// rounded to 4 decimal places.
func WeatherKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.4f:%.4f", lat, lon)
}
