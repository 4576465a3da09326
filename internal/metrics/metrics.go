// Package metrics defines the Prometheus instruments exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderRequests counts upstream weather API calls by endpoint and
	// outcome ("ok", "upstream_error", "bad_payload").
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitecast",
		Name:      "provider_requests_total",
		Help:      "Weather provider requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bitecast",
		Name:      "provider_request_seconds",
		Help:      "Weather provider request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	// RegionsCollected counts per-region collection outcomes.
	RegionsCollected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitecast",
		Name:      "regions_collected_total",
		Help:      "Per-region collection runs by outcome.",
	}, []string{"outcome"})

	WeatherRecordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bitecast",
		Name:      "weather_records_written_total",
		Help:      "Weather snapshots persisted by the collector.",
	})

	// CacheRequests counts forecast cache lookups by result ("hit", "miss").
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitecast",
		Name:      "cache_requests_total",
		Help:      "Cache lookups by result.",
	}, []string{"result"})

	// ForecastsAssembled counts assembled forecasts by source
	// ("cache", "computed").
	ForecastsAssembled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bitecast",
		Name:      "forecasts_assembled_total",
		Help:      "Forecast assemblies by source.",
	}, []string{"source"})
)
