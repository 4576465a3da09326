package models

import "errors"

// Error kinds surfaced by the core. Callers distinguish them with
// errors.Is; everything else is treated as an internal failure.
var (
	// ErrRegionNotFound means the requested region does not exist or
	// is inactive.
	ErrRegionNotFound = errors.New("region not found")

	// ErrSpeciesNotFound means the requested species profile does not exist.
	ErrSpeciesNotFound = errors.New("species not found")

	// ErrNoWeatherData means no snapshots have been collected for the
	// requested region and date.
	ErrNoWeatherData = errors.New("no weather data for date")

	// ErrUpstreamUnavailable covers transport and HTTP-layer failures
	// of the weather provider. Recoverable; the collector retries it.
	ErrUpstreamUnavailable = errors.New("weather provider unavailable")

	// ErrBadPayload covers empty or malformed provider responses.
	// Not retried.
	ErrBadPayload = errors.New("malformed provider payload")
)
