package models

import (
	"database/sql"
	"time"
)

type Region struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Active    bool    `json:"is_active"`
}

// SpeciesProfile describes how a fish species reacts to weather. The
// pressure range is in mmHg, temperatures in °C, wind speed in m/s.
// HTTP responses render profiles through the api package's view type.
type SpeciesProfile struct {
	ID                 string
	Name               string
	Icon               string
	Category           string
	OptimalTempMin     float64
	OptimalTempMax     float64
	OptimalPressureMin int
	OptimalPressureMax int
	MaxWindSpeed       float64
	PreferMorning      bool
	PreferEvening      bool
	PreferOvercast     bool
	MoonSensitivity    float64
	ActiveInWinter     bool

	// Spawn window. Both months unset means the species is never in
	// spawn as far as scoring is concerned. The window may wrap the
	// year boundary (e.g. December through February).
	SpawnStartMonth sql.NullInt64
	SpawnEndMonth   sql.NullInt64
	SpawnStartDay   int
	SpawnEndDay     int

	// RegionIDs restricts the species to particular regions; empty
	// means it is forecast everywhere.
	RegionIDs []string
	Active    bool
}

// AvailableIn reports whether the species may be forecast for a region.
func (p SpeciesProfile) AvailableIn(regionID string) bool {
	if len(p.RegionIDs) == 0 {
		return true
	}
	for _, id := range p.RegionIDs {
		if id == regionID {
			return true
		}
	}
	return false
}

// WeatherSnapshot is one 3-hourly forecast point for a region, unique
// per (region, date, hour). Snapshots are bulk-replaced by the collector
// for the rolling horizon window.
type WeatherSnapshot struct {
	ID                       int64
	RegionID                 string
	ForecastDate             time.Time // date component only, UTC midnight
	ForecastHour             int
	Temperature              sql.NullFloat64
	FeelsLike                sql.NullFloat64
	PressureHPa              sql.NullInt64
	Humidity                 sql.NullInt64
	WindSpeed                sql.NullFloat64
	WindDirection            sql.NullInt64
	WindGust                 sql.NullFloat64
	Cloudiness               sql.NullInt64
	PrecipitationMM          sql.NullFloat64
	PrecipitationProbability sql.NullInt64
	Condition                sql.NullString
	Icon                     sql.NullString
	VisibilityM              sql.NullInt64
	UVIndex                  sql.NullFloat64
	MoonPhase                sql.NullFloat64 // 0..1, 0/1 = new, 0.5 = full
	Sunrise                  sql.NullString  // "HH:MM:SS" UTC
	Sunset                   sql.NullString
	PressureTrend            float64 // mmHg delta vs previous point, 0 when unknown
	CreatedAt                time.Time
}

// BiteForecast is a persisted per-bucket score for a species. Existing
// rows are reused verbatim by the assembler.
type BiteForecast struct {
	ID                 int64
	RegionID           string
	SpeciesID          string
	ForecastDate       time.Time
	TimeOfDay          string
	BiteScore          float64
	TemperatureScore   sql.NullFloat64
	PressureScore      sql.NullFloat64
	WindScore          sql.NullFloat64
	MoonScore          sql.NullFloat64
	PrecipitationScore sql.NullFloat64
	IsSpawn            bool
	SpawnMessage       sql.NullString
	Recommendation     sql.NullString
	BestBaits          []string
	BestDepth          sql.NullString
}

// CollectionSummary aggregates the outcome of an all-regions collection
// run. Status is "success" if at least one region succeeded.
type CollectionSummary struct {
	Status       string        `json:"status"`
	Message      string        `json:"message,omitempty"`
	TotalRegions int           `json:"total_regions"`
	Collected    int           `json:"collected"`
	TotalRecords int           `json:"total_records"`
	Errors       []RegionError `json:"errors"`
}

type RegionError struct {
	Region string `json:"region"`
	Error  string `json:"error"`
}

// SingleRegionResult is the outcome of an on-demand refresh of one region.
type SingleRegionResult struct {
	Status       string `json:"status"`
	Region       string `json:"region,omitempty"`
	RecordsSaved int    `json:"records_saved,omitempty"`
	Message      string `json:"message,omitempty"`
}
