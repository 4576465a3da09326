package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/bitecast/bitecast/internal/forecast"
	"github.com/bitecast/bitecast/internal/metrics"
	"github.com/bitecast/bitecast/internal/models"
	"github.com/bitecast/bitecast/internal/store"
)

// Provider is the upstream forecast source the collector pulls from.
type Provider interface {
	Forecast(ctx context.Context, lat, lon float64, days int) (*ForecastResponse, error)
}

// defaultHorizonDays is how far ahead a collection run reaches when no
// explicit horizon is given.
const defaultHorizonDays = 4

// Collector pulls the multi-day forecast for every active region and
// rewrites each region's snapshot window. A failing region never stops
// the run; its error lands in the summary.
type Collector struct {
	store    *store.Store
	provider Provider
	retry    RetryPolicy
	clock    models.Clock

	// pause between regions keeps the provider's rate limiter happy.
	pause       time.Duration
	horizonDays int
}

// NewCollector builds a collector with the given default horizon.
// horizonDays < 1 falls back to defaultHorizonDays.
func NewCollector(st *store.Store, p Provider, policy RetryPolicy, clock models.Clock, horizonDays int) *Collector {
	if horizonDays < 1 {
		horizonDays = defaultHorizonDays
	}
	return &Collector{
		store:       st,
		provider:    p,
		retry:       policy,
		clock:       clock,
		pause:       500 * time.Millisecond,
		horizonDays: horizonDays,
	}
}

// horizon resolves a per-run days override against the configured
// default.
func (c *Collector) horizon(days int) int {
	if days < 1 {
		return c.horizonDays
	}
	return days
}

// CollectAllRegions visits active regions in name order, collecting the
// given number of days ahead (0 uses the configured horizon). The
// summary is "success" if at least one region was collected.
func (c *Collector) CollectAllRegions(ctx context.Context, days int) (models.CollectionSummary, error) {
	regions, err := c.store.GetActiveRegions()
	if err != nil {
		return models.CollectionSummary{}, fmt.Errorf("load regions: %w", err)
	}

	summary := models.CollectionSummary{
		TotalRegions: len(regions),
		Errors:       []models.RegionError{},
	}
	if len(regions) == 0 {
		log.Printf("collector: no active regions")
		summary.Status = "error"
		summary.Message = "No active regions"
		return summary, nil
	}

	log.Printf("collector: starting run over %d regions", len(regions))

	for i, region := range regions {
		records, err := c.collectRegion(ctx, region, c.horizon(days))
		if err != nil {
			log.Printf("collector: region %s: %v", region.Name, err)
			metrics.RegionsCollected.WithLabelValues("error").Inc()
			summary.Errors = append(summary.Errors, models.RegionError{
				Region: region.Name,
				Error:  err.Error(),
			})
		} else {
			metrics.RegionsCollected.WithLabelValues("ok").Inc()
			summary.Collected++
			summary.TotalRecords += records
		}

		if i < len(regions)-1 {
			select {
			case <-time.After(c.pause):
			case <-ctx.Done():
				return summary, ctx.Err()
			}
		}
	}

	if summary.Collected > 0 {
		summary.Status = "success"
	} else {
		summary.Status = "error"
	}
	log.Printf("collector: run finished: %d/%d regions, %d records, %d errors",
		summary.Collected, summary.TotalRegions, summary.TotalRecords, len(summary.Errors))
	return summary, nil
}

// CollectRegion refreshes one region on demand, days ahead (0 uses the
// configured horizon). Returns models.ErrRegionNotFound for unknown or
// inactive regions.
func (c *Collector) CollectRegion(ctx context.Context, regionID string, days int) (models.SingleRegionResult, error) {
	region, err := c.store.GetActiveRegion(regionID)
	if err != nil {
		return models.SingleRegionResult{}, err
	}

	records, err := c.collectRegion(ctx, *region, c.horizon(days))
	if err != nil {
		return models.SingleRegionResult{
			Status:  "error",
			Region:  region.Name,
			Message: err.Error(),
		}, nil
	}
	return models.SingleRegionResult{
		Status:       "success",
		Region:       region.Name,
		RecordsSaved: records,
	}, nil
}

func (c *Collector) collectRegion(ctx context.Context, region models.Region, days int) (int, error) {
	var records int
	err := c.retry.Do(ctx, func() error {
		resp, err := c.provider.Forecast(ctx, region.Latitude, region.Longitude, days)
		if err != nil {
			return err
		}
		records, err = c.saveWeather(region, resp, days)
		return err
	})
	return records, err
}

// saveWeather converts provider points into snapshots and rewrites the
// region's window from today onwards. Points at or past the horizon
// cutoff are dropped.
func (c *Collector) saveWeather(region models.Region, resp *ForecastResponse, days int) (int, error) {
	if len(resp.List) == 0 {
		return 0, fmt.Errorf("%w: empty forecast list", models.ErrBadPayload)
	}

	var sunrise, sunset sql.NullString
	if resp.City.Sunrise > 0 {
		sunrise = sql.NullString{String: time.Unix(resp.City.Sunrise, 0).UTC().Format("15:04:05"), Valid: true}
	}
	if resp.City.Sunset > 0 {
		sunset = sql.NullString{String: time.Unix(resp.City.Sunset, 0).UTC().Format("15:04:05"), Valid: true}
	}

	now := c.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	cutoff := today.AddDate(0, 0, days)

	var snaps []models.WeatherSnapshot
	var prevPressure sql.NullInt64
	for _, p := range resp.List {
		dt := time.Unix(p.Dt, 0).UTC()
		date := time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, time.UTC)
		if !date.Before(cutoff) {
			continue
		}

		w := models.WeatherSnapshot{
			RegionID:                 region.ID,
			ForecastDate:             date,
			ForecastHour:             dt.Hour(),
			Temperature:              nullFloat(p.Main.Temp),
			FeelsLike:                nullFloat(p.Main.FeelsLike),
			PressureHPa:              nullInt(p.Main.Pressure),
			Humidity:                 nullInt(p.Main.Humidity),
			WindSpeed:                nullFloat(p.Wind.Speed),
			WindDirection:            nullInt(p.Wind.Deg),
			WindGust:                 nullFloat(p.Wind.Gust),
			Cloudiness:               nullInt(p.Clouds.All),
			PrecipitationMM:          sql.NullFloat64{Float64: p.Rain.OneHour + p.Snow.OneHour, Valid: true},
			PrecipitationProbability: sql.NullInt64{Int64: int64(p.Pop * 100), Valid: true},
			VisibilityM:              nullInt(p.Visibility),
			MoonPhase:                sql.NullFloat64{Float64: forecast.MoonPhaseFraction(dt), Valid: true},
			Sunrise:                  sunrise,
			Sunset:                   sunset,
		}
		if len(p.Weather) > 0 {
			w.Condition = sql.NullString{String: p.Weather[0].Main, Valid: true}
			w.Icon = sql.NullString{String: p.Weather[0].Icon, Valid: true}
		}
		if p.Main.Pressure != nil && prevPressure.Valid {
			w.PressureTrend = float64(*p.Main.Pressure-prevPressure.Int64) * hpaPerMmHg
		}
		prevPressure = nullInt(p.Main.Pressure)

		snaps = append(snaps, w)
	}

	inserted, err := c.store.ReplaceWeatherWindow(region.ID, today, snaps)
	if err != nil {
		return 0, fmt.Errorf("replace window for %s: %w", region.ID, err)
	}
	metrics.WeatherRecordsWritten.Add(float64(inserted))
	log.Printf("collector: saved %d records for %s", inserted, region.Name)
	return inserted, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
