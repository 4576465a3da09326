package forecast

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/bitecast/bitecast/internal/cache"
	"github.com/bitecast/bitecast/internal/metrics"
	"github.com/bitecast/bitecast/internal/models"
	"github.com/bitecast/bitecast/internal/store"
)

// teaserDays is how many future days the response previews.
const teaserDays = 3

// ForecastPayload is the full response for one region and date.
type ForecastPayload struct {
	Region       models.Region     `json:"region"`
	ForecastDate string            `json:"forecast_date"`
	Weather      WeatherSummary    `json:"weather"`
	Forecasts    []SpeciesForecast `json:"forecasts"`
	MultiDay     []DayTeaser       `json:"multi_day_forecast,omitempty"`
}

// WeatherSummary is the headline conditions, taken from the earliest
// snapshot of the day. Pressure is mmHg, rounded.
type WeatherSummary struct {
	Temperature   *float64 `json:"temperature"`
	Pressure      *int     `json:"pressure"`
	WindSpeed     *float64 `json:"wind_speed"`
	Precipitation *float64 `json:"precipitation"`
	MoonPhase     *float64 `json:"moon_phase"`
	Sunrise       *string  `json:"sunrise"`
	Sunset        *string  `json:"sunset"`
}

type SpeciesBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// SpeciesForecast carries the four bucket forecasts for one species, in
// presentation order.
type SpeciesForecast struct {
	Species   SpeciesBrief     `json:"species"`
	Forecasts []BucketForecast `json:"forecasts"`
}

type BucketForecast struct {
	TimeOfDay          string   `json:"time_of_day"`
	BiteScore          float64  `json:"bite_score"`
	IsSpawnPeriod      bool     `json:"is_spawn_period"`
	SpawnMessage       *string  `json:"spawn_message,omitempty"`
	TemperatureScore   *float64 `json:"temperature_score"`
	PressureScore      *float64 `json:"pressure_score"`
	WindScore          *float64 `json:"wind_score"`
	MoonScore          *float64 `json:"moon_score"`
	PrecipitationScore *float64 `json:"precipitation_score"`
	Recommendation     *string  `json:"recommendation,omitempty"`
	BestBaits          []string `json:"best_baits,omitempty"`
	BestDepth          *string  `json:"best_depth,omitempty"`
}

// DayTeaser marks a future date that already has weather data.
type DayTeaser struct {
	Date     string   `json:"date"`
	BestFish []string `json:"best_fish"`
}

// Assembler builds the per-region forecast response: cache lookup,
// score computation over stored weather, ranking and the multi-day
// teaser. Persisted bucket rows are reused verbatim; missing buckets
// are computed and written back.
type Assembler struct {
	store *store.Store
	cache cache.Cache
	clock models.Clock
	ttl   time.Duration
	baits BaitBook
}

func NewAssembler(st *store.Store, c cache.Cache, clock models.Clock, ttl time.Duration, baits BaitBook) *Assembler {
	return &Assembler{store: st, cache: c, clock: clock, ttl: ttl, baits: baits}
}

// GetForecast assembles the forecast for an active region on a date.
// speciesID narrows the response to one species when non-empty. Returns
// models.ErrRegionNotFound or models.ErrNoWeatherData as appropriate.
func (a *Assembler) GetForecast(ctx context.Context, regionID string, date time.Time, speciesID string) (*ForecastPayload, error) {
	if date.IsZero() {
		now := a.clock.Now().UTC()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	region, err := a.store.GetActiveRegion(regionID)
	if err != nil {
		return nil, err
	}

	key := cache.ForecastKey(regionID, date)
	if speciesID == "" {
		if raw, ok := a.cache.Get(ctx, key); ok {
			var payload ForecastPayload
			if err := json.Unmarshal(raw, &payload); err == nil {
				// Region attributes may have changed since the entry
				// was written; always serve the live row.
				payload.Region = *region
				metrics.CacheRequests.WithLabelValues("hit").Inc()
				metrics.ForecastsAssembled.WithLabelValues("cache").Inc()
				return &payload, nil
			}
			log.Printf("assembler: discarding bad cache entry %s: %v", key, err)
		}
		metrics.CacheRequests.WithLabelValues("miss").Inc()
	}

	snaps, err := a.store.GetWeatherForDate(regionID, date)
	if err != nil {
		return nil, fmt.Errorf("load weather: %w", err)
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("%w: %s on %s", models.ErrNoWeatherData, regionID, date.Format("2006-01-02"))
	}

	profiles, err := a.store.GetActiveSpecies()
	if err != nil {
		return nil, fmt.Errorf("load species: %w", err)
	}

	month := date.Month()
	season := Season(month)

	var forecasts []SpeciesForecast
	for _, p := range profiles {
		if speciesID != "" && p.ID != speciesID {
			continue
		}
		if !p.AvailableIn(regionID) {
			continue
		}

		buckets, err := a.speciesBuckets(p, regionID, date, snaps, month, season)
		if err != nil {
			return nil, err
		}
		if len(buckets) == 0 {
			continue
		}
		forecasts = append(forecasts, SpeciesForecast{
			Species:   SpeciesBrief{ID: p.ID, Name: p.Name, Icon: p.Icon},
			Forecasts: buckets,
		})
	}

	rankForecasts(forecasts)
	if len(forecasts) > 10 {
		forecasts = forecasts[:10]
	}

	payload := &ForecastPayload{
		Region:       *region,
		ForecastDate: date.Format("2006-01-02"),
		Weather:      summarize(snaps[0]),
		Forecasts:    forecasts,
	}

	until := date.AddDate(0, 0, teaserDays)
	futureDates, err := a.store.DatesWithWeather(regionID, date, until)
	if err != nil {
		return nil, fmt.Errorf("load future dates: %w", err)
	}
	for _, d := range futureDates {
		payload.MultiDay = append(payload.MultiDay, DayTeaser{
			Date:     d.Format("2006-01-02"),
			BestFish: []string{},
		})
	}

	if speciesID == "" {
		if raw, err := json.Marshal(payload); err == nil {
			a.cache.Set(ctx, key, raw, a.ttl)
		} else {
			log.Printf("assembler: marshal for cache %s: %v", key, err)
		}
	}
	metrics.ForecastsAssembled.WithLabelValues("computed").Inc()
	return payload, nil
}

// speciesBuckets returns the four bucket forecasts for one species,
// reusing persisted rows and computing the rest from bucket-averaged
// weather. Buckets with no weather points are omitted.
func (a *Assembler) speciesBuckets(p models.SpeciesProfile, regionID string, date time.Time, snaps []models.WeatherSnapshot, month time.Month, season string) ([]BucketForecast, error) {
	existing, err := a.store.GetBiteForecasts(regionID, p.ID, date)
	if err != nil {
		return nil, fmt.Errorf("load persisted forecasts for %s: %w", p.ID, err)
	}

	var buckets []BucketForecast
	for _, tod := range Buckets {
		if row, ok := existing[string(tod)]; ok {
			buckets = append(buckets, fromStoredForecast(row))
			continue
		}

		var relevant []models.WeatherSnapshot
		for _, w := range snaps {
			if GetTimeOfDay(w.ForecastHour) == tod {
				relevant = append(relevant, w)
			}
		}
		if len(relevant) == 0 {
			continue
		}

		avg := averageConditions(relevant)
		result := CalculateBiteScore(avg, p, BucketStartHour(tod), month, date)

		bf := BucketForecast{
			TimeOfDay:          string(tod),
			BiteScore:          result.BiteScore,
			IsSpawnPeriod:      result.IsSpawnPeriod,
			TemperatureScore:   result.TemperatureScore,
			PressureScore:      result.PressureScore,
			WindScore:          result.WindScore,
			MoonScore:          result.MoonScore,
			PrecipitationScore: result.PrecipitationScore,
		}
		if result.IsSpawnPeriod {
			bf.SpawnMessage = ptr2(result.SpawnMessage)
		} else {
			bf.Recommendation = ptr2(Recommend(result.BiteScore, avg, p))
			bf.BestBaits = a.baits.Baits(p.Name, season)
		}
		bf.BestDepth = ptr2(a.baits.Depth(p.Name, season))
		buckets = append(buckets, bf)

		if err := a.store.UpsertBiteForecast(toStoredForecast(regionID, p.ID, date, bf)); err != nil {
			// Persistence is an optimization; the response is already
			// complete.
			log.Printf("assembler: persist forecast %s/%s/%s: %v", regionID, p.ID, tod, err)
		}
	}
	return buckets, nil
}

// rankForecasts orders species by the sum of their bucket scores,
// strongest first.
func rankForecasts(forecasts []SpeciesForecast) {
	score := func(sf SpeciesForecast) float64 {
		var sum float64
		for _, b := range sf.Forecasts {
			sum += b.BiteScore
		}
		return sum
	}
	for i := 1; i < len(forecasts); i++ {
		for j := i; j > 0 && score(forecasts[j]) > score(forecasts[j-1]); j-- {
			forecasts[j], forecasts[j-1] = forecasts[j-1], forecasts[j]
		}
	}
}

// averageConditions folds 3-hourly points into one synthetic reading:
// most fields are averaged over present values, precipitation is the
// day-part total and the moon phase is taken from the first point.
func averageConditions(snaps []models.WeatherSnapshot) Conditions {
	var (
		temps, winds, dirs, clouds, trends []float64
		pressures                          []float64
		precipTotal                        float64
	)
	var cond Conditions

	for _, w := range snaps {
		if w.Temperature.Valid {
			temps = append(temps, w.Temperature.Float64)
		}
		if w.PressureHPa.Valid {
			pressures = append(pressures, float64(w.PressureHPa.Int64))
		}
		if w.WindSpeed.Valid {
			winds = append(winds, w.WindSpeed.Float64)
		}
		if w.WindDirection.Valid {
			dirs = append(dirs, float64(w.WindDirection.Int64))
		}
		if w.Cloudiness.Valid {
			clouds = append(clouds, float64(w.Cloudiness.Int64))
		}
		if w.PrecipitationMM.Valid {
			precipTotal += w.PrecipitationMM.Float64
		}
		if w.MoonPhase.Valid && cond.MoonPhase == nil {
			cond.MoonPhase = ptr(w.MoonPhase.Float64)
		}
		trends = append(trends, w.PressureTrend)
	}

	cond.Temperature = mean(temps)
	cond.PressureHPa = mean(pressures)
	cond.WindSpeed = mean(winds)
	cond.WindDirection = mean(dirs)
	cond.Cloudiness = mean(clouds)
	cond.PrecipitationMM = ptr(precipTotal)
	if m := mean(trends); m != nil {
		cond.PressureTrend = *m
	}
	return cond
}

func mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return ptr(sum / float64(len(vals)))
}

func summarize(w models.WeatherSnapshot) WeatherSummary {
	var s WeatherSummary
	if w.Temperature.Valid {
		s.Temperature = ptr(w.Temperature.Float64)
	}
	if w.PressureHPa.Valid {
		mm := int(math.Round(float64(w.PressureHPa.Int64) * hpaToMmHg))
		s.Pressure = &mm
	}
	if w.WindSpeed.Valid {
		s.WindSpeed = ptr(w.WindSpeed.Float64)
	}
	if w.PrecipitationMM.Valid {
		s.Precipitation = ptr(w.PrecipitationMM.Float64)
	}
	if w.MoonPhase.Valid {
		s.MoonPhase = ptr(w.MoonPhase.Float64)
	}
	if w.Sunrise.Valid {
		s.Sunrise = ptr2(w.Sunrise.String)
	}
	if w.Sunset.Valid {
		s.Sunset = ptr2(w.Sunset.String)
	}
	return s
}

func fromStoredForecast(f models.BiteForecast) BucketForecast {
	bf := BucketForecast{
		TimeOfDay:          f.TimeOfDay,
		BiteScore:          f.BiteScore,
		IsSpawnPeriod:      f.IsSpawn,
		TemperatureScore:   nullToPtr(f.TemperatureScore),
		PressureScore:      nullToPtr(f.PressureScore),
		WindScore:          nullToPtr(f.WindScore),
		MoonScore:          nullToPtr(f.MoonScore),
		PrecipitationScore: nullToPtr(f.PrecipitationScore),
		BestBaits:          f.BestBaits,
	}
	if f.SpawnMessage.Valid {
		bf.SpawnMessage = ptr2(f.SpawnMessage.String)
	}
	if f.Recommendation.Valid {
		bf.Recommendation = ptr2(f.Recommendation.String)
	}
	if f.BestDepth.Valid {
		bf.BestDepth = ptr2(f.BestDepth.String)
	}
	return bf
}

func toStoredForecast(regionID, speciesID string, date time.Time, bf BucketForecast) models.BiteForecast {
	f := models.BiteForecast{
		RegionID:           regionID,
		SpeciesID:          speciesID,
		ForecastDate:       date,
		TimeOfDay:          bf.TimeOfDay,
		BiteScore:          bf.BiteScore,
		TemperatureScore:   ptrToNull(bf.TemperatureScore),
		PressureScore:      ptrToNull(bf.PressureScore),
		WindScore:          ptrToNull(bf.WindScore),
		MoonScore:          ptrToNull(bf.MoonScore),
		PrecipitationScore: ptrToNull(bf.PrecipitationScore),
		IsSpawn:            bf.IsSpawnPeriod,
		BestBaits:          bf.BestBaits,
	}
	if bf.SpawnMessage != nil {
		f.SpawnMessage = sql.NullString{String: *bf.SpawnMessage, Valid: true}
	}
	if bf.Recommendation != nil {
		f.Recommendation = sql.NullString{String: *bf.Recommendation, Valid: true}
	}
	if bf.BestDepth != nil {
		f.BestDepth = sql.NullString{String: *bf.BestDepth, Valid: true}
	}
	return f
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return ptr(v.Float64)
}

func ptrToNull(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func ptr2(s string) *string { return &s }
