package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitecast/bitecast/internal/models"
)

const dateFormat = "2006-01-02"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertRegion(r models.Region) error {
	_, err := s.db.Exec(`
		INSERT INTO regions (id, name, code, latitude, longitude, timezone, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			code = excluded.code,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			timezone = excluded.timezone,
			active = excluded.active
	`, r.ID, r.Name, r.Code, r.Latitude, r.Longitude, r.Timezone, r.Active)
	return err
}

// GetActiveRegions returns active regions ordered by name, the order the
// collector visits them in.
func (s *Store) GetActiveRegions() ([]models.Region, error) {
	rows, err := s.db.Query(`SELECT id, name, code, latitude, longitude, timezone, active FROM regions WHERE active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var regions []models.Region
	for rows.Next() {
		var r models.Region
		if err := rows.Scan(&r.ID, &r.Name, &r.Code, &r.Latitude, &r.Longitude, &r.Timezone, &r.Active); err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

// GetActiveRegion returns a single active region or models.ErrRegionNotFound.
func (s *Store) GetActiveRegion(id string) (*models.Region, error) {
	row := s.db.QueryRow(`SELECT id, name, code, latitude, longitude, timezone, active FROM regions WHERE id = ? AND active = TRUE`, id)

	var r models.Region
	err := row.Scan(&r.ID, &r.Name, &r.Code, &r.Latitude, &r.Longitude, &r.Timezone, &r.Active)
	if err == sql.ErrNoRows {
		return nil, models.ErrRegionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const speciesColumns = `id, name, icon, category, optimal_temp_min, optimal_temp_max,
	optimal_pressure_min, optimal_pressure_max, max_wind_speed,
	prefer_morning, prefer_evening, prefer_overcast, moon_sensitivity, active_in_winter,
	spawn_start_month, spawn_end_month, spawn_start_day, spawn_end_day, region_ids, active`

func (s *Store) UpsertSpecies(p models.SpeciesProfile) error {
	regionIDs, err := marshalStrings(p.RegionIDs)
	if err != nil {
		return fmt.Errorf("marshal region ids: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO species (`+speciesColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			icon = excluded.icon,
			category = excluded.category,
			optimal_temp_min = excluded.optimal_temp_min,
			optimal_temp_max = excluded.optimal_temp_max,
			optimal_pressure_min = excluded.optimal_pressure_min,
			optimal_pressure_max = excluded.optimal_pressure_max,
			max_wind_speed = excluded.max_wind_speed,
			prefer_morning = excluded.prefer_morning,
			prefer_evening = excluded.prefer_evening,
			prefer_overcast = excluded.prefer_overcast,
			moon_sensitivity = excluded.moon_sensitivity,
			active_in_winter = excluded.active_in_winter,
			spawn_start_month = excluded.spawn_start_month,
			spawn_end_month = excluded.spawn_end_month,
			spawn_start_day = excluded.spawn_start_day,
			spawn_end_day = excluded.spawn_end_day,
			region_ids = excluded.region_ids,
			active = excluded.active
	`, p.ID, p.Name, p.Icon, p.Category, p.OptimalTempMin, p.OptimalTempMax,
		p.OptimalPressureMin, p.OptimalPressureMax, p.MaxWindSpeed,
		p.PreferMorning, p.PreferEvening, p.PreferOvercast, p.MoonSensitivity, p.ActiveInWinter,
		p.SpawnStartMonth, p.SpawnEndMonth, p.SpawnStartDay, p.SpawnEndDay, regionIDs, p.Active)
	return err
}

func (s *Store) GetActiveSpecies() ([]models.SpeciesProfile, error) {
	rows, err := s.db.Query(`SELECT ` + speciesColumns + ` FROM species WHERE active = TRUE ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.SpeciesProfile
	for rows.Next() {
		p, err := scanSpecies(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (s *Store) GetSpecies(id string) (*models.SpeciesProfile, error) {
	rows, err := s.db.Query(`SELECT `+speciesColumns+` FROM species WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, models.ErrSpeciesNotFound
	}
	return scanSpecies(rows)
}

func scanSpecies(rows *sql.Rows) (*models.SpeciesProfile, error) {
	var p models.SpeciesProfile
	var icon, regionIDs sql.NullString
	if err := rows.Scan(&p.ID, &p.Name, &icon, &p.Category, &p.OptimalTempMin, &p.OptimalTempMax,
		&p.OptimalPressureMin, &p.OptimalPressureMax, &p.MaxWindSpeed,
		&p.PreferMorning, &p.PreferEvening, &p.PreferOvercast, &p.MoonSensitivity, &p.ActiveInWinter,
		&p.SpawnStartMonth, &p.SpawnEndMonth, &p.SpawnStartDay, &p.SpawnEndDay, &regionIDs, &p.Active); err != nil {
		return nil, err
	}
	p.Icon = icon.String
	if regionIDs.Valid && regionIDs.String != "" {
		if err := json.Unmarshal([]byte(regionIDs.String), &p.RegionIDs); err != nil {
			return nil, fmt.Errorf("unmarshal region ids for %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

// ReplaceWeatherWindow deletes all snapshots for the region dated from
// onwards and inserts the given rows in one transaction. This is the
// collector's window rewrite: re-running it with identical input leaves
// the stored row set unchanged.
func (s *Store) ReplaceWeatherWindow(regionID string, from time.Time, snaps []models.WeatherSnapshot) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM weather WHERE region_id = ? AND forecast_date >= ?`,
		regionID, from.Format(dateFormat)); err != nil {
		return 0, fmt.Errorf("delete window: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO weather (region_id, forecast_date, forecast_hour, temperature, feels_like,
			pressure_hpa, humidity, wind_speed, wind_direction, wind_gust, cloudiness,
			precipitation_mm, precipitation_probability, condition, icon, visibility_m,
			uv_index, moon_phase, sunrise, sunset, pressure_trend)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(region_id, forecast_date, forecast_hour) DO NOTHING
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, w := range snaps {
		res, err := stmt.Exec(regionID, w.ForecastDate.Format(dateFormat), w.ForecastHour,
			w.Temperature, w.FeelsLike, w.PressureHPa, w.Humidity, w.WindSpeed,
			w.WindDirection, w.WindGust, w.Cloudiness, w.PrecipitationMM,
			w.PrecipitationProbability, w.Condition, w.Icon, w.VisibilityM,
			w.UVIndex, w.MoonPhase, w.Sunrise, w.Sunset, w.PressureTrend)
		if err != nil {
			return 0, fmt.Errorf("insert snapshot %s/%d: %w", w.ForecastDate.Format(dateFormat), w.ForecastHour, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetWeatherForDate returns snapshots for a region and date ordered by hour.
func (s *Store) GetWeatherForDate(regionID string, date time.Time) ([]models.WeatherSnapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, region_id, forecast_date, forecast_hour, temperature, feels_like,
			pressure_hpa, humidity, wind_speed, wind_direction, wind_gust, cloudiness,
			precipitation_mm, precipitation_probability, condition, icon, visibility_m,
			uv_index, moon_phase, sunrise, sunset, pressure_trend, created_at
		FROM weather
		WHERE region_id = ? AND forecast_date = ?
		ORDER BY forecast_hour
	`, regionID, date.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []models.WeatherSnapshot
	for rows.Next() {
		var w models.WeatherSnapshot
		var dateStr string
		if err := rows.Scan(&w.ID, &w.RegionID, &dateStr, &w.ForecastHour, &w.Temperature, &w.FeelsLike,
			&w.PressureHPa, &w.Humidity, &w.WindSpeed, &w.WindDirection, &w.WindGust, &w.Cloudiness,
			&w.PrecipitationMM, &w.PrecipitationProbability, &w.Condition, &w.Icon, &w.VisibilityM,
			&w.UVIndex, &w.MoonPhase, &w.Sunrise, &w.Sunset, &w.PressureTrend, &w.CreatedAt); err != nil {
			return nil, err
		}
		w.ForecastDate, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse forecast date %q: %w", dateStr, err)
		}
		snaps = append(snaps, w)
	}
	return snaps, rows.Err()
}

// DatesWithWeather returns, ordered, the dates in (after, until] that
// have at least one snapshot for the region.
func (s *Store) DatesWithWeather(regionID string, after, until time.Time) ([]time.Time, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT forecast_date FROM weather
		WHERE region_id = ? AND forecast_date > ? AND forecast_date <= ?
		ORDER BY forecast_date
	`, regionID, after.Format(dateFormat), until.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var dateStr string
		if err := rows.Scan(&dateStr); err != nil {
			return nil, err
		}
		d, err := time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse forecast date %q: %w", dateStr, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (s *Store) UpsertBiteForecast(f models.BiteForecast) error {
	baits, err := marshalStrings(f.BestBaits)
	if err != nil {
		return fmt.Errorf("marshal baits: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO bite_forecasts (region_id, species_id, forecast_date, time_of_day,
			bite_score, temperature_score, pressure_score, wind_score, moon_score,
			precipitation_score, is_spawn, spawn_message, recommendation, best_baits, best_depth)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(region_id, species_id, forecast_date, time_of_day) DO UPDATE SET
			bite_score = excluded.bite_score,
			temperature_score = excluded.temperature_score,
			pressure_score = excluded.pressure_score,
			wind_score = excluded.wind_score,
			moon_score = excluded.moon_score,
			precipitation_score = excluded.precipitation_score,
			is_spawn = excluded.is_spawn,
			spawn_message = excluded.spawn_message,
			recommendation = excluded.recommendation,
			best_baits = excluded.best_baits,
			best_depth = excluded.best_depth
	`, f.RegionID, f.SpeciesID, f.ForecastDate.Format(dateFormat), f.TimeOfDay,
		f.BiteScore, f.TemperatureScore, f.PressureScore, f.WindScore, f.MoonScore,
		f.PrecipitationScore, f.IsSpawn, f.SpawnMessage, f.Recommendation, baits, f.BestDepth)
	return err
}

// GetBiteForecasts returns persisted rows for one species keyed by
// time-of-day bucket.
func (s *Store) GetBiteForecasts(regionID, speciesID string, date time.Time) (map[string]models.BiteForecast, error) {
	rows, err := s.db.Query(`
		SELECT id, region_id, species_id, forecast_date, time_of_day, bite_score,
			temperature_score, pressure_score, wind_score, moon_score, precipitation_score,
			is_spawn, spawn_message, recommendation, best_baits, best_depth
		FROM bite_forecasts
		WHERE region_id = ? AND species_id = ? AND forecast_date = ?
	`, regionID, speciesID, date.Format(dateFormat))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byBucket := make(map[string]models.BiteForecast)
	for rows.Next() {
		var f models.BiteForecast
		var dateStr string
		var baits sql.NullString
		if err := rows.Scan(&f.ID, &f.RegionID, &f.SpeciesID, &dateStr, &f.TimeOfDay, &f.BiteScore,
			&f.TemperatureScore, &f.PressureScore, &f.WindScore, &f.MoonScore, &f.PrecipitationScore,
			&f.IsSpawn, &f.SpawnMessage, &f.Recommendation, &baits, &f.BestDepth); err != nil {
			return nil, err
		}
		f.ForecastDate, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse forecast date %q: %w", dateStr, err)
		}
		if baits.Valid && baits.String != "" {
			if err := json.Unmarshal([]byte(baits.String), &f.BestBaits); err != nil {
				return nil, fmt.Errorf("unmarshal baits: %w", err)
			}
		}
		byBucket[f.TimeOfDay] = f
	}
	return byBucket, rows.Err()
}

func marshalStrings(vals []string) (sql.NullString, error) {
	if len(vals) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
