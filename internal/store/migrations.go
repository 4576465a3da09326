package store

import (
	"fmt"
	"log"
	"time"
)

type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS regions (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    code TEXT NOT NULL UNIQUE,
    latitude REAL NOT NULL,
    longitude REAL NOT NULL,
    timezone TEXT NOT NULL DEFAULT 'Europe/Moscow',
    active BOOLEAN DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS species (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    icon TEXT,
    category TEXT NOT NULL DEFAULT 'predator',
    optimal_temp_min REAL NOT NULL DEFAULT 10,
    optimal_temp_max REAL NOT NULL DEFAULT 25,
    optimal_pressure_min INTEGER NOT NULL DEFAULT 750,
    optimal_pressure_max INTEGER NOT NULL DEFAULT 770,
    max_wind_speed REAL NOT NULL DEFAULT 8,
    prefer_morning BOOLEAN DEFAULT TRUE,
    prefer_evening BOOLEAN DEFAULT TRUE,
    prefer_overcast BOOLEAN DEFAULT FALSE,
    moon_sensitivity REAL DEFAULT 0.5,
    active_in_winter BOOLEAN DEFAULT FALSE,
    spawn_start_month INTEGER,
    spawn_end_month INTEGER,
    spawn_start_day INTEGER DEFAULT 1,
    spawn_end_day INTEGER DEFAULT 31,
    region_ids TEXT,
    active BOOLEAN DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS weather (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    region_id TEXT NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
    forecast_date TEXT NOT NULL,
    forecast_hour INTEGER NOT NULL CHECK(forecast_hour >= 0 AND forecast_hour <= 23),
    temperature REAL,
    feels_like REAL,
    pressure_hpa INTEGER,
    humidity INTEGER,
    wind_speed REAL,
    wind_direction INTEGER,
    wind_gust REAL,
    cloudiness INTEGER,
    precipitation_mm REAL,
    precipitation_probability INTEGER,
    condition TEXT,
    icon TEXT,
    visibility_m INTEGER,
    uv_index REAL,
    moon_phase REAL,
    sunrise TEXT,
    sunset TEXT,
    pressure_trend REAL NOT NULL DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(region_id, forecast_date, forecast_hour)
);

CREATE TABLE IF NOT EXISTS bite_forecasts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    region_id TEXT NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
    species_id TEXT NOT NULL REFERENCES species(id) ON DELETE CASCADE,
    forecast_date TEXT NOT NULL,
    time_of_day TEXT NOT NULL CHECK(time_of_day IN ('morning', 'day', 'evening', 'night')),
    bite_score REAL NOT NULL CHECK(bite_score >= 0 AND bite_score <= 100),
    temperature_score REAL,
    pressure_score REAL,
    wind_score REAL,
    moon_score REAL,
    precipitation_score REAL,
    is_spawn BOOLEAN DEFAULT FALSE,
    spawn_message TEXT,
    recommendation TEXT,
    best_baits TEXT,
    best_depth TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(region_id, species_id, forecast_date, time_of_day)
);

CREATE INDEX IF NOT EXISTS idx_weather_region_date ON weather(region_id, forecast_date);
CREATE INDEX IF NOT EXISTS idx_bite_region_date ON bite_forecasts(region_id, forecast_date);
`,
	},
}

func (s *Store) Migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	var current int
	err = s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		start := time.Now()
		if _, err := s.db.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`, m.Version, m.Description); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		log.Printf("store: applied migration %d (%s) in %s", m.Version, m.Description, time.Since(start))
	}

	return nil
}
