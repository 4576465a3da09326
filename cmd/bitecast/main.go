package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/bitecast/bitecast/internal/api"
	"github.com/bitecast/bitecast/internal/cache"
	"github.com/bitecast/bitecast/internal/forecast"
	"github.com/bitecast/bitecast/internal/ingest"
	"github.com/bitecast/bitecast/internal/models"
	"github.com/bitecast/bitecast/internal/store"
)

type cli struct {
	DB        string        `help:"Path to the SQLite database." default:"data/bitecast.db" env:"BITECAST_DB"`
	Port      string        `help:"HTTP server port." default:"8080" env:"PORT"`
	APIKey    string        `help:"OpenWeatherMap API key." env:"OPENWEATHER_API_KEY" required:""`
	BaseURL   string        `help:"OpenWeatherMap base URL." default:"https://api.openweathermap.org/data/2.5" env:"OPENWEATHER_BASE_URL"`
	RedisAddr string        `help:"Redis address; empty keeps the cache in-process." env:"REDIS_ADDR"`
	CacheTTL  time.Duration `help:"Forecast and weather cache TTL." default:"1h" env:"CACHE_TTL"`
	Horizon   int           `help:"Forecast horizon in days collected per run." default:"4" env:"COLLECT_DAYS"`
	Timezone  string        `help:"Timezone the collection schedule runs in." default:"Europe/Moscow" env:"COLLECT_TZ"`
	CronSpec  string        `help:"Cron spec for scheduled collection." default:"0 1,13 * * *" env:"COLLECT_CRON"`
	NoPoll    bool          `help:"Disable scheduled collection (server only, for local dev)."`
	Once      bool          `help:"Collect once and exit."`
}

func main() {
	var flags cli
	kong.Parse(&flags,
		kong.Name("bitecast"),
		kong.Description("Fishing bite forecast service."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", flags.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA foreign_keys=ON")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	for _, region := range defaultRegions {
		if err := st.UpsertRegion(region); err != nil {
			log.Fatalf("upsert region %s: %v", region.ID, err)
		}
	}
	for _, sp := range defaultSpecies {
		if err := st.UpsertSpecies(sp); err != nil {
			log.Fatalf("upsert species %s: %v", sp.ID, err)
		}
	}
	log.Println("regions and species seeded")

	var cacheBackend cache.Cache
	if flags.RedisAddr != "" {
		r := cache.NewRedis(flags.RedisAddr)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.Ping(pingCtx); err != nil {
			log.Printf("redis unreachable, falling back to in-process cache: %v", err)
			cacheBackend = cache.NewMemory()
		} else {
			cacheBackend = r
		}
		cancel()
	} else {
		cacheBackend = cache.NewMemory()
	}

	clock := models.SystemClock{}
	provider := ingest.NewOpenWeather(flags.APIKey, flags.BaseURL, cacheBackend, flags.CacheTTL)
	collector := ingest.NewCollector(st, provider, ingest.DefaultRetryPolicy(), clock, flags.Horizon)
	assembler := forecast.NewAssembler(st, cacheBackend, clock, flags.CacheTTL, forecast.DefaultBaitBook())
	server := api.NewServer(st, assembler, collector, provider, flags.Port)

	if flags.Once {
		log.Println("running single collection")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		summary, err := collector.CollectAllRegions(ctx, 0)
		if err != nil {
			log.Fatalf("collect: %v", err)
		}
		log.Printf("done: %s, %d/%d regions, %d records",
			summary.Status, summary.Collected, summary.TotalRegions, summary.TotalRecords)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !flags.NoPoll {
		scheduler, err := ingest.NewScheduler(collector, flags.CronSpec, flags.Timezone)
		if err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Println("scheduled collection disabled (--no-poll)")
	}

	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
