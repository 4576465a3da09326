// Package api exposes the HTTP surface: forecast reads, collection
// triggers and species tuning.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitecast/bitecast/internal/forecast"
	"github.com/bitecast/bitecast/internal/ingest"
	"github.com/bitecast/bitecast/internal/models"
	"github.com/bitecast/bitecast/internal/store"
)

// WeatherProvider is the current-weather source for the live endpoint.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, lat, lon float64, useCache bool) (*ingest.CurrentConditions, error)
}

type Server struct {
	store     *store.Store
	assembler *forecast.Assembler
	collector *ingest.Collector
	weather   WeatherProvider
	port      string
}

func NewServer(st *store.Store, asm *forecast.Assembler, col *ingest.Collector, wp WeatherProvider, port string) *Server {
	return &Server{
		store:     st,
		assembler: asm,
		collector: col,
		weather:   wp,
		port:      port,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/regions", s.handleRegions)
	mux.HandleFunc("GET /api/forecast/{regionID}", s.handleForecast)
	mux.HandleFunc("GET /api/weather/current/{regionID}", s.handleCurrentWeather)
	mux.HandleFunc("POST /api/collect", s.handleCollectAll)
	mux.HandleFunc("POST /api/collect/{regionID}", s.handleCollectRegion)
	mux.HandleFunc("GET /api/species", s.handleSpecies)
	mux.HandleFunc("PATCH /api/species/{speciesID}", s.handlePatchSpecies)
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("api: listening on :%s", s.port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := s.store.GetActiveRegions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if regions == nil {
		regions = []models.Region{}
	}
	writeJSON(w, http.StatusOK, regions)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	regionID := r.PathValue("regionID")

	var date time.Time
	if q := r.URL.Query().Get("date"); q != "" {
		d, err := time.Parse("2006-01-02", q)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("date must be YYYY-MM-DD"))
			return
		}
		date = d
	}
	speciesID := r.URL.Query().Get("species")

	payload, err := s.assembler.GetForecast(r.Context(), regionID, date, speciesID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRegionNotFound):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, models.ErrNoWeatherData):
			writeError(w, http.StatusNotFound, err)
		default:
			log.Printf("api: forecast %s: %v", regionID, err)
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleCurrentWeather(w http.ResponseWriter, r *http.Request) {
	regionID := r.PathValue("regionID")
	region, err := s.store.GetActiveRegion(regionID)
	if err != nil {
		if errors.Is(err, models.ErrRegionNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	cc, err := s.weather.CurrentWeather(r.Context(), region.Latitude, region.Longitude, true)
	if err != nil {
		if errors.Is(err, models.ErrUpstreamUnavailable) || errors.Is(err, models.ErrBadPayload) {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		log.Printf("api: current weather %s: %v", regionID, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cc)
}

// parseDays reads the optional days query parameter. 0 means the
// collector's configured horizon.
func parseDays(r *http.Request) (int, error) {
	q := r.URL.Query().Get("days")
	if q == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(q)
	if err != nil || days < 1 || days > 5 {
		return 0, errors.New("days must be an integer between 1 and 5")
	}
	return days, nil
}

func (s *Server) handleCollectAll(w http.ResponseWriter, r *http.Request) {
	days, err := parseDays(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	summary, err := s.collector.CollectAllRegions(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCollectRegion(w http.ResponseWriter, r *http.Request) {
	regionID := r.PathValue("regionID")
	days, err := parseDays(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	result, err := s.collector.CollectRegion(r.Context(), regionID, days)
	if err != nil {
		if errors.Is(err, models.ErrRegionNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.GetActiveSpecies()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	views := make([]speciesView, 0, len(profiles))
	for _, sp := range profiles {
		views = append(views, viewSpecies(sp))
	}
	writeJSON(w, http.StatusOK, views)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}
