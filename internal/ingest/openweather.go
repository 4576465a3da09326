// Package ingest fetches weather from OpenWeatherMap and maintains the
// rolling per-region snapshot window in the store.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/bitecast/bitecast/internal/cache"
	"github.com/bitecast/bitecast/internal/metrics"
	"github.com/bitecast/bitecast/internal/models"
)

// OpenWeather talks to the OpenWeatherMap 2.5 API. Transport failures
// and non-200 statuses surface as models.ErrUpstreamUnavailable so the
// caller's retry policy can distinguish them from malformed payloads.
type OpenWeather struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   cache.Cache
	ttl     time.Duration
}

func NewOpenWeather(apiKey, baseURL string, c cache.Cache, ttl time.Duration) *OpenWeather {
	return &OpenWeather{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		cache:   c,
		ttl:     ttl,
	}
}

// CurrentConditions is the normalized current-weather reading. Pressure
// is reported both raw (hPa) and converted (mmHg, rounded).
type CurrentConditions struct {
	Temperature        *float64 `json:"temperature"`
	FeelsLike          *float64 `json:"feels_like"`
	PressureHPa        *int64   `json:"pressure_hpa"`
	PressureMmHg       *float64 `json:"pressure_mmhg"`
	Humidity           *int64   `json:"humidity"`
	WindSpeed          *float64 `json:"wind_speed"`
	WindDirection      *int64   `json:"wind_direction"`
	WindGust           *float64 `json:"wind_gust"`
	Cloudiness         *int64   `json:"cloudiness"`
	WeatherCondition   string   `json:"weather_condition,omitempty"`
	WeatherDescription string   `json:"weather_description,omitempty"`
	WeatherIcon        string   `json:"weather_icon,omitempty"`
	VisibilityM        *int64   `json:"visibility_m"`
	Sunrise            string   `json:"sunrise,omitempty"` // HH:MM:SS UTC
	Sunset             string   `json:"sunset,omitempty"`
	CityName           string   `json:"city_name,omitempty"`
}

// ForecastResponse is the raw 5-day/3-hour forecast payload shape.
type ForecastResponse struct {
	City City            `json:"city"`
	List []ForecastPoint `json:"list"`
}

type City struct {
	Name    string `json:"name"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

type ForecastPoint struct {
	Dt         int64         `json:"dt"`
	Main       MainBlock     `json:"main"`
	Wind       WindBlock     `json:"wind"`
	Clouds     CloudsBlock   `json:"clouds"`
	Weather    []WeatherDesc `json:"weather"`
	Rain       Volume        `json:"rain"`
	Snow       Volume        `json:"snow"`
	Pop        float64       `json:"pop"`
	Visibility *int64        `json:"visibility"`
}

type MainBlock struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	Pressure  *int64   `json:"pressure"`
	Humidity  *int64   `json:"humidity"`
}

type WindBlock struct {
	Speed *float64 `json:"speed"`
	Deg   *int64   `json:"deg"`
	Gust  *float64 `json:"gust"`
}

type CloudsBlock struct {
	All *int64 `json:"all"`
}

type WeatherDesc struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Volume struct {
	OneHour float64 `json:"1h"`
}

// CurrentWeather fetches the current reading for a coordinate. With
// useCache, a fresh cached value short-circuits the upstream call and
// the fetched result is cached afterwards.
func (o *OpenWeather) CurrentWeather(ctx context.Context, lat, lon float64, useCache bool) (*CurrentConditions, error) {
	key := cache.WeatherKey(lat, lon)

	if useCache {
		if raw, ok := o.cache.Get(ctx, key); ok {
			var cc CurrentConditions
			if err := json.Unmarshal(raw, &cc); err == nil {
				return &cc, nil
			}
			log.Printf("ingest: discarding bad cached weather %s", key)
		}
	}

	body, err := o.get(ctx, "weather", url.Values{
		"lat": {fmt.Sprintf("%g", lat)},
		"lon": {fmt.Sprintf("%g", lon)},
	})
	if err != nil {
		return nil, err
	}

	var raw struct {
		Main       MainBlock     `json:"main"`
		Wind       WindBlock     `json:"wind"`
		Clouds     CloudsBlock   `json:"clouds"`
		Weather    []WeatherDesc `json:"weather"`
		Visibility *int64        `json:"visibility"`
		Name       string        `json:"name"`
		Sys        struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		metrics.ProviderRequests.WithLabelValues("weather", "bad_payload").Inc()
		return nil, fmt.Errorf("%w: decode current weather: %v", models.ErrBadPayload, err)
	}

	cc := &CurrentConditions{
		Temperature:   raw.Main.Temp,
		FeelsLike:     raw.Main.FeelsLike,
		PressureHPa:   raw.Main.Pressure,
		Humidity:      raw.Main.Humidity,
		WindSpeed:     raw.Wind.Speed,
		WindDirection: raw.Wind.Deg,
		WindGust:      raw.Wind.Gust,
		Cloudiness:    raw.Clouds.All,
		VisibilityM:   raw.Visibility,
		CityName:      raw.Name,
	}
	if raw.Main.Pressure != nil {
		mm := float64(int(float64(*raw.Main.Pressure)*hpaPerMmHg + 0.5))
		cc.PressureMmHg = &mm
	}
	if len(raw.Weather) > 0 {
		cc.WeatherCondition = raw.Weather[0].Main
		cc.WeatherDescription = raw.Weather[0].Description
		cc.WeatherIcon = raw.Weather[0].Icon
	}
	if raw.Sys.Sunrise > 0 {
		cc.Sunrise = time.Unix(raw.Sys.Sunrise, 0).UTC().Format("15:04:05")
	}
	if raw.Sys.Sunset > 0 {
		cc.Sunset = time.Unix(raw.Sys.Sunset, 0).UTC().Format("15:04:05")
	}

	if out, err := json.Marshal(cc); err == nil {
		o.cache.Set(ctx, key, out, o.ttl)
	}
	return cc, nil
}

// Forecast fetches the 3-hourly forecast for the requested number of
// days. The point count is capped at the API's 40-point maximum.
func (o *OpenWeather) Forecast(ctx context.Context, lat, lon float64, days int) (*ForecastResponse, error) {
	cnt := days * 8
	if cnt > 40 {
		cnt = 40
	}

	body, err := o.get(ctx, "forecast", url.Values{
		"lat": {fmt.Sprintf("%g", lat)},
		"lon": {fmt.Sprintf("%g", lon)},
		"cnt": {fmt.Sprintf("%d", cnt)},
	})
	if err != nil {
		return nil, err
	}

	var resp ForecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.ProviderRequests.WithLabelValues("forecast", "bad_payload").Inc()
		return nil, fmt.Errorf("%w: decode forecast: %v", models.ErrBadPayload, err)
	}
	return &resp, nil
}

func (o *OpenWeather) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("appid", o.apiKey)
	params.Set("units", "metric")
	params.Set("lang", "ru")

	u := fmt.Sprintf("%s/%s?%s", o.baseURL, endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := o.client.Do(req)
	metrics.ProviderLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "upstream_error").Inc()
		return nil, fmt.Errorf("%w: %s: %v", models.ErrUpstreamUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequests.WithLabelValues(endpoint, "upstream_error").Inc()
		return nil, fmt.Errorf("%w: %s returned %d", models.ErrUpstreamUnavailable, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "upstream_error").Inc()
		return nil, fmt.Errorf("%w: read %s body: %v", models.ErrUpstreamUnavailable, endpoint, err)
	}
	metrics.ProviderRequests.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

const hpaPerMmHg = 0.750062
