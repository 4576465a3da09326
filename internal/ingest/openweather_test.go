package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitecast/bitecast/internal/cache"
	"github.com/bitecast/bitecast/internal/models"
)

const currentWeatherBody = `{
	"main": {"temp": 18.5, "feels_like": 17.2, "pressure": 1013, "humidity": 62},
	"wind": {"speed": 4.2, "deg": 220, "gust": 7.1},
	"clouds": {"all": 75},
	"weather": [{"main": "Clouds", "description": "облачно с прояснениями", "icon": "04d"}],
	"visibility": 10000,
	"sys": {"sunrise": 1756527600, "sunset": 1756576800},
	"name": "Москва"
}`

const forecastBody = `{
	"city": {"name": "Москва", "sunrise": 1756527600, "sunset": 1756576800},
	"list": [
		{
			"dt": 1756533600,
			"main": {"temp": 16.1, "feels_like": 15.5, "pressure": 1012, "humidity": 70},
			"wind": {"speed": 3.0, "deg": 200},
			"clouds": {"all": 40},
			"weather": [{"main": "Clouds", "icon": "03d"}],
			"rain": {"1h": 0.3},
			"pop": 0.4,
			"visibility": 10000
		},
		{
			"dt": 1756544400,
			"main": {"temp": 19.0, "pressure": 1010},
			"wind": {"speed": 4.5, "deg": 215},
			"clouds": {"all": 60},
			"weather": [{"main": "Rain", "icon": "10d"}],
			"rain": {"1h": 1.2},
			"snow": {"1h": 0.1},
			"pop": 0.8
		}
	]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenWeather {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenWeather("test-key", srv.URL, cache.NewMemory(), time.Hour)
}

func TestCurrentWeather_ParsesAndNormalizes(t *testing.T) {
	var gotQuery map[string]string
	ow := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"appid": r.URL.Query().Get("appid"),
			"units": r.URL.Query().Get("units"),
			"lang":  r.URL.Query().Get("lang"),
		}
		w.Write([]byte(currentWeatherBody))
	})

	cc, err := ow.CurrentWeather(context.Background(), 55.7558, 37.6173, false)
	if err != nil {
		t.Fatalf("CurrentWeather: %v", err)
	}

	if gotQuery["appid"] != "test-key" || gotQuery["units"] != "metric" || gotQuery["lang"] != "ru" {
		t.Errorf("query params = %v", gotQuery)
	}

	if cc.Temperature == nil || *cc.Temperature != 18.5 {
		t.Errorf("Temperature = %v, want 18.5", cc.Temperature)
	}
	if cc.PressureHPa == nil || *cc.PressureHPa != 1013 {
		t.Errorf("PressureHPa = %v, want 1013", cc.PressureHPa)
	}
	// 1013 hPa ≈ 759.8 mmHg, rounded to 760.
	if cc.PressureMmHg == nil || *cc.PressureMmHg != 760 {
		t.Errorf("PressureMmHg = %v, want 760", cc.PressureMmHg)
	}
	if cc.WeatherCondition != "Clouds" {
		t.Errorf("WeatherCondition = %q", cc.WeatherCondition)
	}
	if cc.Sunrise == "" || cc.Sunset == "" {
		t.Error("sunrise/sunset not set")
	}
	if cc.CityName != "Москва" {
		t.Errorf("CityName = %q", cc.CityName)
	}
}

func TestCurrentWeather_UsesCache(t *testing.T) {
	calls := 0
	ow := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(currentWeatherBody))
	})

	ctx := context.Background()
	if _, err := ow.CurrentWeather(ctx, 55.7558, 37.6173, true); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := ow.CurrentWeather(ctx, 55.7558, 37.6173, true); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if calls != 1 {
		t.Errorf("upstream calls = %d, want 1 (second should hit cache)", calls)
	}

	// Bypassing the cache refetches.
	if _, err := ow.CurrentWeather(ctx, 55.7558, 37.6173, false); err != nil {
		t.Fatalf("bypass call: %v", err)
	}
	if calls != 2 {
		t.Errorf("upstream calls = %d, want 2", calls)
	}
}

func TestForecast_ParsesPoints(t *testing.T) {
	var gotCnt string
	ow := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotCnt = r.URL.Query().Get("cnt")
		w.Write([]byte(forecastBody))
	})

	resp, err := ow.Forecast(context.Background(), 55.7558, 37.6173, 4)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if gotCnt != "32" {
		t.Errorf("cnt = %q, want 32", gotCnt)
	}
	if len(resp.List) != 2 {
		t.Fatalf("len(list) = %d, want 2", len(resp.List))
	}
	p := resp.List[1]
	if p.Main.Temp == nil || *p.Main.Temp != 19.0 {
		t.Errorf("Temp = %v, want 19.0", p.Main.Temp)
	}
	if p.Main.FeelsLike != nil {
		t.Errorf("FeelsLike = %v, want nil for absent field", p.Main.FeelsLike)
	}
	if p.Rain.OneHour != 1.2 || p.Snow.OneHour != 0.1 {
		t.Errorf("precipitation = %.1f/%.1f", p.Rain.OneHour, p.Snow.OneHour)
	}
	if resp.City.Sunrise != 1756527600 {
		t.Errorf("City.Sunrise = %d", resp.City.Sunrise)
	}
}

func TestForecast_CapsPointCount(t *testing.T) {
	var gotCnt string
	ow := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotCnt = r.URL.Query().Get("cnt")
		w.Write([]byte(forecastBody))
	})

	if _, err := ow.Forecast(context.Background(), 55.7558, 37.6173, 10); err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if gotCnt != "40" {
		t.Errorf("cnt = %q, want 40", gotCnt)
	}
}

func TestForecast_Non200IsUpstreamUnavailable(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusInternalServerError} {
		ow := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, err := ow.Forecast(context.Background(), 55.7558, 37.6173, 4)
		if !errors.Is(err, models.ErrUpstreamUnavailable) {
			t.Errorf("status %d: err = %v, want ErrUpstreamUnavailable", status, err)
		}
	}
}

func TestForecast_MalformedBodyIsBadPayload(t *testing.T) {
	ow := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"city": `))
	})
	_, err := ow.Forecast(context.Background(), 55.7558, 37.6173, 4)
	if !errors.Is(err, models.ErrBadPayload) {
		t.Errorf("err = %v, want ErrBadPayload", err)
	}
}

func TestForecast_TransportFailureIsUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on
	ow := NewOpenWeather("test-key", srv.URL, cache.NewMemory(), time.Hour)

	_, err := ow.Forecast(context.Background(), 55.7558, 37.6173, 4)
	if !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
}
