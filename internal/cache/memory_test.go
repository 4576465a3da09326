package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok := m.Get(ctx, "missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	m.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := m.Get(ctx, "k")
	if !ok {
		t.Fatal("Get = miss, want hit")
	}
	if string(got) != "v" {
		t.Errorf("value = %q, want v", got)
	}
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), time.Hour)

	now = now.Add(59 * time.Minute)
	if _, ok := m.Get(ctx, "k"); !ok {
		t.Error("entry expired early")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("entry survived past its TTL")
	}

	// Expired entry is evicted, not just hidden.
	m.mu.RLock()
	_, present := m.data["k"]
	m.mu.RUnlock()
	if present {
		t.Error("expired entry still stored")
	}
}

func TestMemory_Overwrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("old"), time.Minute)
	m.Set(ctx, "k", []byte("new"), time.Minute)

	got, ok := m.Get(ctx, "k")
	if !ok || string(got) != "new" {
		t.Errorf("value = %q, %v, want new", got, ok)
	}
}

func TestKeys(t *testing.T) {
	date := time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC)
	if got := ForecastKey("moscow", date); got != "forecast:moscow:2025-08-30" {
		t.Errorf("ForecastKey = %q", got)
	}
	if got := WeatherKey(55.7558, 37.6173); got != "weather:55.7558:37.6173" {
		t.Errorf("WeatherKey = %q", got)
	}
	// Coordinates are rounded so nearby lookups share an entry.
	if WeatherKey(55.75581, 37.61729) != WeatherKey(55.75579, 37.61731) {
		t.Error("nearby coordinates produced different keys")
	}
}
