package forecast

import (
	"strings"
	"testing"
	"time"

	"github.com/bitecast/bitecast/internal/models"
)

func spawnProfile(startMonth, endMonth, startDay, endDay int) models.SpeciesProfile {
	p := testProfile()
	p.SpawnStartMonth = nullMonth(startMonth)
	p.SpawnEndMonth = nullMonth(endMonth)
	p.SpawnStartDay = startDay
	p.SpawnEndDay = endDay
	return p
}

func TestInSpawnPeriod_NoWindow(t *testing.T) {
	p := testProfile()
	in, msg := InSpawnPeriod(p, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))
	if in {
		t.Error("species without spawn window reported in spawn")
	}
	if msg != "" {
		t.Errorf("msg = %q, want empty", msg)
	}
}

func TestInSpawnPeriod_SameMonth(t *testing.T) {
	p := spawnProfile(4, 4, 10, 20)

	tests := []struct {
		date string
		want bool
	}{
		{"2025-04-09", false},
		{"2025-04-10", true},
		{"2025-04-15", true},
		{"2025-04-20", true},
		{"2025-04-21", false},
		{"2025-03-15", false},
		{"2025-05-15", false},
	}
	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		if in, _ := InSpawnPeriod(p, d); in != tt.want {
			t.Errorf("InSpawnPeriod(%s) = %v, want %v", tt.date, in, tt.want)
		}
	}
}

func TestInSpawnPeriod_SameYearRange(t *testing.T) {
	p := spawnProfile(4, 6, 15, 10)

	tests := []struct {
		date string
		want bool
	}{
		{"2025-04-14", false},
		{"2025-04-15", true},
		{"2025-05-01", true}, // whole middle month
		{"2025-05-31", true},
		{"2025-06-10", true},
		{"2025-06-11", false},
		{"2025-07-01", false},
	}
	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		if in, _ := InSpawnPeriod(p, d); in != tt.want {
			t.Errorf("InSpawnPeriod(%s) = %v, want %v", tt.date, in, tt.want)
		}
	}
}

func TestInSpawnPeriod_YearWrap(t *testing.T) {
	// December through February, burbot style. Membership is by month.
	p := spawnProfile(12, 2, 15, 28)

	tests := []struct {
		date string
		want bool
	}{
		{"2025-12-20", true},
		{"2025-12-01", true},
		{"2026-01-15", true},
		{"2026-02-15", true},
		{"2026-03-15", false},
		{"2025-11-30", false},
	}
	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		if in, _ := InSpawnPeriod(p, d); in != tt.want {
			t.Errorf("InSpawnPeriod(%s) = %v, want %v", tt.date, in, tt.want)
		}
	}
}

func TestInSpawnPeriod_Message(t *testing.T) {
	p := spawnProfile(12, 2, 15, 28)
	in, msg := InSpawnPeriod(p, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	if !in {
		t.Fatal("expected in spawn")
	}
	want := "Нерестовый период (15 декабря - 28 февраля) — вылов запрещен"
	if msg != want {
		t.Errorf("msg = %q, want %q", msg, want)
	}
	if !strings.Contains(msg, "запрещен") {
		t.Error("message must state the ban")
	}
}

func TestMoonPhaseFraction(t *testing.T) {
	// The epoch itself is a new moon.
	if got := MoonPhaseFraction(time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)); got > 0.01 {
		t.Errorf("fraction at epoch = %.3f, want ~0", got)
	}

	// Half a cycle later is a full moon.
	full := time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC).Add(time.Duration(float64(24*time.Hour) * lunarCycle / 2))
	if got := MoonPhaseFraction(full); got < 0.48 || got > 0.52 {
		t.Errorf("fraction at epoch+half cycle = %.3f, want ~0.5", got)
	}

	// Always in [0, 1), including before the epoch.
	for _, d := range []time.Time{
		time.Date(1999, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC),
	} {
		got := MoonPhaseFraction(d)
		if got < 0 || got >= 1 {
			t.Errorf("fraction(%s) = %.3f, out of [0, 1)", d.Format("2006-01-02"), got)
		}
	}
}
