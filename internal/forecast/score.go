package forecast

import (
	"math"
	"time"

	"github.com/bitecast/bitecast/internal/models"
)

// TimeOfDay is a fixed hour-range partition of the day used for scoring.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning" // 06:00–09:59
	Day     TimeOfDay = "day"     // 10:00–16:59
	Evening TimeOfDay = "evening" // 17:00–20:59
	Night   TimeOfDay = "night"   // 21:00–05:59, wraps midnight
)

// Buckets lists the buckets in presentation order.
var Buckets = []TimeOfDay{Morning, Day, Evening, Night}

// GetTimeOfDay maps an hour (0–23) to its bucket.
func GetTimeOfDay(hour int) TimeOfDay {
	switch {
	case hour >= 6 && hour < 10:
		return Morning
	case hour >= 10 && hour < 17:
		return Day
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// BucketStartHour is the representative hour fed to the calculator when
// scoring a whole bucket.
func BucketStartHour(tod TimeOfDay) int {
	switch tod {
	case Morning:
		return 6
	case Day:
		return 10
	case Evening:
		return 17
	default:
		return 21
	}
}

// Conditions is a weather snapshot (or a bucket average of snapshots)
// as seen by the calculator. Nil fields are unknown and score the
// neutral 50.0 prior instead of failing.
type Conditions struct {
	Temperature     *float64
	PressureHPa     *float64
	WindSpeed       *float64
	WindDirection   *float64
	Cloudiness      *float64
	PrecipitationMM *float64
	MoonPhase       *float64
	PressureTrend   float64 // mmHg delta vs a prior reading, 0 when unknown
}

// ScoreResult is the outcome of one bucket evaluation. Sub-scores are
// nil when the spawn override fires.
type ScoreResult struct {
	BiteScore          float64   `json:"bite_score"`
	IsSpawnPeriod      bool      `json:"is_spawn_period"`
	SpawnMessage       string    `json:"spawn_message,omitempty"`
	TimeOfDay          TimeOfDay `json:"time_of_day"`
	TemperatureScore   *float64  `json:"temperature_score"`
	PressureScore      *float64  `json:"pressure_score"`
	WindScore          *float64  `json:"wind_score"`
	MoonScore          *float64  `json:"moon_score"`
	PrecipitationScore *float64  `json:"precipitation_score"`
	SeasonMultiplier   float64   `json:"season_multiplier"`
}

const hpaToMmHg = 0.750062

// winterMultipliers is the canonical per-month table. All other months
// multiply by 1.0.
var winterMultipliers = map[time.Month]struct{ active, inactive float64 }{
	time.December: {0.9, 0.2},
	time.January:  {0.7, 0.1},
	time.February: {1.0, 0.15},
}

// CalculateBiteScore produces the composite 0–100 score for a species
// in the given conditions. The spawn override short-circuits everything:
// during a closed season the score is 0 and no sub-scores are reported.
func CalculateBiteScore(w Conditions, p models.SpeciesProfile, hour int, month time.Month, date time.Time) ScoreResult {
	if spawn, msg := InSpawnPeriod(p, date); spawn {
		return ScoreResult{
			BiteScore:     0,
			IsSpawnPeriod: true,
			SpawnMessage:  msg,
			TimeOfDay:     GetTimeOfDay(hour),
		}
	}

	tod := GetTimeOfDay(hour)

	tempScore := TemperatureScore(w, p)
	pressureScore := PressureScore(w, p)
	windScore := WindScore(w, p)
	moonScore := MoonScore(w, p)
	precipScore := PrecipitationScore(w)
	timeScore := TimeScore(tod, p)

	score := tempScore*0.25 +
		pressureScore*0.25 +
		timeScore*0.20 +
		windScore*0.15 +
		moonScore*0.10 +
		precipScore*0.05

	mult := SeasonMultiplier(p, month)
	score = clamp(score*mult, 0, 100)

	return ScoreResult{
		BiteScore:          round1(score),
		TimeOfDay:          tod,
		TemperatureScore:   ptr(round1(tempScore)),
		PressureScore:      ptr(round1(pressureScore)),
		WindScore:          ptr(round1(windScore)),
		MoonScore:          ptr(round1(moonScore)),
		PrecipitationScore: ptr(round1(precipScore)),
		SeasonMultiplier:   mult,
	}
}

// TemperatureScore is 100 inside the optimal range and degrades
// linearly with the deviation, normalized by the width of the range.
func TemperatureScore(w Conditions, p models.SpeciesProfile) float64 {
	if w.Temperature == nil {
		return 50.0
	}

	temp := *w.Temperature
	if temp >= p.OptimalTempMin && temp <= p.OptimalTempMax {
		return 100.0
	}

	var deviation float64
	if temp < p.OptimalTempMin {
		deviation = p.OptimalTempMin - temp
	} else {
		deviation = temp - p.OptimalTempMax
	}

	span := p.OptimalTempMax - p.OptimalTempMin
	if span == 0 {
		span = 10
	}

	return math.Max(0, 100.0-(deviation/span)*50)
}

// PressureScore converts hPa to mmHg, scores distance from the optimal
// range and adjusts for the trend momentum signal.
func PressureScore(w Conditions, p models.SpeciesProfile) float64 {
	if w.PressureHPa == nil {
		return 50.0
	}

	mmHg := *w.PressureHPa * hpaToMmHg
	optMin := float64(p.OptimalPressureMin)
	optMax := float64(p.OptimalPressureMax)

	var score float64
	if mmHg >= optMin && mmHg <= optMax {
		score = 100.0
	} else {
		deviation := math.Min(math.Abs(mmHg-optMin), math.Abs(mmHg-optMax))
		score = math.Max(0, 100.0-deviation*3)
	}

	trend := w.PressureTrend
	switch {
	case trend > 3:
		score += 15
	case trend > 0:
		score += 8
	case trend < -3:
		score -= 20
	case trend < 0:
		score -= 10
	}

	return clamp(score, 0, 100)
}

// WindScore decays with speed relative to the species tolerance, with a
// bonus for the southwest-to-west quadrant and a penalty for northeast.
func WindScore(w Conditions, p models.SpeciesProfile) float64 {
	if w.WindSpeed == nil {
		return 50.0
	}

	speed := *w.WindSpeed
	maxWind := p.MaxWindSpeed

	var score float64
	switch {
	case speed <= maxWind*0.5:
		score = 100.0
	case speed <= maxWind:
		score = 100.0 - (speed/maxWind)*30
	default:
		score = math.Max(0, 70.0-(speed-maxWind)*10)
	}

	if w.WindDirection != nil {
		dir := *w.WindDirection
		if dir >= 157.5 && dir <= 292.5 {
			score += 10
		} else if (dir >= 0 && dir <= 67.5) || (dir >= 337.5 && dir <= 360) {
			score -= 10
		}
	}

	return clamp(score, 0, 100)
}

// MoonScore peaks near new and full moon and is scaled toward the
// neutral prior by the species' moon sensitivity.
func MoonScore(w Conditions, p models.SpeciesProfile) float64 {
	if w.MoonPhase == nil {
		return 50.0
	}

	phase := *w.MoonPhase
	minDistance := math.Min(math.Abs(phase), math.Min(math.Abs(phase-0.5), math.Abs(phase-1.0)))

	raw := math.Max(0, 100.0-minDistance*400)
	return 50.0 + (raw-50.0)*p.MoonSensitivity
}

// PrecipitationScore favors light rain and overcast skies; heavy rain
// kills the bite. Missing precipitation reads as 0mm.
func PrecipitationScore(w Conditions) float64 {
	var precip float64
	if w.PrecipitationMM != nil {
		precip = *w.PrecipitationMM
	}

	switch {
	case precip > 10:
		return 30.0
	case precip > 5:
		return 50.0
	case precip > 0:
		return 75.0
	case w.Cloudiness != nil && *w.Cloudiness > 70:
		return 90.0
	default:
		return 80.0
	}
}

// TimeScore reflects the species' preferred fishing slots.
func TimeScore(tod TimeOfDay, p models.SpeciesProfile) float64 {
	switch tod {
	case Morning:
		if p.PreferMorning {
			return 100.0
		}
		return 60.0
	case Evening:
		if p.PreferEvening {
			return 100.0
		}
		return 60.0
	case Day:
		return 65.0
	default:
		return 40.0
	}
}

// SeasonMultiplier applies the winter activity table; every month from
// March through November is 1.0.
func SeasonMultiplier(p models.SpeciesProfile, month time.Month) float64 {
	m, ok := winterMultipliers[month]
	if !ok {
		return 1.0
	}
	if p.ActiveInWinter {
		return m.active
	}
	return m.inactive
}

// Season maps a month to its calendar season name, used for bait and
// depth lookups.
func Season(month time.Month) string {
	switch {
	case month >= time.March && month <= time.May:
		return "spring"
	case month >= time.June && month <= time.August:
		return "summer"
	case month >= time.September && month <= time.November:
		return "autumn"
	default:
		return "winter"
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func ptr(v float64) *float64 { return &v }
