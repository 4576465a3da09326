package forecast

import "time"

// lunarCycle is the synodic month in days.
const lunarCycle = 29.53

// moonEpoch is a known new moon (January 6, 2000 18:14 UTC).
var moonEpoch = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// MoonPhaseFraction returns the position in the lunar cycle as a
// fraction in [0, 1): 0 is new moon, 0.5 full moon. The provider's
// forecast payload carries no lunar data, so the collector stamps this
// on every snapshot.
func MoonPhaseFraction(t time.Time) float64 {
	days := t.Sub(moonEpoch).Hours() / 24

	pos := days - float64(int(days/lunarCycle))*lunarCycle
	if pos < 0 {
		pos += lunarCycle
	}

	return pos / lunarCycle
}
