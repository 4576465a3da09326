package forecast

import (
	"fmt"
	"time"

	"github.com/bitecast/bitecast/internal/models"
)

// monthGenitive holds Russian month names in the genitive case for the
// spawn message ("15 декабря - 28 февраля").
var monthGenitive = map[time.Month]string{
	time.January:   "января",
	time.February:  "февраля",
	time.March:     "марта",
	time.April:     "апреля",
	time.May:       "мая",
	time.June:      "июня",
	time.July:      "июля",
	time.August:    "августа",
	time.September: "сентября",
	time.October:   "октября",
	time.November:  "ноября",
	time.December:  "декабря",
}

// InSpawnPeriod reports whether the date falls inside the species'
// spawn window and, when it does, a localized closed-season message.
//
// A window with start month ≤ end month is a same-year range inclusive
// of the boundary days in the boundary months and of every full month
// strictly between. A window with start month > end month wraps the
// year boundary and membership is by month only.
func InSpawnPeriod(p models.SpeciesProfile, date time.Time) (bool, string) {
	if !p.SpawnStartMonth.Valid || !p.SpawnEndMonth.Valid {
		return false, ""
	}

	month := int(date.Month())
	day := date.Day()
	startMonth := int(p.SpawnStartMonth.Int64)
	endMonth := int(p.SpawnEndMonth.Int64)

	var inSpawn bool
	switch {
	case startMonth == endMonth:
		inSpawn = month == startMonth && day >= p.SpawnStartDay && day <= p.SpawnEndDay
	case startMonth < endMonth:
		inSpawn = (month == startMonth && day >= p.SpawnStartDay) ||
			(month == endMonth && day <= p.SpawnEndDay) ||
			(month > startMonth && month < endMonth)
	default:
		inSpawn = month >= startMonth || month <= endMonth
	}

	if !inSpawn {
		return false, ""
	}

	msg := fmt.Sprintf("Нерестовый период (%d %s - %d %s) — вылов запрещен",
		p.SpawnStartDay, monthGenitive[time.Month(startMonth)],
		p.SpawnEndDay, monthGenitive[time.Month(endMonth)])
	return true, msg
}
