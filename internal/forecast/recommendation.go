package forecast

import (
	"strings"

	"github.com/bitecast/bitecast/internal/models"
)

// Recommend derives advisory text from a composite score and the
// conditions behind it. Never called for a spawn-period result.
func Recommend(score float64, w Conditions, p models.SpeciesProfile) string {
	var parts []string

	switch {
	case score >= 80:
		parts = append(parts, "Отличный клев! Идеальное время для рыбалки.")
	case score >= 65:
		parts = append(parts, "Хороший клев. Рекомендуется выйти на воду.")
	case score >= 50:
		parts = append(parts, "Умеренный клев. Можно рассчитывать на улов.")
	case score >= 35:
		parts = append(parts, "Слабый клев. Потребуется терпение и правильная тактика.")
	default:
		parts = append(parts, "Клев маловероятен. Лучше перенести рыбалку.")
	}

	if w.WindSpeed != nil && *w.WindSpeed > 6 {
		parts = append(parts, "Ветреная погода — используйте тяжелые приманки.")
	}

	if w.PressureTrend < -3 {
		parts = append(parts, "Давление падает — рыба пассивна.")
	} else if w.PressureTrend > 3 {
		parts = append(parts, "Давление растет — клев должен улучшаться.")
	}

	if w.Temperature != nil {
		if *w.Temperature < p.OptimalTempMin {
			parts = append(parts, "Холодная вода — проводка должна быть медленной.")
		} else if *w.Temperature > p.OptimalTempMax {
			parts = append(parts, "Теплая вода — рыба держится на глубине.")
		}
	}

	if w.MoonPhase != nil {
		phase := *w.MoonPhase
		if phase < 0.1 || phase > 0.9 {
			parts = append(parts, "Новолуние — хороший период по Solunar теории.")
		} else if phase > 0.4 && phase < 0.6 {
			parts = append(parts, "Полнолуние — пиковая активность.")
		}
	}

	return strings.Join(parts, " ")
}
