package forecast

// TackleAdvice is the curated bait list and working depth for a species
// in one season.
type TackleAdvice struct {
	Baits []string
	Depth string
}

// BaitBook maps species name → season → advice. It is a pluggable
// lookup so the curated defaults can be replaced or externalized.
type BaitBook map[string]map[string]TackleAdvice

const (
	fallbackBait  = "универсальная приманка"
	fallbackDepth = "2-4 м"
)

// Baits returns the bait list for a species and season. A curated entry
// with no baits means the species is not fished that season and comes
// back empty; only a missing entry gets the generic fallback.
func (b BaitBook) Baits(species, season string) []string {
	if advice, ok := b[species][season]; ok {
		if advice.Baits == nil {
			return []string{}
		}
		return advice.Baits
	}
	return []string{fallbackBait}
}

// Depth returns the recommended working depth, falling back to a
// mid-water default.
func (b BaitBook) Depth(species, season string) string {
	if advice, ok := b[species][season]; ok && advice.Depth != "" {
		return advice.Depth
	}
	return fallbackDepth
}

// DefaultBaitBook returns the curated per-species tables.
func DefaultBaitBook() BaitBook {
	return BaitBook{
		"Щука": {
			"spring": {Baits: []string{"джиг", "воблер", "колебалка"}, Depth: "1-3 м"},
			"summer": {Baits: []string{"воблер", "вертушка", "силикон"}, Depth: "2-5 м"},
			"autumn": {Baits: []string{"джиг", "воблер", "поролон"}, Depth: "2-4 м"},
			"winter": {Baits: []string{"балансир", "блесна", "живец"}, Depth: "3-6 м"},
		},
		"Судак": {
			"spring": {Baits: []string{"джиг", "твистер", "виброхвост"}, Depth: "3-6 м"},
			"summer": {Baits: []string{"воблер", "джиг", "поролон"}, Depth: "4-8 м"},
			"autumn": {Baits: []string{"джиг", "твистер", "воблер"}, Depth: "4-7 м"},
			"winter": {Baits: []string{"балансир", "блесна"}, Depth: "5-10 м"},
		},
		"Окунь": {
			"spring": {Baits: []string{"вертушка", "микроджиг", "воблер"}, Depth: "1-3 м"},
			"summer": {Baits: []string{"вертушка", "воблер", "силикон"}, Depth: "2-4 м"},
			"autumn": {Baits: []string{"джиг", "вертушка", "воблер"}, Depth: "2-5 м"},
			"winter": {Baits: []string{"мормышка", "балансир", "блесна"}, Depth: "3-8 м"},
		},
		"Карп": {
			"spring": {Baits: []string{"бойлы", "кукуруза", "пеллетс"}, Depth: "1-2 м"},
			"summer": {Baits: []string{"бойлы", "кукуруза", "червь"}, Depth: "2-4 м"},
			"autumn": {Baits: []string{"бойлы", "пеллетс", "кукуруза"}, Depth: "2-3 м"},
			"winter": {Depth: "глубина"},
		},
		"Лещ": {
			"spring": {Baits: []string{"червь", "опарыш", "мотыль"}, Depth: "3-5 м"},
			"summer": {Baits: []string{"кукуруза", "червь", "перловка"}, Depth: "4-7 м"},
			"autumn": {Baits: []string{"червь", "опарыш", "мотыль"}, Depth: "4-6 м"},
			"winter": {Baits: []string{"мотыль", "червь", "опарыш"}, Depth: "5-10 м"},
		},
		"Карась": {
			"spring": {Baits: []string{"червь", "опарыш", "перловка"}, Depth: "0.5-2 м"},
			"summer": {Baits: []string{"червь", "хлеб", "тесто"}, Depth: "1-3 м"},
			"autumn": {Baits: []string{"червь", "опарыш", "мотыль"}, Depth: "1-2 м"},
			"winter": {Baits: []string{"мотыль", "червь", "опарыш"}, Depth: "2-4 м"},
		},
		"Плотва": {
			"spring": {Baits: []string{"мотыль", "опарыш", "червь"}, Depth: "1-3 м"},
			"summer": {Baits: []string{"перловка", "кукуруза", "опарыш"}, Depth: "2-4 м"},
			"autumn": {Baits: []string{"мотыль", "опарыш", "червь"}, Depth: "2-4 м"},
			"winter": {Baits: []string{"мотыль", "опарыш"}, Depth: "3-6 м"},
		},
		"Налим": {
			"spring": {Baits: []string{"живец", "червь", "кусок рыбы"}, Depth: "3-6 м"},
			"summer": {Depth: "5-10 м"},
			"autumn": {Baits: []string{"живец", "червь", "кусок рыбы"}, Depth: "3-5 м"},
			"winter": {Baits: []string{"живец", "кусок рыбы", "червь"}, Depth: "2-5 м"},
		},
		"Сом": {
			"spring": {Baits: []string{"живец", "лягушка", "червь"}, Depth: "2-4 м"},
			"summer": {Baits: []string{"живец", "лягушка", "перепелка"}, Depth: "3-6 м"},
			"autumn": {Baits: []string{"живец", "кусок рыбы"}, Depth: "3-5 м"},
			"winter": {Depth: "глубина"},
		},
	}
}
