package forecast

import (
	"strings"
	"testing"
)

func TestRecommend_BaseThresholds(t *testing.T) {
	p := testProfile()

	tests := []struct {
		score float64
		want  string
	}{
		{85, "Отличный клев"},
		{80, "Отличный клев"},
		{70, "Хороший клев"},
		{65, "Хороший клев"},
		{55, "Умеренный клев"},
		{50, "Умеренный клев"},
		{40, "Слабый клев"},
		{35, "Слабый клев"},
		{20, "Клев маловероятен"},
	}
	for _, tt := range tests {
		got := Recommend(tt.score, Conditions{}, p)
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("Recommend(%.0f) = %q, want prefix %q", tt.score, got, tt.want)
		}
	}
}

func TestRecommend_Advisories(t *testing.T) {
	p := testProfile() // optimal 8..18

	tests := []struct {
		name string
		cond Conditions
		want string
	}{
		{"strong wind", Conditions{WindSpeed: ptr(7.0)}, "тяжелые приманки"},
		{"falling pressure", Conditions{PressureTrend: -4}, "Давление падает"},
		{"rising pressure", Conditions{PressureTrend: 4}, "Давление растет"},
		{"cold water", Conditions{Temperature: ptr(5.0)}, "Холодная вода"},
		{"warm water", Conditions{Temperature: ptr(25.0)}, "Теплая вода"},
		{"new moon low", Conditions{MoonPhase: ptr(0.05)}, "Новолуние"},
		{"new moon high", Conditions{MoonPhase: ptr(0.95)}, "Новолуние"},
		{"full moon", Conditions{MoonPhase: ptr(0.5)}, "Полнолуние"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(70, tt.cond, p)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Recommend = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestRecommend_NoAdvisoriesInNeutralConditions(t *testing.T) {
	p := testProfile()
	cond := Conditions{
		Temperature: ptr(13.0),
		WindSpeed:   ptr(3.0),
		MoonPhase:   ptr(0.25),
	}
	got := Recommend(70, cond, p)
	if got != "Хороший клев. Рекомендуется выйти на воду." {
		t.Errorf("Recommend = %q, want base text only", got)
	}
}

func TestRecommend_CombinesParts(t *testing.T) {
	p := testProfile()
	cond := Conditions{
		WindSpeed:     ptr(7.0),
		PressureTrend: -5,
		Temperature:   ptr(2.0),
	}
	got := Recommend(30, cond, p)
	for _, part := range []string{"Клев маловероятен", "тяжелые приманки", "Давление падает", "Холодная вода"} {
		if !strings.Contains(got, part) {
			t.Errorf("Recommend = %q, missing %q", got, part)
		}
	}
}
