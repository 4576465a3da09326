package main

import (
	"database/sql"

	"github.com/bitecast/bitecast/internal/models"
)

var defaultRegions = []models.Region{
	{ID: "moscow", Name: "Московская область", Code: "MOS", Latitude: 55.7558, Longitude: 37.6173, Timezone: "Europe/Moscow", Active: true},
	{ID: "leningrad", Name: "Ленинградская область", Code: "LEN", Latitude: 59.9311, Longitude: 30.3609, Timezone: "Europe/Moscow", Active: true},
	{ID: "astrakhan", Name: "Астраханская область", Code: "AST", Latitude: 46.3497, Longitude: 48.0408, Timezone: "Europe/Astrakhan", Active: true},
	{ID: "karelia", Name: "Республика Карелия", Code: "KAR", Latitude: 61.7849, Longitude: 34.3469, Timezone: "Europe/Moscow", Active: true},
	{ID: "volgograd", Name: "Волгоградская область", Code: "VLG", Latitude: 48.7080, Longitude: 44.5133, Timezone: "Europe/Volgograd", Active: true},
}

func month(m int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(m), Valid: true}
}

// defaultSpecies carries curated bite profiles. Spawn windows follow the
// typical closed seasons for central Russia; burbot spawns across the
// year boundary.
var defaultSpecies = []models.SpeciesProfile{
	{
		ID: "pike", Name: "Щука", Icon: "🐊", Category: "predator",
		OptimalTempMin: 8, OptimalTempMax: 18,
		OptimalPressureMin: 745, OptimalPressureMax: 765,
		MaxWindSpeed: 8, PreferMorning: true, PreferEvening: true,
		MoonSensitivity: 0.6, ActiveInWinter: true,
		SpawnStartMonth: month(3), SpawnEndMonth: month(4), SpawnStartDay: 1, SpawnEndDay: 30,
		Active: true,
	},
	{
		ID: "zander", Name: "Судак", Icon: "🐟", Category: "predator",
		OptimalTempMin: 10, OptimalTempMax: 20,
		OptimalPressureMin: 748, OptimalPressureMax: 768,
		MaxWindSpeed: 7, PreferMorning: true, PreferEvening: true,
		MoonSensitivity: 0.7, ActiveInWinter: true,
		SpawnStartMonth: month(4), SpawnEndMonth: month(5), SpawnStartDay: 15, SpawnEndDay: 31,
		Active: true,
	},
	{
		ID: "perch", Name: "Окунь", Icon: "🐠", Category: "predator",
		OptimalTempMin: 10, OptimalTempMax: 22,
		OptimalPressureMin: 745, OptimalPressureMax: 770,
		MaxWindSpeed: 9, PreferMorning: true, PreferEvening: false,
		MoonSensitivity: 0.4, ActiveInWinter: true,
		SpawnStartMonth: month(4), SpawnEndMonth: month(4), SpawnStartDay: 1, SpawnEndDay: 30,
		Active: true,
	},
	{
		ID: "carp", Name: "Карп", Icon: "🎏", Category: "peaceful",
		OptimalTempMin: 18, OptimalTempMax: 28,
		OptimalPressureMin: 750, OptimalPressureMax: 768,
		MaxWindSpeed: 6, PreferMorning: true, PreferEvening: true, PreferOvercast: true,
		MoonSensitivity: 0.5, ActiveInWinter: false,
		SpawnStartMonth: month(5), SpawnEndMonth: month(6), SpawnStartDay: 15, SpawnEndDay: 15,
		Active: true,
	},
	{
		ID: "bream", Name: "Лещ", Icon: "🐡", Category: "peaceful",
		OptimalTempMin: 14, OptimalTempMax: 24,
		OptimalPressureMin: 748, OptimalPressureMax: 766,
		MaxWindSpeed: 6, PreferMorning: false, PreferEvening: true, PreferOvercast: true,
		MoonSensitivity: 0.8, ActiveInWinter: true,
		SpawnStartMonth: month(4), SpawnEndMonth: month(5), SpawnStartDay: 25, SpawnEndDay: 31,
		Active: true,
	},
	{
		ID: "crucian", Name: "Карась", Icon: "🐟", Category: "peaceful",
		OptimalTempMin: 16, OptimalTempMax: 26,
		OptimalPressureMin: 750, OptimalPressureMax: 770,
		MaxWindSpeed: 5, PreferMorning: true, PreferEvening: true,
		MoonSensitivity: 0.3, ActiveInWinter: false,
		SpawnStartMonth: month(5), SpawnEndMonth: month(6), SpawnStartDay: 15, SpawnEndDay: 10,
		Active: true,
	},
	{
		ID: "roach", Name: "Плотва", Icon: "🐠", Category: "peaceful",
		OptimalTempMin: 12, OptimalTempMax: 22,
		OptimalPressureMin: 746, OptimalPressureMax: 768,
		MaxWindSpeed: 7, PreferMorning: true, PreferEvening: false,
		MoonSensitivity: 0.4, ActiveInWinter: true,
		SpawnStartMonth: month(4), SpawnEndMonth: month(5), SpawnStartDay: 10, SpawnEndDay: 10,
		Active: true,
	},
	{
		ID: "burbot", Name: "Налим", Icon: "🐍", Category: "predator",
		OptimalTempMin: 2, OptimalTempMax: 12,
		OptimalPressureMin: 740, OptimalPressureMax: 762,
		MaxWindSpeed: 10, PreferMorning: false, PreferEvening: true, PreferOvercast: true,
		MoonSensitivity: 0.6, ActiveInWinter: true,
		SpawnStartMonth: month(12), SpawnEndMonth: month(2), SpawnStartDay: 15, SpawnEndDay: 28,
		Active: true,
	},
	{
		ID: "catfish", Name: "Сом", Icon: "🦈", Category: "predator",
		OptimalTempMin: 18, OptimalTempMax: 28,
		OptimalPressureMin: 748, OptimalPressureMax: 766,
		MaxWindSpeed: 6, PreferMorning: false, PreferEvening: true,
		MoonSensitivity: 0.9, ActiveInWinter: false,
		SpawnStartMonth: month(5), SpawnEndMonth: month(6), SpawnStartDay: 20, SpawnEndDay: 20,
		RegionIDs: []string{"astrakhan", "volgograd"},
		Active:    true,
	},
}
