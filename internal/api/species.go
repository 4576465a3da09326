package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bitecast/bitecast/internal/models"
)

var validate = validator.New()

// speciesView is the wire shape of a profile. Spawn months render as
// plain integers, or null when no window is set.
type speciesView struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Icon               string   `json:"icon,omitempty"`
	Category           string   `json:"category"`
	OptimalTempMin     float64  `json:"optimal_temp_min"`
	OptimalTempMax     float64  `json:"optimal_temp_max"`
	OptimalPressureMin int      `json:"optimal_pressure_min"`
	OptimalPressureMax int      `json:"optimal_pressure_max"`
	MaxWindSpeed       float64  `json:"max_wind_speed"`
	PreferMorning      bool     `json:"prefer_morning"`
	PreferEvening      bool     `json:"prefer_evening"`
	PreferOvercast     bool     `json:"prefer_overcast"`
	MoonSensitivity    float64  `json:"moon_sensitivity"`
	ActiveInWinter     bool     `json:"active_in_winter"`
	SpawnStartMonth    *int64   `json:"spawn_start_month"`
	SpawnEndMonth      *int64   `json:"spawn_end_month"`
	SpawnStartDay      int      `json:"spawn_start_day"`
	SpawnEndDay        int      `json:"spawn_end_day"`
	RegionIDs          []string `json:"region_ids,omitempty"`
	Active             bool     `json:"is_active"`
}

func viewSpecies(sp models.SpeciesProfile) speciesView {
	v := speciesView{
		ID:                 sp.ID,
		Name:               sp.Name,
		Icon:               sp.Icon,
		Category:           sp.Category,
		OptimalTempMin:     sp.OptimalTempMin,
		OptimalTempMax:     sp.OptimalTempMax,
		OptimalPressureMin: sp.OptimalPressureMin,
		OptimalPressureMax: sp.OptimalPressureMax,
		MaxWindSpeed:       sp.MaxWindSpeed,
		PreferMorning:      sp.PreferMorning,
		PreferEvening:      sp.PreferEvening,
		PreferOvercast:     sp.PreferOvercast,
		MoonSensitivity:    sp.MoonSensitivity,
		ActiveInWinter:     sp.ActiveInWinter,
		SpawnStartDay:      sp.SpawnStartDay,
		SpawnEndDay:        sp.SpawnEndDay,
		RegionIDs:          sp.RegionIDs,
		Active:             sp.Active,
	}
	if sp.SpawnStartMonth.Valid {
		v.SpawnStartMonth = &sp.SpawnStartMonth.Int64
	}
	if sp.SpawnEndMonth.Valid {
		v.SpawnEndMonth = &sp.SpawnEndMonth.Int64
	}
	return v
}

// SpeciesPatch is a partial update to a species profile. Nil fields are
// left untouched.
type SpeciesPatch struct {
	Name               *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Icon               *string  `json:"icon" validate:"omitempty,max=200"`
	Category           *string  `json:"category" validate:"omitempty,oneof=predator peaceful"`
	OptimalTempMin     *float64 `json:"optimal_temp_min" validate:"omitempty,gte=-5,lte=40"`
	OptimalTempMax     *float64 `json:"optimal_temp_max" validate:"omitempty,gte=-5,lte=40"`
	OptimalPressureMin *int     `json:"optimal_pressure_min" validate:"omitempty,gte=700,lte=800"`
	OptimalPressureMax *int     `json:"optimal_pressure_max" validate:"omitempty,gte=700,lte=800"`
	MaxWindSpeed       *float64 `json:"max_wind_speed" validate:"omitempty,gte=0,lte=30"`
	PreferMorning      *bool    `json:"prefer_morning"`
	PreferEvening      *bool    `json:"prefer_evening"`
	PreferOvercast     *bool    `json:"prefer_overcast"`
	MoonSensitivity    *float64 `json:"moon_sensitivity" validate:"omitempty,gte=0,lte=1"`
	ActiveInWinter     *bool    `json:"active_in_winter"`
	SpawnStartMonth    *int     `json:"spawn_start_month" validate:"omitempty,gte=1,lte=12"`
	SpawnEndMonth      *int     `json:"spawn_end_month" validate:"omitempty,gte=1,lte=12"`
	SpawnStartDay      *int     `json:"spawn_start_day" validate:"omitempty,gte=1,lte=31"`
	SpawnEndDay        *int     `json:"spawn_end_day" validate:"omitempty,gte=1,lte=31"`
	RegionIDs          []string `json:"region_ids"`
	Active             *bool    `json:"is_active"`
}

// Apply merges the patch into a profile and checks that the resulting
// temperature range is still ordered.
func (p SpeciesPatch) Apply(sp *models.SpeciesProfile) error {
	if p.Name != nil {
		sp.Name = *p.Name
	}
	if p.Icon != nil {
		sp.Icon = *p.Icon
	}
	if p.Category != nil {
		sp.Category = *p.Category
	}
	if p.OptimalTempMin != nil {
		sp.OptimalTempMin = *p.OptimalTempMin
	}
	if p.OptimalTempMax != nil {
		sp.OptimalTempMax = *p.OptimalTempMax
	}
	if p.OptimalPressureMin != nil {
		sp.OptimalPressureMin = *p.OptimalPressureMin
	}
	if p.OptimalPressureMax != nil {
		sp.OptimalPressureMax = *p.OptimalPressureMax
	}
	if p.MaxWindSpeed != nil {
		sp.MaxWindSpeed = *p.MaxWindSpeed
	}
	if p.PreferMorning != nil {
		sp.PreferMorning = *p.PreferMorning
	}
	if p.PreferEvening != nil {
		sp.PreferEvening = *p.PreferEvening
	}
	if p.PreferOvercast != nil {
		sp.PreferOvercast = *p.PreferOvercast
	}
	if p.MoonSensitivity != nil {
		sp.MoonSensitivity = *p.MoonSensitivity
	}
	if p.ActiveInWinter != nil {
		sp.ActiveInWinter = *p.ActiveInWinter
	}
	if p.SpawnStartMonth != nil {
		sp.SpawnStartMonth.Int64 = int64(*p.SpawnStartMonth)
		sp.SpawnStartMonth.Valid = true
	}
	if p.SpawnEndMonth != nil {
		sp.SpawnEndMonth.Int64 = int64(*p.SpawnEndMonth)
		sp.SpawnEndMonth.Valid = true
	}
	if p.SpawnStartDay != nil {
		sp.SpawnStartDay = *p.SpawnStartDay
	}
	if p.SpawnEndDay != nil {
		sp.SpawnEndDay = *p.SpawnEndDay
	}
	if p.RegionIDs != nil {
		sp.RegionIDs = p.RegionIDs
	}
	if p.Active != nil {
		sp.Active = *p.Active
	}

	if sp.OptimalTempMin > sp.OptimalTempMax {
		return fmt.Errorf("optimal_temp_min %.1f exceeds optimal_temp_max %.1f", sp.OptimalTempMin, sp.OptimalTempMax)
	}
	if sp.OptimalPressureMin > sp.OptimalPressureMax {
		return fmt.Errorf("optimal_pressure_min %d exceeds optimal_pressure_max %d", sp.OptimalPressureMin, sp.OptimalPressureMax)
	}
	return nil
}

func (s *Server) handlePatchSpecies(w http.ResponseWriter, r *http.Request) {
	speciesID := r.PathValue("speciesID")

	var patch SpeciesPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}
	if err := validate.Struct(patch); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	sp, err := s.store.GetSpecies(speciesID)
	if err != nil {
		if errors.Is(err, models.ErrSpeciesNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := patch.Apply(sp); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	if err := s.store.UpsertSpecies(*sp); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, viewSpecies(*sp))
}
