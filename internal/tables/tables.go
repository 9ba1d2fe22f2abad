// Package tables loads the static datasets the pacing models consume: the
// heat adjustment grid, the age-grade standards and the training-range
// regression surfaces. Defaults are embedded; config paths replace them.
package tables

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"pacecalc/internal/analysis"
	"pacecalc/internal/config"
)

//go:embed data/*.json
var embedded embed.FS

const (
	heatGridFile   = "data/heat_grid.json"
	ageGradeFile   = "data/agegrade.json"
	rangeModelFile = "data/range_model.json"
)

// ErrInvalidTable is wrapped by every validation failure
var ErrInvalidTable = errors.New("invalid table")

type heatGridJSON struct {
	TempMin     int       `json:"temp_min"`
	TempMax     int       `json:"temp_max"`
	HumidityMin int       `json:"humidity_min"`
	HumidityMax int       `json:"humidity_max"`
	Values      []float64 `json:"values"`
}

type ageGradeJSON struct {
	RiegelExponent float64                `json:"riegel_exponent"`
	Distances      []ageGradeDistanceJSON `json:"distances"`
}

type ageGradeDistanceJSON struct {
	Name         string                        `json:"name"`
	Meters       float64                       `json:"meters"`
	OpenStandard map[string]float64            `json:"open_standard"`
	Factors      map[string]map[string]float64 `json:"factors"`
}

type rangeModelJSON struct {
	LogDistanceGrid []float64                   `json:"log_distance_grid"`
	LogTimeGrid     []float64                   `json:"log_time_grid"`
	AgeGrid         []float64                   `json:"age_grid"`
	Models          map[string]outcomeModelJSON `json:"models"`
}

type outcomeModelJSON struct {
	Intercept float64     `json:"intercept"`
	AgeSmooth []float64   `json:"age_smooth"`
	Surface   [][]float64 `json:"surface"`
}

// Default returns the embedded tables
func Default() (analysis.Tables, error) {
	return Load(config.TablesConfig{})
}

// Load reads all three tables, using the override path for any table that
// has one and the embedded copy otherwise.
func Load(paths config.TablesConfig) (analysis.Tables, error) {
	var tables analysis.Tables

	data, err := read(paths.HeatGrid, heatGridFile)
	if err != nil {
		return tables, err
	}
	if tables.Heat, err = ParseHeatGrid(data); err != nil {
		return tables, fmt.Errorf("loading heat grid: %w", err)
	}

	if data, err = read(paths.AgeGrade, ageGradeFile); err != nil {
		return tables, err
	}
	if tables.AgeGrade, err = ParseAgeGrade(data); err != nil {
		return tables, fmt.Errorf("loading age-grade tables: %w", err)
	}

	if data, err = read(paths.RangeModel, rangeModelFile); err != nil {
		return tables, err
	}
	if tables.Range, err = ParseRangeModel(data); err != nil {
		return tables, fmt.Errorf("loading range model: %w", err)
	}

	return tables, nil
}

func read(override, embeddedName string) ([]byte, error) {
	if override == "" {
		return embedded.ReadFile(embeddedName)
	}
	data, err := os.ReadFile(override)
	if err != nil {
		return nil, fmt.Errorf("reading table %s: %w", override, err)
	}
	return data, nil
}

// ParseHeatGrid decodes a heat grid. The axes must match the grid the
// model indexes; a short value list is accepted and reads as neutral.
func ParseHeatGrid(data []byte) (*analysis.HeatGrid, error) {
	var raw heatGridJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing heat grid: %w", err)
	}

	if raw.TempMin != analysis.HeatGridTempMin || raw.TempMax != analysis.HeatGridTempMax ||
		raw.HumidityMin != analysis.HeatGridHumidityMin || raw.HumidityMax != analysis.HeatGridHumidityMax {
		return nil, fmt.Errorf("%w: heat grid axes %d..%d °C, %d..%d %% do not match %d..%d °C, %d..%d %%",
			ErrInvalidTable, raw.TempMin, raw.TempMax, raw.HumidityMin, raw.HumidityMax,
			analysis.HeatGridTempMin, analysis.HeatGridTempMax,
			analysis.HeatGridHumidityMin, analysis.HeatGridHumidityMax)
	}
	if len(raw.Values) > analysis.HeatGridSize {
		return nil, fmt.Errorf("%w: heat grid has %d values, max %d", ErrInvalidTable, len(raw.Values), analysis.HeatGridSize)
	}

	return analysis.NewHeatGrid(raw.Values), nil
}

// ParseAgeGrade decodes the age-grade standards
func ParseAgeGrade(data []byte) (*analysis.AgeGradeTables, error) {
	var raw ageGradeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing age-grade tables: %w", err)
	}
	if len(raw.Distances) == 0 {
		return nil, fmt.Errorf("%w: no age-grade distances", ErrInvalidTable)
	}

	tables := &analysis.AgeGradeTables{
		RiegelExponent: raw.RiegelExponent,
		Distances:      make([]analysis.AgeGradeDistance, 0, len(raw.Distances)),
	}
	if tables.RiegelExponent == 0 {
		tables.RiegelExponent = analysis.DefaultRiegelExponent
	}

	for _, d := range raw.Distances {
		if d.Meters <= 0 {
			return nil, fmt.Errorf("%w: distance %q has no length", ErrInvalidTable, d.Name)
		}

		dist := analysis.AgeGradeDistance{
			Name:         d.Name,
			Meters:       d.Meters,
			OpenStandard: make(map[analysis.Gender]float64),
			Factors:      make(map[analysis.Gender]map[int]float64),
		}
		for g, secs := range d.OpenStandard {
			gender, ok := analysis.ParseGender(g)
			if !ok {
				return nil, fmt.Errorf("%w: distance %q has unknown gender %q", ErrInvalidTable, d.Name, g)
			}
			dist.OpenStandard[gender] = secs
		}
		for g, byAge := range d.Factors {
			gender, ok := analysis.ParseGender(g)
			if !ok {
				return nil, fmt.Errorf("%w: distance %q has unknown gender %q", ErrInvalidTable, d.Name, g)
			}
			factors := make(map[int]float64, len(byAge))
			for ageKey, f := range byAge {
				age, err := strconv.Atoi(ageKey)
				if err != nil {
					return nil, fmt.Errorf("%w: distance %q has non-integer age %q", ErrInvalidTable, d.Name, ageKey)
				}
				factors[age] = f
			}
			dist.Factors[gender] = factors
		}

		tables.Distances = append(tables.Distances, dist)
	}

	return tables, nil
}

// ParseRangeModel decodes the training-range surfaces and checks that every
// zone/quantile outcome is present with the grid's shape.
func ParseRangeModel(data []byte) (*analysis.RangeModel, error) {
	var raw rangeModelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing range model: %w", err)
	}

	if len(raw.LogDistanceGrid) < 2 || len(raw.LogTimeGrid) < 2 || len(raw.AgeGrid) == 0 {
		return nil, fmt.Errorf("%w: range model grids are too small", ErrInvalidTable)
	}

	model := &analysis.RangeModel{
		LogDistanceGrid: raw.LogDistanceGrid,
		LogTimeGrid:     raw.LogTimeGrid,
		AgeGrid:         raw.AgeGrid,
		Outcomes:        make(map[string]analysis.OutcomeModel, len(raw.Models)),
	}

	for _, zone := range analysis.RangeZones {
		for _, q := range []string{"p10", "p50", "p90"} {
			key := analysis.OutcomeKey(zone, q)
			m, ok := raw.Models[key]
			if !ok {
				return nil, fmt.Errorf("%w: range model is missing %s", ErrInvalidTable, key)
			}
			if err := checkOutcomeShape(key, m, len(raw.LogDistanceGrid), len(raw.LogTimeGrid), len(raw.AgeGrid)); err != nil {
				return nil, err
			}
			model.Outcomes[key] = analysis.OutcomeModel{
				Intercept: m.Intercept,
				AgeSmooth: m.AgeSmooth,
				Surface:   m.Surface,
			}
		}
	}

	return model, nil
}

func checkOutcomeShape(key string, m outcomeModelJSON, rows, cols, ages int) error {
	if len(m.AgeSmooth) != ages {
		return fmt.Errorf("%w: %s has %d age effects, want %d", ErrInvalidTable, key, len(m.AgeSmooth), ages)
	}
	if len(m.Surface) != rows {
		return fmt.Errorf("%w: %s surface has %d rows, want %d", ErrInvalidTable, key, len(m.Surface), rows)
	}
	for i, row := range m.Surface {
		if len(row) != cols {
			return fmt.Errorf("%w: %s surface row %d has %d columns, want %d", ErrInvalidTable, key, i, len(row), cols)
		}
	}
	return nil
}
