package service

import (
	"fmt"

	"pacecalc/internal/analysis"
	"pacecalc/internal/config"
)

// Units formats distances and paces in the user's preferred units.
// Engine paces are always seconds per km.
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a Units helper for the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

func (u Units) miles() bool {
	return u.cfg.DistanceUnit == "mi"
}

func (u Units) milePaces() bool {
	return u.cfg.PaceUnit == "min/mi"
}

// FormatDistance formats a distance in meters to the user's preferred unit
func (u Units) FormatDistance(meters float64) string {
	if u.miles() {
		return fmt.Sprintf("%.2f mi", meters/analysis.MetersPerMile)
	}
	return fmt.Sprintf("%.2f km", meters/analysis.MetersPerKm)
}

// ConvertPace converts seconds per km to seconds per preferred unit
func (u Units) ConvertPace(secPerKm float64) float64 {
	if u.milePaces() {
		return secPerKm * analysis.MetersPerMile / analysis.MetersPerKm
	}
	return secPerKm
}

// FormatPace formats a s/km pace in the preferred unit, without a label
func (u Units) FormatPace(secPerKm float64) string {
	return FormatPace(u.ConvertPace(secPerKm))
}

// FormatPaceWithUnit formats a s/km pace with the unit label, e.g. "4:16/km"
func (u Units) FormatPaceWithUnit(secPerKm float64) string {
	pace := u.FormatPace(secPerKm)
	if pace == "-" {
		return pace
	}
	return pace + "/" + u.PaceLabel()
}

// PaceLabel returns "km" or "mi"
func (u Units) PaceLabel() string {
	if u.milePaces() {
		return "mi"
	}
	return "km"
}

// DistanceLabel returns the short distance unit label
func (u Units) DistanceLabel() string {
	if u.miles() {
		return "mi"
	}
	return "km"
}
