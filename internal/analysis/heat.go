package analysis

import "math"

// Heat grid dimensions: temperature 0..45 °C by relative humidity 0..100 %
const (
	HeatGridTempMin     = 0
	HeatGridTempMax     = 45
	HeatGridHumidityMin = 0
	HeatGridHumidityMax = 100

	HeatGridWidth  = HeatGridTempMax - HeatGridTempMin + 1         // 46
	HeatGridHeight = HeatGridHumidityMax - HeatGridHumidityMin + 1 // 101
	HeatGridSize   = HeatGridWidth * HeatGridHeight
)

// Magnus coefficients (Alduchov & Eskridge)
const (
	magnusB = 17.625
	magnusC = 243.04
)

// HeatGrid is a read-only table of log-speed adjustments indexed by
// (temperature, humidity). Cells are stored row-major by humidity:
// index = humidityIdx*HeatGridWidth + tempIdx.
type HeatGrid struct {
	cells []float64
}

// NewHeatGrid copies values into a new grid. A short or nil slice is
// accepted; missing cells read as neutral.
func NewHeatGrid(values []float64) *HeatGrid {
	cells := make([]float64, len(values))
	copy(cells, values)
	return &HeatGrid{cells: cells}
}

// Len returns the number of populated cells
func (g *HeatGrid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.cells)
}

// Lookup returns the log-speed adjustment for a temperature (°C) and relative
// humidity (%). Both axes are rounded and then clamped into the grid range.
// Missing or non-finite cells return 0 (no adjustment).
func (g *HeatGrid) Lookup(tempC, humidityPct float64) float64 {
	if g == nil || math.IsNaN(tempC) || math.IsNaN(humidityPct) {
		return 0
	}

	tempIdx := clampIndex(tempC, HeatGridTempMin, HeatGridTempMax) - HeatGridTempMin
	humIdx := clampIndex(humidityPct, HeatGridHumidityMin, HeatGridHumidityMax) - HeatGridHumidityMin

	idx := humIdx*HeatGridWidth + tempIdx
	if idx < 0 || idx >= len(g.cells) {
		return 0
	}

	v := g.cells[idx]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// clampIndex rounds x and then clamps it into [lo, hi]
func clampIndex(x float64, lo, hi int) int {
	r := math.Round(x)
	if r <= float64(lo) {
		return lo
	}
	if r >= float64(hi) {
		return hi
	}
	return int(r)
}

// RelativeHumidity derives relative humidity (%) from air temperature and
// dew point (°C) with the Magnus approximation. A dew point above the air
// temperature is treated as saturated air.
func RelativeHumidity(tempC, dewPointC float64) float64 {
	if dewPointC > tempC {
		dewPointC = tempC
	}
	es := math.Exp(magnusB * tempC / (magnusC + tempC))
	e := math.Exp(magnusB * dewPointC / (magnusC + dewPointC))
	return 100 * e / es
}

// HeatAdjustedPace converts a neutral-conditions pace (s/km) to the pace
// expected at the given temperature and dew point. The grid adjustment is
// added in log-speed space. A non-positive pace is returned unchanged.
func HeatAdjustedPace(grid *HeatGrid, neutralPace, tempC, dewPointC float64) float64 {
	if neutralPace <= 0 || math.IsNaN(neutralPace) {
		return neutralPace
	}

	rh := RelativeHumidity(tempC, dewPointC)
	adjustment := grid.Lookup(tempC, rh)
	if adjustment == 0 {
		return neutralPace
	}

	speed := MetersPerKm / neutralPace
	adjusted := math.Exp(math.Log(speed) + adjustment)
	return MetersPerKm / adjusted
}

// EnvironmentAdjustment is the effect of one stressor on a pace set.
// ImpactPercent is positive when paces get slower.
type EnvironmentAdjustment struct {
	ImpactPercent float64
	Paces         PaceSet
}

// HeatImpact applies the heat grid to every pace in base. The impact percent
// is the relative change of the threshold pace, which equals the change of
// every zone since the adjustment is a single speed factor.
func HeatImpact(grid *HeatGrid, base PaceSet, tempC, dewPointC float64) EnvironmentAdjustment {
	adjusted := base.Map(func(p float64) float64 {
		return HeatAdjustedPace(grid, p, tempC, dewPointC)
	})

	return EnvironmentAdjustment{
		ImpactPercent: paceImpactPercent(base.Threshold, adjusted.Threshold),
		Paces:         adjusted,
	}
}

// paceImpactPercent returns the signed percent change from base to adjusted
func paceImpactPercent(base, adjusted float64) float64 {
	if base <= 0 {
		return 0
	}
	return (adjusted - base) / base * 100
}
