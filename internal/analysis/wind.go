package analysis

import "math"

// Wind model constants
const (
	airDensity       = 1.225   // kg/m³, sea level at 15 °C
	dragCoefficient  = 0.9     // runner, upright posture
	frontalAreaRatio = 0.266   // projected frontal area as a share of body surface area
	gravity          = 9.80665 // m/s²

	// airCostFactor scales drag force over body weight into a metabolic surcharge
	airCostFactor = 6.13

	// Power-law wind profile from 10 m anemometer height to chest height
	anemometerHeight = 10.0
	chestHeight      = 1.5
	windShearAlpha   = 0.30 // suburban terrain

	// Cost grid used to invert cost to speed
	windGridMaxSpeed = 12.0 // m/s
	windGridStep     = 0.05 // m/s
)

// RunnerProfile describes the runner for the drag model. HeightCm is optional.
type RunnerProfile struct {
	WeightKg float64
	HeightCm float64
}

// BodySurfaceArea estimates BSA (m²). With a known height it uses Du Bois,
// otherwise the weight-only Livingston & Lee regression.
func BodySurfaceArea(weightKg, heightCm float64) float64 {
	if weightKg <= 0 {
		return 0
	}
	if heightCm > 0 {
		return 0.007184 * math.Pow(weightKg, 0.425) * math.Pow(heightCm, 0.725)
	}
	return 0.1173 * math.Pow(weightKg, 0.6466)
}

// FrontalArea estimates the runner's projected frontal area (m²)
func FrontalArea(p RunnerProfile) float64 {
	return frontalAreaRatio * BodySurfaceArea(p.WeightKg, p.HeightCm)
}

// ChestHeightWind shifts a wind speed measured at 10 m down to 1.5 m
func ChestHeightWind(windAt10m float64) float64 {
	return windAt10m * math.Pow(chestHeight/anemometerHeight, windShearAlpha)
}

// DragForce returns the aerodynamic force (N) on a runner moving at speed
// (m/s) into a headwind (m/s, negative for tailwind). The sign follows the
// relative air flow: positive opposes the runner.
func DragForce(speed, headwind, frontalArea float64) float64 {
	vAir := speed + headwind
	return 0.5 * airDensity * vAir * math.Abs(vAir) * dragCoefficient * frontalArea
}

// MetabolicCost returns the oxygen cost (ml/kg/min) of running at speed
// (m/s) into a chest-height headwind: the treadmill cost plus a surcharge
// proportional to drag over body weight.
func MetabolicCost(speed, headwind float64, p RunnerProfile) float64 {
	if p.WeightKg <= 0 {
		return OxygenCost(speed * 60)
	}
	force := DragForce(speed, headwind, FrontalArea(p))
	surcharge := airCostFactor * force / (p.WeightKg * gravity)
	return OxygenCost(speed*60) * (1 + surcharge)
}

// WindAdjustedSpeed finds the speed (m/s) in the given wind that costs the
// same as baseSpeed in calm air. windKmh is measured at 10 m; positive is a
// headwind. ok is false when the cost falls outside the searchable range.
func WindAdjustedSpeed(baseSpeed, windKmh float64, p RunnerProfile) (float64, bool) {
	if baseSpeed <= 0 || p.WeightKg <= 0 || math.IsNaN(windKmh) {
		return 0, false
	}

	headwind := ChestHeightWind(windKmh / 3.6)
	target := MetabolicCost(baseSpeed, 0, p)

	steps := int(math.Round(windGridMaxSpeed / windGridStep))
	prevSpeed := 0.0
	prevCost := MetabolicCost(prevSpeed, headwind, p)

	for i := 1; i <= steps; i++ {
		speed := float64(i) * windGridStep
		cost := MetabolicCost(speed, headwind, p)

		if between(target, prevCost, cost) {
			if cost == prevCost {
				return prevSpeed, true
			}
			fraction := (target - prevCost) / (cost - prevCost)
			return prevSpeed + fraction*(speed-prevSpeed), true
		}

		prevSpeed, prevCost = speed, cost
	}

	return 0, false
}

// WindImpactPercent returns the percent slowdown caused by the wind,
// ((base - adjusted) / base) * 100. Positive means slower.
func WindImpactPercent(baseSpeed, windKmh float64, p RunnerProfile) (float64, bool) {
	adjusted, ok := WindAdjustedSpeed(baseSpeed, windKmh, p)
	if !ok {
		return 0, false
	}
	return (baseSpeed - adjusted) / baseSpeed * 100, true
}

// WindImpact applies the wind effect to a pace set. Each zone is solved on
// its own because drag grows with the square of speed. Returns nil when any
// zone has no solution.
func WindImpact(base PaceSet, windKmh float64, p RunnerProfile) *EnvironmentAdjustment {
	impact, ok := WindImpactPercent(PaceToSpeed(base.Threshold), windKmh, p)
	if !ok {
		return nil
	}

	solved := true
	adjusted := base.Map(func(pace float64) float64 {
		speed, ok := WindAdjustedSpeed(PaceToSpeed(pace), windKmh, p)
		if !ok {
			solved = false
			return 0
		}
		return SpeedToPace(speed)
	})
	if !solved {
		return nil
	}

	return &EnvironmentAdjustment{
		ImpactPercent: impact,
		Paces:         adjusted,
	}
}

// between reports whether x lies within the closed interval spanned by a and b
func between(x, a, b float64) bool {
	if a > b {
		a, b = b, a
	}
	return x >= a && x <= b
}
