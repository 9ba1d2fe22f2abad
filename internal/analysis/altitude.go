package analysis

import "math"

const (
	// altitudeDecayRate is the exponential VO2max loss per meter of elevation
	altitudeDecayRate = 4.0e-5

	minVO2MaxPercent = 50.0
	maxVO2MaxPercent = 100.0

	// Descending: linear acclimatization gain, 1% per 1000 m, capped at 3%
	descentGainPer1000m = 1.0
	descentGainCap      = 3.0
)

// VO2MaxPercentage returns the share (%) of sea-level VO2max available at
// the given altitude. Negative altitudes count as sea level; the result is
// clamped to [50, 100].
func VO2MaxPercentage(altitudeMeters float64) float64 {
	if altitudeMeters < 0 || math.IsNaN(altitudeMeters) {
		altitudeMeters = 0
	}
	pct := maxVO2MaxPercent * math.Exp(-altitudeDecayRate*altitudeMeters)
	return math.Max(minVO2MaxPercent, math.Min(maxVO2MaxPercent, pct))
}

// PaceCorrectionFactor is vo2%(base) / vo2%(target). Values above 1 mean the
// target altitude is harder than the base.
func PaceCorrectionFactor(baseAltitude, targetAltitude float64) float64 {
	return VO2MaxPercentage(baseAltitude) / VO2MaxPercentage(targetAltitude)
}

// AscentPace scales a pace by the correction factor for going higher
func AscentPace(pace, baseAltitude, targetAltitude float64) float64 {
	return pace * PaceCorrectionFactor(baseAltitude, targetAltitude)
}

// DescentBoost is the pace gain of a runner acclimatized at altitude racing lower
type DescentBoost struct {
	GainPercent  float64
	ImprovedPace float64
}

// CalculateDescentBoost applies the acclimatization gain for moving from
// baseAltitude down to targetAltitude. Not the inverse of the ascent model.
func CalculateDescentBoost(pace, baseAltitude, targetAltitude float64) DescentBoost {
	drop := baseAltitude - targetAltitude
	if drop <= 0 {
		return DescentBoost{GainPercent: 0, ImprovedPace: pace}
	}

	gain := math.Min(descentGainCap, drop/1000*descentGainPer1000m)
	return DescentBoost{
		GainPercent:  gain,
		ImprovedPace: pace * (1 - gain/100),
	}
}

// AltitudeModel holds the two directional pace models. They are separate
// fields so either can be replaced without touching the other.
type AltitudeModel struct {
	Ascent  func(pace, baseAltitude, targetAltitude float64) float64
	Descent func(pace, baseAltitude, targetAltitude float64) float64
}

// DefaultAltitudeModel uses AscentPace going up and CalculateDescentBoost going down
func DefaultAltitudeModel() AltitudeModel {
	return AltitudeModel{
		Ascent: AscentPace,
		Descent: func(pace, base, target float64) float64 {
			return CalculateDescentBoost(pace, base, target).ImprovedPace
		},
	}
}

// PaceAt returns the expected pace at targetAltitude for a pace run at baseAltitude
func (m AltitudeModel) PaceAt(pace, baseAltitude, targetAltitude float64) float64 {
	switch {
	case targetAltitude > baseAltitude:
		return m.Ascent(pace, baseAltitude, targetAltitude)
	case targetAltitude < baseAltitude:
		return m.Descent(pace, baseAltitude, targetAltitude)
	default:
		return pace
	}
}

// CalculatePaceAtAltitude uses the default model
func CalculatePaceAtAltitude(pace, baseAltitude, targetAltitude float64) float64 {
	return DefaultAltitudeModel().PaceAt(pace, baseAltitude, targetAltitude)
}

// AltitudeImpact applies the model to a pace set. Returns nil when the
// altitude change is within MinAltitudeDelta.
func (m AltitudeModel) AltitudeImpact(base PaceSet, baseAltitude, targetAltitude float64) *EnvironmentAdjustment {
	if math.Abs(targetAltitude-baseAltitude) <= MinAltitudeDelta {
		return nil
	}

	adjusted := base.Map(func(p float64) float64 {
		return m.PaceAt(p, baseAltitude, targetAltitude)
	})

	return &EnvironmentAdjustment{
		ImpactPercent: paceImpactPercent(base.Threshold, adjusted.Threshold),
		Paces:         adjusted,
	}
}
