package analysis

import (
	"math"
)

// Bisection bounds for SolveTimeForVDOT. The iteration count is fixed so the
// worst case cost is bounded regardless of input.
const (
	solverMinSeconds = 1.0
	solverMaxSeconds = 360000.0
	solverIterations = 30
)

// PercentOfMax returns the fraction of VO2max that can be sustained for a
// race lasting tMinutes (Daniels/Gilbert two-exponential decay).
// The curve is strictly decreasing and approaches 0.8 for very long efforts;
// it exceeds 1 for efforts shorter than about 11 minutes.
func PercentOfMax(tMinutes float64) float64 {
	return 0.8 +
		0.1894393*math.Exp(-0.012778*tMinutes) +
		0.2989558*math.Exp(-0.1932605*tMinutes)
}

// OxygenCost returns the oxygen cost of running (ml/kg/min) at the given
// speed in meters per minute. Negative below roughly 25 m/min; not clamped.
func OxygenCost(speedMetersPerMin float64) float64 {
	v := speedMetersPerMin
	return -4.60 + 0.182258*v + 0.000104*v*v
}

// CalculateVDOT derives VDOT from a race result
// distanceMeters: the race distance in meters
// timeSeconds: the finish time in seconds
// Returns 0 when either input is not strictly positive
func CalculateVDOT(distanceMeters, timeSeconds float64) float64 {
	if timeSeconds <= 0 || distanceMeters <= 0 {
		return 0
	}

	minutes := timeSeconds / 60
	speed := distanceMeters / minutes // m/min

	return OxygenCost(speed) / PercentOfMax(minutes)
}

// SolveTimeForVDOT finds the race time (seconds) over distanceMeters that
// corresponds to the given VDOT, using a fixed 30-step bisection over
// [1s, 100h]. Returns 0 for non-positive inputs.
func SolveTimeForVDOT(vdot, distanceMeters float64) float64 {
	if vdot <= 0 || distanceMeters <= 0 {
		return 0
	}

	lo, hi := solverMinSeconds, solverMaxSeconds
	for i := 0; i < solverIterations; i++ {
		mid := (lo + hi) / 2
		if CalculateVDOT(distanceMeters, mid) > vdot {
			// Too fast for this fitness, the answer is a longer time
			lo = mid
		} else {
			hi = mid
		}
	}

	return (lo + hi) / 2
}

// PredictTime predicts race time for a target distance given a VDOT
// Returns predicted time in whole seconds
func PredictTime(vdot float64, targetDistanceMeters float64) int {
	seconds := SolveTimeForVDOT(vdot, targetDistanceMeters)
	return int(math.Round(seconds))
}

// VDOTLabel returns a human-readable fitness level for a VDOT value
func VDOTLabel(vdot float64) string {
	switch {
	case vdot >= 75:
		return "Elite"
	case vdot >= 65:
		return "Highly Competitive"
	case vdot >= 55:
		return "Competitive"
	case vdot >= 45:
		return "Advanced Recreational"
	case vdot >= 38:
		return "Intermediate"
	case vdot >= 30:
		return "Beginner"
	default:
		return "Novice"
	}
}

// matchesDistance checks if a distance is within 5% of a target
func matchesDistance(distance, target float64) bool {
	tolerance := target * DistanceTolerance
	return math.Abs(distance-target) <= tolerance
}
