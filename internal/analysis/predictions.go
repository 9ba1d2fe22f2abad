package analysis

import (
	"math"
	"time"
)

// PredictionTarget is a race distance to predict a time for
type PredictionTarget struct {
	Name           string // "mile", "5k", "10k", "half", "marathon"
	DistanceMeters float64
}

// PredictionTargets are the standard prediction distances
var PredictionTargets = []PredictionTarget{
	{"mile", Distance1Mile},
	{"5k", Distance5K},
	{"10k", Distance10K},
	{"half", DistanceHalfMara},
	{"marathon", DistanceMarathon},
}

// RacePrediction is an equivalent race time at another distance
type RacePrediction struct {
	TargetName       string
	TargetMeters     float64
	PredictedSeconds int
	PredictedPace    float64 // seconds per km
	VDOT             float64
	Confidence       string  // "high", "medium", "low"
	ConfidenceScore  float64 // 0.0 to 1.0
}

// SourceTrial is a dated time trial that predictions are built from
type SourceTrial struct {
	TimeTrial
	RecordedAt time.Time
}

// maxSourceAge is how far back a trial may be and still seed predictions
const maxSourceAge = 365 * 24 * time.Hour

// SelectSourceTrial picks the trial to predict from. Trials older than a
// year are ignored; among the rest the longest distance wins and ties go to
// the most recent.
func SelectSourceTrial(trials []SourceTrial, now time.Time) *SourceTrial {
	var best *SourceTrial

	for i := range trials {
		t := &trials[i]
		if !t.Valid() || now.Sub(t.RecordedAt) > maxSourceAge {
			continue
		}

		switch {
		case best == nil:
			best = t
		case t.DistanceMeters > best.DistanceMeters:
			best = t
		case t.DistanceMeters == best.DistanceMeters && t.RecordedAt.After(best.RecordedAt):
			best = t
		}
	}

	return best
}

// CalculateConfidence scores a prediction from 0.0 to 1.0 using the distance
// extrapolation ratio and how old the source trial is.
func CalculateConfidence(source *SourceTrial, targetDistance float64, now time.Time) (float64, string) {
	if source == nil || source.DistanceMeters <= 0 {
		return 0, "low"
	}

	score := 1.0

	// Shorter and longer targets are penalized alike
	ratio := targetDistance / source.DistanceMeters
	if ratio < 1 {
		ratio = 1 / ratio
	}

	switch {
	case ratio > 4:
		score *= 0.7
	case ratio > 2:
		score *= 0.85
	case ratio > 1.5:
		score *= 0.95
	}

	days := now.Sub(source.RecordedAt).Hours() / 24
	switch {
	case days > 180:
		score *= 0.75
	case days > 90:
		score *= 0.9
	case days > 30:
		score *= 0.95
	}

	var label string
	switch {
	case score >= 0.85:
		label = "high"
	case score >= 0.65:
		label = "medium"
	default:
		label = "low"
	}

	return score, label
}

// GeneratePredictions produces equivalent times for every target distance
// except the one the trial was run at.
func GeneratePredictions(source *SourceTrial, now time.Time) []RacePrediction {
	if source == nil || !source.Valid() {
		return nil
	}

	vdot := CalculateVDOT(source.DistanceMeters, source.TimeSeconds)
	if vdot <= 0 {
		return nil
	}

	var predictions []RacePrediction

	for _, target := range PredictionTargets {
		if matchesDistance(source.DistanceMeters, target.DistanceMeters) {
			continue
		}

		seconds := PredictTime(vdot, target.DistanceMeters)
		if seconds <= 0 {
			continue
		}

		score, label := CalculateConfidence(source, target.DistanceMeters, now)

		predictions = append(predictions, RacePrediction{
			TargetName:       target.Name,
			TargetMeters:     target.DistanceMeters,
			PredictedSeconds: seconds,
			PredictedPace:    float64(seconds) / (target.DistanceMeters / MetersPerKm),
			VDOT:             vdot,
			Confidence:       label,
			ConfidenceScore:  math.Round(score*100) / 100,
		})
	}

	return predictions
}

// MatchStandardDistance returns the prediction target within DistanceTolerance
// of meters, if any
func MatchStandardDistance(meters float64) (PredictionTarget, bool) {
	for _, target := range PredictionTargets {
		if matchesDistance(meters, target.DistanceMeters) {
			return target, true
		}
	}
	return PredictionTarget{}, false
}
