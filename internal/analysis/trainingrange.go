package analysis

import (
	"math"
)

// Training-range zones
const (
	RangeZoneThreshold = "threshold"
	RangeZoneCV        = "cv"
	RangeZoneVO2Max    = "vo2max"
)

// Quantile suffixes of the outcome model keys, e.g. "cv_p90"
const (
	quantileLow    = "p10"
	quantileMedian = "p50"
	quantileHigh   = "p90"
)

// RangeZones lists the zones in output order
var RangeZones = []string{RangeZoneThreshold, RangeZoneCV, RangeZoneVO2Max}

// OutcomeKey builds the model key for a zone and quantile
func OutcomeKey(zone, quantile string) string {
	return zone + "_" + quantile
}

// OutcomeModel predicts a speed (m/s) as intercept + age effect + surface
type OutcomeModel struct {
	Intercept float64
	AgeSmooth []float64   // one value per RangeModel.AgeGrid entry
	Surface   [][]float64 // [log-distance index][log-time index]
}

// RangeModel is the regression surface set for the training-range estimator
type RangeModel struct {
	LogDistanceGrid []float64
	LogTimeGrid     []float64
	AgeGrid         []float64
	Outcomes        map[string]OutcomeModel
}

// TrainingPaceRange holds paces in seconds per km for one zone.
// RangeFastSecPerKm <= RangeSlowSecPerKm always holds.
type TrainingPaceRange struct {
	SafeSecPerKm      float64
	MedianSecPerKm    float64
	RangeFastSecPerKm float64
	RangeSlowSecPerKm float64
}

// TrainingRanges is the estimate for all three zones
type TrainingRanges struct {
	Threshold TrainingPaceRange
	CV        TrainingPaceRange
	VO2Max    TrainingPaceRange
}

// Zone returns the range for a zone name
func (r *TrainingRanges) Zone(name string) (TrainingPaceRange, bool) {
	switch name {
	case RangeZoneThreshold:
		return r.Threshold, true
	case RangeZoneCV:
		return r.CV, true
	case RangeZoneVO2Max:
		return r.VO2Max, true
	}
	return TrainingPaceRange{}, false
}

// predict evaluates one outcome model at log10 distance/time and age
func (m *RangeModel) predict(key string, logDist, logTime, age float64) (float64, bool) {
	outcome, ok := m.Outcomes[key]
	if !ok {
		return 0, false
	}

	ageIdx := nearestIndex(m.AgeGrid, age)
	if ageIdx < 0 || ageIdx >= len(outcome.AgeSmooth) {
		return 0, false
	}

	surface, ok := bilinearInterp(m.LogDistanceGrid, m.LogTimeGrid, outcome.Surface, logDist, logTime)
	if !ok {
		return 0, false
	}

	return outcome.Intercept + outcome.AgeSmooth[ageIdx] + surface, true
}

// zoneRange builds one zone's paces from its three quantile speeds
func (m *RangeModel) zoneRange(zone string, logDist, logTime, age float64) (TrainingPaceRange, bool) {
	low, okLow := m.predict(OutcomeKey(zone, quantileLow), logDist, logTime, age)
	median, okMed := m.predict(OutcomeKey(zone, quantileMedian), logDist, logTime, age)
	high, okHigh := m.predict(OutcomeKey(zone, quantileHigh), logDist, logTime, age)
	if !okLow || !okMed || !okHigh {
		return TrainingPaceRange{}, false
	}

	for _, s := range []float64{low, median, high} {
		if !saneSpeed(s) {
			return TrainingPaceRange{}, false
		}
	}

	// Safe sits halfway between the low quantile and the median
	safe := (low + median) / 2

	fast := SpeedToPace(high)
	slow := SpeedToPace(low)
	if fast > slow {
		fast, slow = slow, fast
	}

	return TrainingPaceRange{
		SafeSecPerKm:      SpeedToPace(safe),
		MedianSecPerKm:    SpeedToPace(median),
		RangeFastSecPerKm: fast,
		RangeSlowSecPerKm: slow,
	}, true
}

// EstimateTrainingRanges predicts training-pace ranges for threshold, CV and
// VO2max from a time trial. age <= 0 uses DefaultReferenceAge. Returns nil
// when any input is non-finite or any zone produces an invalid speed.
func EstimateTrainingRanges(model *RangeModel, distanceMeters, timeSeconds, age float64) *TrainingRanges {
	if model == nil {
		return nil
	}
	if !finite(distanceMeters) || !finite(timeSeconds) || !finite(age) {
		return nil
	}
	if distanceMeters <= 0 || timeSeconds <= 0 {
		return nil
	}
	if age <= 0 {
		age = DefaultReferenceAge
	}

	logDist := math.Log10(distanceMeters)
	logTime := math.Log10(timeSeconds)

	threshold, ok := model.zoneRange(RangeZoneThreshold, logDist, logTime, age)
	if !ok {
		return nil
	}
	cv, ok := model.zoneRange(RangeZoneCV, logDist, logTime, age)
	if !ok {
		return nil
	}
	vo2, ok := model.zoneRange(RangeZoneVO2Max, logDist, logTime, age)
	if !ok {
		return nil
	}

	return &TrainingRanges{
		Threshold: threshold,
		CV:        cv,
		VO2Max:    vo2,
	}
}

func saneSpeed(s float64) bool {
	return finite(s) && s >= MinSaneSpeed
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
