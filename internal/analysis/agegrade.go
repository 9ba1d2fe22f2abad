package analysis

import (
	"math"
)

// DefaultRiegelExponent projects race times between distances
const DefaultRiegelExponent = 1.06

// Gender keys used by the age-grade tables
type Gender string

const (
	Male   Gender = "M"
	Female Gender = "F"
)

// ParseGender accepts M/F and common spellings. ok is false otherwise.
func ParseGender(s string) (Gender, bool) {
	switch s {
	case "M", "m", "male", "Male", "MALE":
		return Male, true
	case "F", "f", "female", "Female", "FEMALE":
		return Female, true
	}
	return "", false
}

// AgeGradeDistance is the standards table for one race distance
type AgeGradeDistance struct {
	Name         string
	Meters       float64
	OpenStandard map[Gender]float64         // open-class standard time in seconds
	Factors      map[Gender]map[int]float64 // age factor, multiplies the runner's time
}

// AgeGradeTables is the full set of per-distance standards
type AgeGradeTables struct {
	RiegelExponent float64
	Distances      []AgeGradeDistance
}

// AgeGradeClass is the performance level for an age-grade score
type AgeGradeClass int

const (
	ClassNone AgeGradeClass = iota
	ClassLocal
	ClassRegional
	ClassNational
	ClassWorldClass
	ClassWorldRecord
)

// String returns the human-readable class label
func (c AgeGradeClass) String() string {
	switch c {
	case ClassLocal:
		return "Local"
	case ClassRegional:
		return "Regional"
	case ClassNational:
		return "National"
	case ClassWorldClass:
		return "World Class"
	case ClassWorldRecord:
		return "World Record"
	default:
		return "None"
	}
}

// ClassifyAgeGrade maps a score (%) to its class
func ClassifyAgeGrade(score float64) AgeGradeClass {
	switch {
	case score >= 100:
		return ClassWorldRecord
	case score >= 90:
		return ClassWorldClass
	case score >= 80:
		return ClassNational
	case score >= 70:
		return ClassRegional
	case score >= 60:
		return ClassLocal
	default:
		return ClassNone
	}
}

// AgeGradeResult is an age-graded performance
type AgeGradeResult struct {
	Score                float64 // percent of the age/gender standard
	AgeGradedTimeSeconds float64
	Class                AgeGradeClass
	UsedFactor           float64
	TableName            string
}

// nearestDistance returns the table whose distance is closest to meters
func (t *AgeGradeTables) nearestDistance(meters float64) *AgeGradeDistance {
	if t == nil || len(t.Distances) == 0 {
		return nil
	}

	best := &t.Distances[0]
	bestDelta := math.Abs(best.Meters - meters)
	for i := 1; i < len(t.Distances); i++ {
		d := &t.Distances[i]
		if delta := math.Abs(d.Meters - meters); delta < bestDelta {
			best, bestDelta = d, delta
		}
	}
	return best
}

// CalculateAgeGrade grades a performance against the standard for the
// runner's age and gender. Returns nil when the inputs are invalid or the
// tables have no matching standard or factor.
func CalculateAgeGrade(tables *AgeGradeTables, distanceMeters, timeSeconds float64, age int, gender Gender) *AgeGradeResult {
	if distanceMeters <= 0 || timeSeconds <= 0 {
		return nil
	}

	table := tables.nearestDistance(distanceMeters)
	if table == nil || table.Meters <= 0 {
		return nil
	}

	open, ok := table.OpenStandard[gender]
	if !ok || open <= 0 {
		return nil
	}
	factor, ok := table.Factors[gender][age]
	if !ok || factor <= 0 {
		return nil
	}

	exponent := tables.RiegelExponent
	if exponent <= 0 {
		exponent = DefaultRiegelExponent
	}

	projected := RiegelProject(open, table.Meters, distanceMeters, exponent)
	graded := timeSeconds * factor
	score := projected / graded * 100

	return &AgeGradeResult{
		Score:                score,
		AgeGradedTimeSeconds: graded,
		Class:                ClassifyAgeGrade(score),
		UsedFactor:           factor,
		TableName:            table.Name,
	}
}

// RiegelProject projects a time from one distance to another: t2 = t1 * (d2/d1)^exponent
func RiegelProject(timeSeconds, fromMeters, toMeters, exponent float64) float64 {
	if fromMeters <= 0 || toMeters <= 0 {
		return 0
	}
	return timeSeconds * math.Pow(toMeters/fromMeters, exponent)
}
