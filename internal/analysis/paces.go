package analysis

import "math"

// Coefficients of OxygenCost, reused when inverting cost to speed
const (
	costA = 0.000104
	costB = 0.182258
	costC = -4.60

	// thresholdFraction is the share of VO2max cost held at threshold pace
	thresholdFraction = 0.88
)

// Zone names used by PaceSet.Zones
const (
	ZoneThreshold = "threshold"
	ZoneP10Min    = "p10min"
	ZoneP6Min     = "p6min"
	ZoneP3Min     = "p3min"
	ZoneP1Min     = "p1min"
	ZoneEasy      = "easy"
)

// ZoneOrder lists the zone names fastest first, easy last
var ZoneOrder = []string{ZoneP1Min, ZoneP3Min, ZoneP6Min, ZoneP10Min, ZoneThreshold, ZoneEasy}

// PaceSet holds training paces in seconds per kilometer
type PaceSet struct {
	Threshold float64
	P10Min    float64
	P6Min     float64
	P3Min     float64
	P1Min     float64
	Easy      float64
}

// Zones returns the pace set keyed by zone name
func (p PaceSet) Zones() map[string]float64 {
	return map[string]float64{
		ZoneThreshold: p.Threshold,
		ZoneP10Min:    p.P10Min,
		ZoneP6Min:     p.P6Min,
		ZoneP3Min:     p.P3Min,
		ZoneP1Min:     p.P1Min,
		ZoneEasy:      p.Easy,
	}
}

// Map applies fn to every zone pace and returns the new set
func (p PaceSet) Map(fn func(secPerKm float64) float64) PaceSet {
	return PaceSet{
		Threshold: fn(p.Threshold),
		P10Min:    fn(p.P10Min),
		P6Min:     fn(p.P6Min),
		P3Min:     fn(p.P3Min),
		P1Min:     fn(p.P1Min),
		Easy:      fn(p.Easy),
	}
}

// Ordered reports whether the set satisfies
// p1min <= p3min <= p6min <= p10min <= easy and threshold <= easy
func (p PaceSet) Ordered() bool {
	return p.P1Min <= p.P3Min &&
		p.P3Min <= p.P6Min &&
		p.P6Min <= p.P10Min &&
		p.P10Min <= p.Easy &&
		p.Threshold <= p.Easy
}

// SpeedForCost inverts OxygenCost: it returns the speed (m/min) whose cost
// equals targetCost. ok is false when the quadratic has no real root.
func SpeedForCost(targetCost float64) (speed float64, ok bool) {
	c := costC - targetCost
	disc := costB*costB - 4*costA*c
	if disc < 0 {
		return 0, false
	}
	return (-costB + math.Sqrt(disc)) / (2 * costA), true
}

// ThresholdPace returns the threshold pace (s/km) for a VDOT: the speed whose
// oxygen cost is 88% of the cost at VO2max pace.
func ThresholdPace(vdot float64) (float64, bool) {
	speed, ok := SpeedForCost(thresholdFraction * vdot)
	if !ok || speed <= 0 {
		return 0, false
	}
	return SpeedToPace(speed / 60), true
}

// ZonePace returns the pace (s/km) that a runner of the given VDOT can hold
// for an all-out effort of the given duration.
func ZonePace(vdot, minutes float64) (float64, bool) {
	speed, ok := SpeedForCost(vdot * PercentOfMax(minutes))
	if !ok || speed <= 0 {
		return 0, false
	}
	return SpeedToPace(speed / 60), true
}

// easyBreakpoint maps a 5K time to an easy pace
type easyBreakpoint struct {
	fiveK float64 // seconds
	pace  float64 // seconds per km
}

// easyPaceTable covers 5K times from 15:20 to 30:00
var easyPaceTable = []easyBreakpoint{
	{920, 330},
	{960, 340},
	{1000, 350},
	{1040, 360},
	{1080, 371},
	{1120, 381},
	{1160, 391},
	{1200, 401},
	{1220, 406},
	{1260, 416},
	{1300, 426},
	{1350, 438},
	{1400, 450},
	{1450, 463},
	{1500, 475},
	{1560, 490},
	{1620, 505},
	{1680, 520},
	{1740, 535},
	{1800, 550},
}

// EasyPace returns the easy-run pace (s/km) for a 5K time by linear
// interpolation over easyPaceTable. Inputs outside the table return the
// nearest boundary value.
func EasyPace(fiveKSeconds float64) float64 {
	first := easyPaceTable[0]
	last := easyPaceTable[len(easyPaceTable)-1]

	if fiveKSeconds <= first.fiveK {
		return first.pace
	}
	if fiveKSeconds >= last.fiveK {
		return last.pace
	}

	for i := 1; i < len(easyPaceTable); i++ {
		hi := easyPaceTable[i]
		if fiveKSeconds > hi.fiveK {
			continue
		}
		lo := easyPaceTable[i-1]
		fraction := (fiveKSeconds - lo.fiveK) / (hi.fiveK - lo.fiveK)
		return lo.pace + fraction*(hi.pace-lo.pace)
	}

	return last.pace
}

// BasePaces builds the full zone pace set for a VDOT. ok is false when any
// zone has no physiological solution; no partial set is returned.
func BasePaces(vdot float64) (PaceSet, bool) {
	if vdot <= 0 {
		return PaceSet{}, false
	}

	threshold, ok := ThresholdPace(vdot)
	if !ok {
		return PaceSet{}, false
	}

	durations := []float64{10, 6, 3, 1}
	zone := make([]float64, len(durations))
	for i, minutes := range durations {
		pace, ok := ZonePace(vdot, minutes)
		if !ok {
			return PaceSet{}, false
		}
		zone[i] = pace
	}

	// The breakpoint table clamps for very slow runners; easy never drops below threshold
	easy := EasyPace(SolveTimeForVDOT(vdot, Distance5K))
	if easy < threshold {
		easy = threshold
	}

	return PaceSet{
		Threshold: threshold,
		P10Min:    zone[0],
		P6Min:     zone[1],
		P3Min:     zone[2],
		P1Min:     zone[3],
		Easy:      easy,
	}, true
}

// SpeedToPace converts m/s to seconds per km. Returns 0 for non-positive speeds.
func SpeedToPace(metersPerSecond float64) float64 {
	if metersPerSecond <= 0 {
		return 0
	}
	return MetersPerKm / metersPerSecond
}

// PaceToSpeed converts seconds per km to m/s. Returns 0 for non-positive paces.
func PaceToSpeed(secPerKm float64) float64 {
	if secPerKm <= 0 {
		return 0
	}
	return MetersPerKm / secPerKm
}
