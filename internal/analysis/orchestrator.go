package analysis

import "math"

// TimeTrial is a recent race or hard effort
type TimeTrial struct {
	DistanceMeters float64
	TimeSeconds    float64
}

// Valid reports whether both fields are strictly positive and finite
func (t TimeTrial) Valid() bool {
	return finite(t.DistanceMeters) && finite(t.TimeSeconds) &&
		t.DistanceMeters > 0 && t.TimeSeconds > 0
}

// HeatConditions are the temperature and dew point for the heat model
type HeatConditions struct {
	TempC     float64
	DewPointC float64
}

// AltitudePair is the altitude the trial was run at and the target altitude
type AltitudePair struct {
	BaseMeters   float64
	TargetMeters float64
}

// Inputs is one pacing request. Nil fields mean the condition is not active.
type Inputs struct {
	Trial    TimeTrial
	Heat     *HeatConditions
	WindKmh  *float64
	Runner   *RunnerProfile
	Altitude *AltitudePair
}

// Result holds base paces and per-condition adjustments. When Valid is false
// every other field is zero. Nil adjustments are inactive conditions.
type Result struct {
	Valid              bool
	VDOT               float64
	Predicted5KSeconds float64
	Paces              PaceSet

	Heat     *EnvironmentAdjustment
	Headwind *EnvironmentAdjustment
	Tailwind *EnvironmentAdjustment
	Altitude *EnvironmentAdjustment
}

// Tables are the read-only lookup tables the models consume
type Tables struct {
	Heat     *HeatGrid
	AgeGrade *AgeGradeTables
	Range    *RangeModel
}

// Engine composes the pacing models. It holds only read-only tables and is
// safe for concurrent use.
type Engine struct {
	tables   Tables
	altitude AltitudeModel
}

// Option configures an Engine
type Option func(*Engine)

// WithAltitudeModel replaces the ascent/descent pace models
func WithAltitudeModel(m AltitudeModel) Option {
	return func(e *Engine) {
		if m.Ascent != nil {
			e.altitude.Ascent = m.Ascent
		}
		if m.Descent != nil {
			e.altitude.Descent = m.Descent
		}
	}
}

// NewEngine creates an Engine over the given tables
func NewEngine(tables Tables, opts ...Option) *Engine {
	e := &Engine{
		tables:   tables,
		altitude: DefaultAltitudeModel(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tables returns the tables the engine was built with
func (e *Engine) Tables() Tables {
	return e.tables
}

// Compute runs the full pacing calculation for one request
func (e *Engine) Compute(in Inputs) Result {
	if !in.Trial.Valid() {
		return Result{}
	}

	vdot := CalculateVDOT(in.Trial.DistanceMeters, in.Trial.TimeSeconds)
	paces, ok := BasePaces(vdot)
	if !ok {
		return Result{}
	}

	res := Result{
		Valid:              true,
		VDOT:               vdot,
		Predicted5KSeconds: SolveTimeForVDOT(vdot, Distance5K),
		Paces:              paces,
	}

	if in.Heat != nil && finite(in.Heat.TempC) && finite(in.Heat.DewPointC) {
		heat := HeatImpact(e.tables.Heat, paces, in.Heat.TempC, in.Heat.DewPointC)
		res.Heat = &heat
	}

	if in.WindKmh != nil && in.Runner != nil && in.Runner.WeightKg > 0 {
		wind := math.Abs(*in.WindKmh)
		if wind > 0 && finite(wind) {
			res.Headwind = WindImpact(paces, wind, *in.Runner)
			res.Tailwind = WindImpact(paces, -wind, *in.Runner)
		}
	}

	if in.Altitude != nil {
		res.Altitude = e.altitude.AltitudeImpact(paces, in.Altitude.BaseMeters, in.Altitude.TargetMeters)
	}

	return res
}

// AgeGrade grades the trial for the runner's age and gender. Returns nil when
// the trial is invalid or the tables lack a matching standard.
func (e *Engine) AgeGrade(trial TimeTrial, age int, gender Gender) *AgeGradeResult {
	if !trial.Valid() {
		return nil
	}
	return CalculateAgeGrade(e.tables.AgeGrade, trial.DistanceMeters, trial.TimeSeconds, age, gender)
}

// TrainingRanges estimates the quantile pace ranges. age <= 0 uses DefaultReferenceAge.
func (e *Engine) TrainingRanges(trial TimeTrial, age float64) *TrainingRanges {
	return EstimateTrainingRanges(e.tables.Range, trial.DistanceMeters, trial.TimeSeconds, age)
}

// WBGT estimates the outdoor wet-bulb globe temperature
func (e *Engine) WBGT(in WBGTInput) WBGTResult {
	return CalculateWBGT(in)
}
