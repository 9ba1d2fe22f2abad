package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"pacecalc/internal/analysis"
	"pacecalc/internal/config"
	"pacecalc/internal/store"
)

var (
	// ErrInvalidTrial is returned when distance or time is not a positive number
	ErrInvalidTrial = errors.New("distance and time must be positive")
	// ErrIncompleteHeat is returned when only one of temperature and dew point is given
	ErrIncompleteHeat = errors.New("heat adjustment needs both temperature and dew point")
	// ErrIncompleteAltitude is returned when only one altitude is given
	ErrIncompleteAltitude = errors.New("altitude adjustment needs both base and target altitude")
	// ErrNoStore is returned by operations that need history when none is configured
	ErrNoStore = errors.New("no history store configured")
	// ErrUnknownGender is returned for a gender other than M or F
	ErrUnknownGender = errors.New("gender must be M or F")
	// ErrNoAgeGrade is returned when the tables hold no standard for the request
	ErrNoAgeGrade = errors.New("no age-grade standard for this age, gender and distance")
	// ErrNoRanges is returned when the range model cannot produce sane paces
	ErrNoRanges = errors.New("training ranges unavailable for this performance")
)

// PaceRequest is one calculation. Optional conditions are nil when absent.
type PaceRequest struct {
	Label          string
	DistanceMeters float64
	TimeSeconds    float64

	TempC     *float64
	DewPointC *float64
	WindKmh   *float64

	// WeightKg and HeightCm override the configured runner profile when > 0
	WeightKg float64
	HeightCm float64

	BaseAltitude   *float64
	TargetAltitude *float64

	Save bool
}

func (r PaceRequest) trial() analysis.TimeTrial {
	return analysis.TimeTrial{DistanceMeters: r.DistanceMeters, TimeSeconds: r.TimeSeconds}
}

// PaceReport is the result of a calculation plus race predictions
type PaceReport struct {
	analysis.Result
	Predictions []analysis.RacePrediction
	TrialID     string // set when the trial was saved
}

// AgeGradeRequest grades a performance. Zero Age and empty Gender fall back
// to the configured runner profile.
type AgeGradeRequest struct {
	DistanceMeters float64
	TimeSeconds    float64
	Age            int
	Gender         string
}

// HeatPoint is one sample of a heat impact curve
type HeatPoint struct {
	TempC         float64
	ImpactPercent float64
}

// CalculatorService runs calculations against the engine and records them
type CalculatorService struct {
	engine *analysis.Engine
	store  *store.Store
	runner config.RunnerConfig
	log    zerolog.Logger
	now    func() time.Time
}

// NewCalculatorService creates a calculator. st may be nil, in which case
// nothing is saved and History returns ErrNoStore.
func NewCalculatorService(engine *analysis.Engine, st *store.Store, runner config.RunnerConfig, log zerolog.Logger) *CalculatorService {
	return &CalculatorService{
		engine: engine,
		store:  st,
		runner: runner,
		log:    log,
		now:    time.Now,
	}
}

// Runner returns the configured runner profile
func (s *CalculatorService) Runner() config.RunnerConfig {
	return s.runner
}

// HasHistory reports whether results are saved
func (s *CalculatorService) HasHistory() bool {
	return s.store != nil
}

// Inputs validates the request and builds the engine inputs
func (s *CalculatorService) Inputs(req PaceRequest) (analysis.Inputs, error) {
	in := analysis.Inputs{Trial: req.trial()}
	if !in.Trial.Valid() {
		return in, ErrInvalidTrial
	}

	switch {
	case req.TempC != nil && req.DewPointC != nil:
		// A dew point above the air temperature is clamped by the engine
		in.Heat = &analysis.HeatConditions{TempC: *req.TempC, DewPointC: *req.DewPointC}
	case req.TempC != nil || req.DewPointC != nil:
		return in, ErrIncompleteHeat
	}

	weight, height := req.WeightKg, req.HeightCm
	if weight <= 0 {
		weight = s.runner.WeightKg
	}
	if height <= 0 {
		height = s.runner.HeightCm
	}
	if weight > 0 {
		in.Runner = &analysis.RunnerProfile{WeightKg: weight, HeightCm: height}
	}
	in.WindKmh = req.WindKmh

	switch {
	case req.BaseAltitude != nil && req.TargetAltitude != nil:
		in.Altitude = &analysis.AltitudePair{BaseMeters: *req.BaseAltitude, TargetMeters: *req.TargetAltitude}
	case req.BaseAltitude != nil || req.TargetAltitude != nil:
		return in, ErrIncompleteAltitude
	}

	return in, nil
}

// Calculate computes paces and adjustments for the request, and saves the
// trial with its result when req.Save is set.
func (s *CalculatorService) Calculate(ctx context.Context, req PaceRequest) (*PaceReport, error) {
	in, err := s.Inputs(req)
	if err != nil {
		return nil, err
	}

	res := s.engine.Compute(in)
	if !res.Valid {
		return nil, ErrInvalidTrial
	}

	now := s.now()
	report := &PaceReport{
		Result:      res,
		Predictions: analysis.GeneratePredictions(&analysis.SourceTrial{TimeTrial: in.Trial, RecordedAt: now}, now),
	}

	s.log.Debug().
		Float64("distance_m", req.DistanceMeters).
		Float64("time_s", req.TimeSeconds).
		Float64("vdot", res.VDOT).
		Msg("calculated paces")

	if !req.Save {
		return report, nil
	}
	if s.store == nil {
		return nil, ErrNoStore
	}

	trial := &store.TimeTrial{
		Label:          req.Label,
		DistanceMeters: req.DistanceMeters,
		TimeSeconds:    req.TimeSeconds,
		Source:         store.SourceManual,
		RecordedAt:     now,
	}
	if _, err := s.store.SaveTrial(ctx, trial); err != nil {
		return nil, fmt.Errorf("saving trial: %w", err)
	}
	if err := s.store.SaveResult(ctx, ResultRecord(trial.ID, res, now)); err != nil {
		return nil, fmt.Errorf("saving result: %w", err)
	}

	report.TrialID = trial.ID
	return report, nil
}

// ResultRecord converts an engine result into its stored form
func ResultRecord(trialID string, res analysis.Result, at time.Time) *store.Result {
	impact := func(a *analysis.EnvironmentAdjustment) *float64 {
		if a == nil {
			return nil
		}
		v := a.ImpactPercent
		return &v
	}

	return &store.Result{
		TrialID:        trialID,
		VDOT:           res.VDOT,
		Predicted5K:    res.Predicted5KSeconds,
		ThresholdPace:  res.Paces.Threshold,
		EasyPace:       res.Paces.Easy,
		HeatImpact:     impact(res.Heat),
		HeadwindImpact: impact(res.Headwind),
		TailwindImpact: impact(res.Tailwind),
		AltitudeImpact: impact(res.Altitude),
		ComputedAt:     at,
	}
}

// AgeGrade grades a performance against the age/gender standards
func (s *CalculatorService) AgeGrade(req AgeGradeRequest) (*analysis.AgeGradeResult, error) {
	trial := analysis.TimeTrial{DistanceMeters: req.DistanceMeters, TimeSeconds: req.TimeSeconds}
	if !trial.Valid() {
		return nil, ErrInvalidTrial
	}

	age := req.Age
	if age <= 0 {
		age = s.runner.Age
	}
	if age <= 0 {
		age = analysis.DefaultReferenceAge
	}

	genderStr := req.Gender
	if genderStr == "" {
		genderStr = s.runner.Gender
	}
	gender, ok := analysis.ParseGender(genderStr)
	if !ok {
		return nil, ErrUnknownGender
	}

	res := s.engine.AgeGrade(trial, age, gender)
	if res == nil {
		return nil, ErrNoAgeGrade
	}
	return res, nil
}

// TrainingRanges estimates quantile pace ranges. age <= 0 uses the
// configured age, then the model's reference age.
func (s *CalculatorService) TrainingRanges(distanceMeters, timeSeconds, age float64) (*analysis.TrainingRanges, error) {
	trial := analysis.TimeTrial{DistanceMeters: distanceMeters, TimeSeconds: timeSeconds}
	if !trial.Valid() {
		return nil, ErrInvalidTrial
	}
	if age <= 0 {
		age = float64(s.runner.Age)
	}

	ranges := s.engine.TrainingRanges(trial, age)
	if ranges == nil {
		return nil, ErrNoRanges
	}
	return ranges, nil
}

// WBGT estimates the wet-bulb globe temperature
func (s *CalculatorService) WBGT(in analysis.WBGTInput) analysis.WBGTResult {
	return s.engine.WBGT(in)
}

// History returns recent trials with their latest results
func (s *CalculatorService) History(ctx context.Context, limit int) ([]store.HistoryEntry, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.ListHistory(ctx, limit)
}

// DeleteTrial removes a trial and its results from history
func (s *CalculatorService) DeleteTrial(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.store.DeleteTrial(ctx, id)
}

// HeatCurve samples the heat impact on a pace every stepC degrees from
// fromC to toC. The dew point is capped at each sample's temperature.
func (s *CalculatorService) HeatCurve(secPerKm, dewPointC, fromC, toC, stepC float64) []HeatPoint {
	if secPerKm <= 0 || stepC <= 0 || toC < fromC {
		return nil
	}

	grid := s.engine.Tables().Heat
	n := int(math.Floor((toC-fromC)/stepC)) + 1
	points := make([]HeatPoint, 0, n)

	for i := 0; i < n; i++ {
		t := fromC + float64(i)*stepC
		adjusted := analysis.HeatAdjustedPace(grid, secPerKm, t, math.Min(dewPointC, t))
		points = append(points, HeatPoint{
			TempC:         t,
			ImpactPercent: (adjusted - secPerKm) / secPerKm * 100,
		})
	}
	return points
}
