package analysis

import (
	"math"
	"sync"
	"testing"
)

func testEngine(opts ...Option) *Engine {
	return NewEngine(Tables{
		Heat:     uniformGrid(5),
		AgeGrade: testAgeGradeTables(),
		Range:    flatModel(allZoneSpeeds(3.0, 3.5, 4.0), []float64{0, 0}),
	}, opts...)
}

func floatPtr(v float64) *float64 { return &v }

func TestEngine_Compute_BaseOnly(t *testing.T) {
	e := testEngine()

	res := e.Compute(Inputs{Trial: TimeTrial{DistanceMeters: Distance5K, TimeSeconds: 1200}})
	if !res.Valid {
		t.Fatal("Compute() Valid = false")
	}
	if math.Abs(res.VDOT-49.8) > 0.1 {
		t.Errorf("VDOT = %.2f, want ~49.8", res.VDOT)
	}
	if math.Abs(res.Predicted5KSeconds-1200) > 0.01 {
		t.Errorf("Predicted5KSeconds = %v, want 1200", res.Predicted5KSeconds)
	}
	if math.Abs(res.Paces.Threshold-256.0) > 0.5 {
		t.Errorf("Threshold = %.1f, want ~256", res.Paces.Threshold)
	}
	if res.Heat != nil || res.Headwind != nil || res.Tailwind != nil || res.Altitude != nil {
		t.Errorf("inactive conditions should be nil: %+v", res)
	}
}

func TestEngine_Compute_AllConditions(t *testing.T) {
	e := testEngine()

	res := e.Compute(Inputs{
		Trial:    TimeTrial{DistanceMeters: Distance5K, TimeSeconds: 1200},
		Heat:     &HeatConditions{TempC: 30, DewPointC: 20},
		WindKmh:  floatPtr(-20),
		Runner:   &RunnerProfile{WeightKg: 65},
		Altitude: &AltitudePair{BaseMeters: 0, TargetMeters: 2000},
	})
	if !res.Valid {
		t.Fatal("Compute() Valid = false")
	}

	if res.Heat == nil || math.Abs(res.Heat.ImpactPercent-5) > 1e-6 {
		t.Errorf("Heat = %+v, want 5%% impact", res.Heat)
	}

	// The sign of the wind input does not matter, both directions are reported
	if res.Headwind == nil || res.Headwind.ImpactPercent <= 0 {
		t.Errorf("Headwind = %+v, want positive impact", res.Headwind)
	}
	if res.Tailwind == nil || res.Tailwind.ImpactPercent >= 0 {
		t.Errorf("Tailwind = %+v, want negative impact", res.Tailwind)
	}

	if res.Altitude == nil || math.Abs(res.Altitude.ImpactPercent-8.33) > 0.01 {
		t.Errorf("Altitude = %+v, want 8.33%% impact", res.Altitude)
	}
}

func TestEngine_Compute_InactiveConditions(t *testing.T) {
	e := testEngine()
	trial := TimeTrial{DistanceMeters: Distance10K, TimeSeconds: 2700}

	tests := []struct {
		name string
		in   Inputs
	}{
		{"wind without runner", Inputs{Trial: trial, WindKmh: floatPtr(20)}},
		{"calm wind", Inputs{Trial: trial, WindKmh: floatPtr(0), Runner: &RunnerProfile{WeightKg: 70}}},
		{"runner without weight", Inputs{Trial: trial, WindKmh: floatPtr(20), Runner: &RunnerProfile{}}},
		{"small altitude change", Inputs{Trial: trial, Altitude: &AltitudePair{BaseMeters: 500, TargetMeters: 580}}},
		{"NaN temperature", Inputs{Trial: trial, Heat: &HeatConditions{TempC: math.NaN(), DewPointC: 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Compute(tt.in)
			if !res.Valid {
				t.Fatal("Compute() Valid = false")
			}
			if res.Heat != nil || res.Headwind != nil || res.Tailwind != nil || res.Altitude != nil {
				t.Errorf("expected no adjustments, got %+v", res)
			}
		})
	}
}

func TestEngine_Compute_InvalidTrial(t *testing.T) {
	e := testEngine()

	trials := []TimeTrial{
		{DistanceMeters: 0, TimeSeconds: 1200},
		{DistanceMeters: Distance5K, TimeSeconds: 0},
		{DistanceMeters: -1, TimeSeconds: -1},
		{DistanceMeters: math.NaN(), TimeSeconds: 1200},
	}

	for _, trial := range trials {
		res := e.Compute(Inputs{
			Trial: trial,
			Heat:  &HeatConditions{TempC: 30, DewPointC: 20},
		})
		if res != (Result{}) {
			t.Errorf("Compute(%+v) = %+v, want zero result", trial, res)
		}
	}
}

func TestEngine_WithAltitudeModel(t *testing.T) {
	e := testEngine(WithAltitudeModel(AltitudeModel{
		Descent: func(pace, base, target float64) float64 { return pace * 0.9 },
	}))

	res := e.Compute(Inputs{
		Trial:    TimeTrial{DistanceMeters: Distance5K, TimeSeconds: 1200},
		Altitude: &AltitudePair{BaseMeters: 2000, TargetMeters: 0},
	})
	if res.Altitude == nil || math.Abs(res.Altitude.ImpactPercent+10) > 1e-9 {
		t.Errorf("Altitude = %+v, want -10%% from the custom descent model", res.Altitude)
	}

	up := e.Compute(Inputs{
		Trial:    TimeTrial{DistanceMeters: Distance5K, TimeSeconds: 1200},
		Altitude: &AltitudePair{BaseMeters: 0, TargetMeters: 2000},
	})
	if up.Altitude == nil || math.Abs(up.Altitude.ImpactPercent-8.33) > 0.01 {
		t.Errorf("ascent = %+v, want default model", up.Altitude)
	}
}

func TestEngine_AgeGradeAndRanges(t *testing.T) {
	e := testEngine()
	trial := TimeTrial{DistanceMeters: Distance5K, TimeSeconds: 1200}

	ag := e.AgeGrade(trial, 40, Male)
	if ag == nil || math.Abs(ag.Score-68.57) > 0.01 {
		t.Errorf("AgeGrade() = %+v, want score 68.57", ag)
	}
	if e.AgeGrade(TimeTrial{}, 40, Male) != nil {
		t.Error("AgeGrade() with invalid trial should be nil")
	}

	ranges := e.TrainingRanges(trial, 0)
	if ranges == nil {
		t.Fatal("TrainingRanges() = nil")
	}
	if ranges.VO2Max.RangeFastSecPerKm != 250 {
		t.Errorf("VO2Max fast = %v, want 250", ranges.VO2Max.RangeFastSecPerKm)
	}
}

func TestEngine_ConcurrentCompute(t *testing.T) {
	e := testEngine()
	in := Inputs{
		Trial:   TimeTrial{DistanceMeters: Distance10K, TimeSeconds: 2520},
		Heat:    &HeatConditions{TempC: 28, DewPointC: 18},
		WindKmh: floatPtr(15),
		Runner:  &RunnerProfile{WeightKg: 60, HeightCm: 170},
	}
	want := e.Compute(in)

	var wg sync.WaitGroup
	errs := make(chan Result, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := e.Compute(in); got.Paces != want.Paces || *got.Headwind != *want.Headwind {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent Compute() = %+v, want %+v", got, want)
	}
}
