package analysis

import (
	"math"
	"testing"
)

var testRunner = RunnerProfile{WeightKg: 65}

func TestBodySurfaceArea(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		height float64
		want   float64
	}{
		{"weight only", 65, 0, 1.744},
		{"with height", 70, 175, 1.848},
		{"no weight", 0, 175, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BodySurfaceArea(tt.weight, tt.height)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("BodySurfaceArea(%v, %v) = %.4f, want %.4f", tt.weight, tt.height, got, tt.want)
			}
		})
	}
}

func TestChestHeightWind(t *testing.T) {
	got := ChestHeightWind(10)
	if math.Abs(got-5.660) > 0.001 {
		t.Errorf("ChestHeightWind(10) = %.4f, want 5.660", got)
	}
}

func TestDragForce_Sign(t *testing.T) {
	area := FrontalArea(testRunner)

	if f := DragForce(3, 2, area); f <= 0 {
		t.Errorf("DragForce into headwind = %v, want positive", f)
	}
	if f := DragForce(3, -5, area); f >= 0 {
		t.Errorf("DragForce with tailwind faster than runner = %v, want negative", f)
	}
	if f := DragForce(3, -3, area); f != 0 {
		t.Errorf("DragForce in still relative air = %v, want 0", f)
	}
}

func TestWindImpactPercent(t *testing.T) {
	base := 1000.0 / 300 // 5:00/km

	tests := []struct {
		name    string
		windKmh float64
		want    float64
		tol     float64
	}{
		{"20 km/h headwind", 20, 5.19, 0.02},
		{"20 km/h tailwind", -20, -2.18, 0.02},
		{"5 km/h headwind", 5, 1.06, 0.02},
		{"5 km/h tailwind", -5, -0.87, 0.02},
		{"calm", 0, 0, 0.01},
		{"60 km/h headwind", 60, 20.05, 0.05},
		{"60 km/h tailwind", -60, -9.52, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WindImpactPercent(base, tt.windKmh, testRunner)
			if !ok {
				t.Fatalf("WindImpactPercent(%v) ok = false", tt.windKmh)
			}
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("WindImpactPercent(%v) = %.3f, want %.2f", tt.windKmh, got, tt.want)
			}
		})
	}
}

func TestWindImpactPercent_Monotonic(t *testing.T) {
	base := 1000.0 / 300
	prev := math.Inf(-1)

	for wind := -40.0; wind <= 40; wind += 5 {
		got, ok := WindImpactPercent(base, wind, testRunner)
		if !ok {
			t.Fatalf("WindImpactPercent(%v) ok = false", wind)
		}
		if got <= prev {
			t.Errorf("impact at %v km/h = %.3f, not above %.3f", wind, got, prev)
		}
		prev = got
	}
}

func TestWindAdjustedSpeed_NoSolution(t *testing.T) {
	tests := []struct {
		name    string
		speed   float64
		windKmh float64
		runner  RunnerProfile
	}{
		{"no weight", 3.3, 10, RunnerProfile{}},
		{"zero speed", 0, 10, testRunner},
		{"NaN wind", 3.3, math.NaN(), testRunner},
		{"faster than search grid", 12.5, 0, testRunner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := WindAdjustedSpeed(tt.speed, tt.windKmh, tt.runner); ok {
				t.Errorf("WindAdjustedSpeed() = (%v, true), want ok = false", got)
			}
		})
	}
}

func TestWindImpact(t *testing.T) {
	vdot := CalculateVDOT(Distance5K, 1200)
	base, ok := BasePaces(vdot)
	if !ok {
		t.Fatal("BasePaces() failed")
	}

	head := WindImpact(base, 20, testRunner)
	if head == nil {
		t.Fatal("WindImpact(headwind) = nil")
	}
	if head.ImpactPercent <= 0 {
		t.Errorf("headwind ImpactPercent = %v, want positive", head.ImpactPercent)
	}
	for name, pace := range head.Paces.Zones() {
		if pace <= base.Zones()[name] {
			t.Errorf("headwind %s pace %.1f not slower than %.1f", name, pace, base.Zones()[name])
		}
	}

	tail := WindImpact(base, -20, testRunner)
	if tail == nil {
		t.Fatal("WindImpact(tailwind) = nil")
	}
	if tail.ImpactPercent >= 0 {
		t.Errorf("tailwind ImpactPercent = %v, want negative", tail.ImpactPercent)
	}
	for name, pace := range tail.Paces.Zones() {
		if pace >= base.Zones()[name] {
			t.Errorf("tailwind %s pace %.1f not faster than %.1f", name, pace, base.Zones()[name])
		}
	}

	if WindImpact(base, 20, RunnerProfile{}) != nil {
		t.Error("WindImpact() without weight should be nil")
	}
}
