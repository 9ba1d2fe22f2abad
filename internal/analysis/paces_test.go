package analysis

import (
	"math"
	"testing"
)

func TestThresholdPace(t *testing.T) {
	vdot := CalculateVDOT(Distance5K, 1200)

	got, ok := ThresholdPace(vdot)
	if !ok {
		t.Fatal("ThresholdPace() ok = false, want true")
	}
	if math.Abs(got-256.0) > 0.5 {
		t.Errorf("ThresholdPace(%.2f) = %.1f, want ~256.0", vdot, got)
	}
}

func TestZonePace(t *testing.T) {
	vdot := CalculateVDOT(Distance5K, 1200)

	tests := []struct {
		minutes float64
		want    float64
	}{
		{10, 228.96},
		{6, 218.62},
		{3, 206.13},
		{1, 194.72},
	}

	for _, tt := range tests {
		got, ok := ZonePace(vdot, tt.minutes)
		if !ok {
			t.Fatalf("ZonePace(%v min) ok = false", tt.minutes)
		}
		if math.Abs(got-tt.want) > 0.1 {
			t.Errorf("ZonePace(%v min) = %.2f, want %.2f", tt.minutes, got, tt.want)
		}
	}
}

func TestSpeedForCost_NoRoot(t *testing.T) {
	// The cost parabola has a minimum well below -80
	if _, ok := SpeedForCost(-200); ok {
		t.Error("SpeedForCost(-200) ok = true, want false")
	}
}

func TestEasyPace(t *testing.T) {
	tests := []struct {
		name  string
		fiveK float64
		want  float64
	}{
		{"table entry", 1200, 401},
		{"interpolated", 1210, 403.5},
		{"faster than table", 800, 330},
		{"slower than table", 2400, 550},
		{"first entry", 920, 330},
		{"last entry", 1800, 550},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EasyPace(tt.fiveK)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("EasyPace(%v) = %v, want %v", tt.fiveK, got, tt.want)
			}
		})
	}
}

func TestBasePaces(t *testing.T) {
	vdot := CalculateVDOT(Distance5K, 1200)

	paces, ok := BasePaces(vdot)
	if !ok {
		t.Fatal("BasePaces() ok = false, want true")
	}

	if math.Abs(paces.Easy-401) > 0.5 {
		t.Errorf("Easy = %.1f, want ~401", paces.Easy)
	}
	if !paces.Ordered() {
		t.Errorf("BasePaces(%.2f) not ordered: %+v", vdot, paces)
	}
	if paces.Threshold <= paces.P10Min {
		t.Errorf("Threshold %.1f should be slower than p10min %.1f", paces.Threshold, paces.P10Min)
	}
}

func TestBasePaces_Ordering(t *testing.T) {
	trials := []struct {
		distance float64
		time     float64
	}{
		{Distance1500m, 240},
		{Distance5K, 780},
		{Distance5K, 1200},
		{Distance10K, 2700},
		{DistanceMarathon, 14400},
		{DistanceMarathon, 30000},
		{Distance5K, 3000},
	}

	for _, tr := range trials {
		vdot := CalculateVDOT(tr.distance, tr.time)
		paces, ok := BasePaces(vdot)
		if !ok {
			t.Errorf("BasePaces(%.2f) ok = false for %v in %vs", vdot, tr.distance, tr.time)
			continue
		}
		if !paces.Ordered() {
			t.Errorf("BasePaces(%.2f) not ordered: %+v", vdot, paces)
		}
	}
}

func TestBasePaces_ShortZonesStayDistinct(t *testing.T) {
	// Efforts under about 11 minutes are sustained above VO2max
	for _, minutes := range []float64{1, 3, 6, 10} {
		if p := PercentOfMax(minutes); p <= 1 {
			t.Errorf("PercentOfMax(%v) = %.4f, want > 1", minutes, p)
		}
	}

	for _, vdot := range []float64{30, 49.8, 70} {
		paces, ok := BasePaces(vdot)
		if !ok {
			t.Fatalf("BasePaces(%v) ok = false", vdot)
		}
		zones := []float64{paces.P1Min, paces.P3Min, paces.P6Min, paces.P10Min}
		for i := 1; i < len(zones); i++ {
			if zones[i]-zones[i-1] < 1 {
				t.Errorf("BasePaces(%v) zones %v not at least 1 s/km apart", vdot, zones)
				break
			}
		}
	}
}

func TestBasePaces_SlowRunnerEasyFloor(t *testing.T) {
	// 50:00 5K: threshold is slower than the slowest easy table entry
	vdot := CalculateVDOT(Distance5K, 3000)

	paces, ok := BasePaces(vdot)
	if !ok {
		t.Fatal("BasePaces() ok = false, want true")
	}
	if paces.Threshold <= 550 {
		t.Fatalf("Threshold = %.1f, expected slower than 550 for this case", paces.Threshold)
	}
	if paces.Easy != paces.Threshold {
		t.Errorf("Easy = %.1f, want floored to threshold %.1f", paces.Easy, paces.Threshold)
	}
}

func TestBasePaces_Invalid(t *testing.T) {
	for _, vdot := range []float64{0, -10} {
		if _, ok := BasePaces(vdot); ok {
			t.Errorf("BasePaces(%v) ok = true, want false", vdot)
		}
	}
}

func TestPaceSet_Map(t *testing.T) {
	p := PaceSet{Threshold: 300, P10Min: 280, P6Min: 270, P3Min: 260, P1Min: 250, Easy: 360}
	doubled := p.Map(func(x float64) float64 { return x * 2 })

	zones := doubled.Zones()
	for _, name := range ZoneOrder {
		if zones[name] != p.Zones()[name]*2 {
			t.Errorf("Map() zone %s = %v, want %v", name, zones[name], p.Zones()[name]*2)
		}
	}
}

func TestSpeedPaceConversion(t *testing.T) {
	if got := SpeedToPace(4); got != 250 {
		t.Errorf("SpeedToPace(4) = %v, want 250", got)
	}
	if got := PaceToSpeed(250); got != 4 {
		t.Errorf("PaceToSpeed(250) = %v, want 4", got)
	}
	if SpeedToPace(0) != 0 || PaceToSpeed(-1) != 0 {
		t.Error("non-positive inputs should convert to 0")
	}
}
