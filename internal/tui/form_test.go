package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"pacecalc/internal/analysis"
	"pacecalc/internal/config"
	"pacecalc/internal/service"
	"pacecalc/internal/store"
	"pacecalc/internal/tables"
)

func filledForm(values map[int]string) FormModel {
	m := NewFormModel()
	for field, v := range values {
		m.inputs[field].SetValue(v)
	}
	return m
}

func TestFormRequest(t *testing.T) {
	m := filledForm(map[int]string{
		fieldDistance:  "5k",
		fieldTime:      "20:00",
		fieldTemp:      "28",
		fieldDewPoint:  "18",
		fieldWind:      "-15",
		fieldAge:       "41",
		fieldLabel:     " Parkrun ",
		fieldTargetAlt: "",
	})

	req, age, err := m.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if req.DistanceMeters != 5000 || req.TimeSeconds != 1200 {
		t.Errorf("trial = %v m in %v s, want 5000 m in 1200 s", req.DistanceMeters, req.TimeSeconds)
	}
	if req.TempC == nil || *req.TempC != 28 || req.DewPointC == nil || *req.DewPointC != 18 {
		t.Errorf("heat = %v/%v, want 28/18", req.TempC, req.DewPointC)
	}
	if req.WindKmh == nil || *req.WindKmh != -15 {
		t.Errorf("wind = %v, want -15", req.WindKmh)
	}
	if req.BaseAltitude != nil || req.TargetAltitude != nil {
		t.Error("blank altitude fields should stay nil")
	}
	if age != 41 {
		t.Errorf("age = %d, want 41", age)
	}
	if req.Label != "Parkrun" {
		t.Errorf("label = %q, want %q", req.Label, "Parkrun")
	}
}

func TestFormRequest_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values map[int]string
		want   string
	}{
		{"missing distance", map[int]string{fieldTime: "20:00"}, "distance"},
		{"bad time", map[int]string{fieldDistance: "5k", fieldTime: "soon"}, "time"},
		{"bad wind", map[int]string{fieldDistance: "5k", fieldTime: "20:00", fieldWind: "gusty"}, "wind"},
		{"bad age", map[int]string{fieldDistance: "5k", fieldTime: "20:00", fieldAge: "200"}, "age"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := filledForm(tt.values).Request()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Request() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestFormFocusWraps(t *testing.T) {
	m := NewFormModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(FormModel)
	if m.focus != fieldLabel {
		t.Errorf("focus = %d, want last field %d", m.focus, fieldLabel)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(FormModel)
	if m.Editing() {
		t.Error("esc should leave the form")
	}
}

func TestAppCalculate(t *testing.T) {
	tbl, err := tables.Default()
	if err != nil {
		t.Fatal(err)
	}
	st := store.NewTestStore(t)
	calc := service.NewCalculatorService(analysis.NewEngine(tbl), st, config.RunnerConfig{Age: 40, Gender: "M"}, zerolog.Nop())
	app := NewApp(calc, nil, service.NewUnits(config.DefaultConfig().Display))

	cmd := app.calculate(FormSubmitMsg{Request: service.PaceRequest{DistanceMeters: 5000, TimeSeconds: 1200}})
	msg, ok := cmd().(calculatedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("calculate() = %+v", msg)
	}
	if msg.calc.AgeGrade == nil || msg.calc.Ranges == nil {
		t.Errorf("age grade and ranges should be filled: %+v", msg.calc)
	}
	if len(msg.calc.HeatCurve) != 21 {
		t.Errorf("heat curve has %d points, want 21", len(msg.calc.HeatCurve))
	}

	app.Update(msg)
	if app.screen != ScreenResults {
		t.Errorf("screen = %v, want results", app.screen)
	}
	if !strings.Contains(app.View(), "VDOT") {
		t.Error("results view should show VDOT")
	}

	history, err := calc.History(context.Background(), 10)
	if err != nil || len(history) != 1 {
		t.Errorf("History() = %d entries, %v; want the saved trial", len(history), err)
	}
}
