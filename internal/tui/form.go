package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pacecalc/internal/service"
)

// Form field indexes
const (
	fieldDistance = iota
	fieldTime
	fieldTemp
	fieldDewPoint
	fieldWind
	fieldBaseAlt
	fieldTargetAlt
	fieldAge
	fieldLabel
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Distance",
	"Time",
	"Temperature °C",
	"Dew point °C",
	"Wind km/h",
	"Base altitude m",
	"Race altitude m",
	"Age",
	"Label",
}

var fieldPlaceholders = [fieldCount]string{
	"5k, 10k, half, 8000, 3.1mi",
	"20:00 or 1:35:10",
	"optional",
	"optional",
	"optional",
	"optional",
	"optional",
	"optional",
	"optional",
}

// FormSubmitMsg carries a parsed calculation request
type FormSubmitMsg struct {
	Request service.PaceRequest
	Age     int
}

// FormModel is the calculator input form
type FormModel struct {
	inputs  []textinput.Model
	focus   int
	editing bool
	err     error
}

// NewFormModel creates the input form with the first field focused
func NewFormModel() FormModel {
	m := FormModel{
		inputs:  make([]textinput.Model, fieldCount),
		editing: true,
	}

	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = fieldPlaceholders[i]
		in.CharLimit = 32
		in.Width = 30
		in.Prompt = ""
		m.inputs[i] = in
	}
	m.inputs[0].Focus()

	return m
}

// Init starts the cursor blinking
func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

// Editing reports whether the form is capturing keys
func (m FormModel) Editing() bool {
	return m.editing
}

// Prefill replaces the distance, time and label fields
func (m FormModel) Prefill(distanceMeters, timeSeconds float64, label string) FormModel {
	m.inputs[fieldDistance].SetValue(strconv.FormatFloat(distanceMeters, 'f', -1, 64))
	m.inputs[fieldTime].SetValue(service.FormatDuration(timeSeconds))
	m.inputs[fieldLabel].SetValue(label)
	return m
}

// Update handles messages
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.updateInputs(msg)
	}

	if !m.editing {
		if key.String() == "enter" || key.String() == "e" {
			m.editing = true
			return m, m.inputs[m.focus].Focus()
		}
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.editing = false
		m.inputs[m.focus].Blur()
		return m, nil
	case "tab", "down":
		return m, m.moveFocus(1)
	case "shift+tab", "up":
		return m, m.moveFocus(-1)
	case "enter":
		req, age, err := m.Request()
		m.err = err
		if err != nil {
			return m, nil
		}
		return m, func() tea.Msg { return FormSubmitMsg{Request: req, Age: age} }
	}

	return m, m.updateInputs(msg)
}

func (m *FormModel) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	return m.inputs[m.focus].Focus()
}

func (m *FormModel) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

// Request parses the form into a calculation request
func (m FormModel) Request() (service.PaceRequest, int, error) {
	var req service.PaceRequest

	dist, err := service.ParseDistance(m.value(fieldDistance))
	if err != nil {
		return req, 0, fmt.Errorf("distance: %w", err)
	}
	secs, err := service.ParseDuration(m.value(fieldTime))
	if err != nil {
		return req, 0, fmt.Errorf("time: %w", err)
	}
	req.DistanceMeters = dist
	req.TimeSeconds = secs
	req.Label = m.value(fieldLabel)

	optional := []struct {
		field int
		dst   **float64
	}{
		{fieldTemp, &req.TempC},
		{fieldDewPoint, &req.DewPointC},
		{fieldWind, &req.WindKmh},
		{fieldBaseAlt, &req.BaseAltitude},
		{fieldTargetAlt, &req.TargetAltitude},
	}
	for _, o := range optional {
		v, err := m.optionalFloat(o.field)
		if err != nil {
			return req, 0, err
		}
		*o.dst = v
	}

	age := 0
	if s := m.value(fieldAge); s != "" {
		age, err = strconv.Atoi(s)
		if err != nil || age <= 0 || age > 100 {
			return req, 0, fmt.Errorf("age: %q is not between 1 and 100", s)
		}
	}

	return req, age, nil
}

func (m FormModel) value(field int) string {
	return strings.TrimSpace(m.inputs[field].Value())
}

func (m FormModel) optionalFloat(field int) (*float64, error) {
	s := m.value(field)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", strings.ToLower(fieldLabels[field]), s)
	}
	return &v, nil
}

// View renders the form
func (m FormModel) View() string {
	var rows []string
	rows = append(rows, cardTitleStyle.Render("Time Trial"))

	for i, in := range m.inputs {
		label := metricLabelStyle.Render(fieldLabels[i])
		if i == m.focus && m.editing {
			label = navActiveStyle.Width(20).Render(fieldLabels[i])
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left, label, in.View()))

		// Visual break between the trial and the conditions
		if i == fieldTime || i == fieldTargetAlt {
			rows = append(rows, "")
		}
	}

	if m.err != nil {
		rows = append(rows, "", errorStyle.Render(m.err.Error()))
	}

	hint := "tab/shift+tab move  enter calculate  esc leave form"
	if !m.editing {
		hint = "enter or e to edit  ? help"
	}
	rows = append(rows, "", statusStyle.Render(hint))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
