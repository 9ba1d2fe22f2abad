package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pacecalc/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenCalculator Screen = iota
	ScreenResults
	ScreenHistory
	ScreenImport
	ScreenHelp
)

// Heat chart range (°C) and the dew point used when none was entered
const (
	heatChartFrom     = 0
	heatChartTo       = 40
	heatChartStep     = 2
	heatChartDewPoint = 10
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	form         FormModel
	results      ResultsModel
	history      HistoryModel
	importScreen ImportModel
	help         HelpModel

	calc  *service.CalculatorService
	units service.Units

	width  int
	height int

	status string
}

// NewApp creates the app. importer may be nil when Strava is not connected.
func NewApp(calc *service.CalculatorService, importer *service.ImportService, units service.Units) *App {
	return &App{
		screen:       ScreenCalculator,
		calc:         calc,
		units:        units,
		form:         NewFormModel(),
		results:      NewResultsModel(units, 0, 0),
		history:      NewHistoryModel(calc, units),
		importScreen: NewImportModel(importer),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.form.Init()
}

// calculatedMsg carries a finished calculation or its error
type calculatedMsg struct {
	calc *Calculation
	err  error
}

// capturesKeys reports whether the current screen needs every key press
func (a *App) capturesKeys() bool {
	switch a.screen {
	case ScreenCalculator:
		return a.form.Editing()
	case ScreenImport:
		return a.importScreen.Busy()
	}
	return false
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.capturesKeys() {
			switch msg.String() {
			case "q":
				return a, tea.Quit
			case "1":
				a.screen = ScreenCalculator
				return a, nil
			case "2":
				a.screen = ScreenResults
				return a, nil
			case "3":
				a.screen = ScreenHistory
				a.history.loading = true
				return a, a.history.Init()
			case "4":
				a.screen = ScreenImport
				return a, a.importScreen.Init()
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				if a.screen == ScreenHelp {
					a.screen = a.prevScreen
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		m, cmd := a.results.Update(msg)
		a.results = m.(ResultsModel)
		return a, cmd

	case FormSubmitMsg:
		a.status = "Calculating..."
		return a, a.calculate(msg)

	case calculatedMsg:
		if msg.err != nil {
			a.status = "Error: " + msg.err.Error()
			return a, nil
		}
		a.status = ""
		if msg.calc.Report.TrialID != "" {
			a.status = "Saved to history"
		}
		a.results = a.results.SetCalculation(msg.calc)
		a.screen = ScreenResults
		return a, nil

	case HistorySelectMsg:
		a.form = a.form.Prefill(msg.Trial.DistanceMeters, msg.Trial.TimeSeconds, msg.Trial.Label)
		a.screen = ScreenCalculator
		return a, nil

	case ImportDoneMsg:
		if msg.Err == nil && msg.Result != nil && msg.Result.Best != nil {
			best := msg.Result.Best
			a.form = a.form.Prefill(best.DistanceMeters, best.TimeSeconds, best.Label)
			a.status = "Loaded " + best.Label + " into the calculator"
		}
	}

	var cmd tea.Cmd
	var m tea.Model
	switch a.screen {
	case ScreenCalculator:
		m, cmd = a.form.Update(msg)
		a.form = m.(FormModel)
	case ScreenResults:
		m, cmd = a.results.Update(msg)
		a.results = m.(ResultsModel)
	case ScreenHistory:
		m, cmd = a.history.Update(msg)
		a.history = m.(HistoryModel)
	case ScreenImport:
		m, cmd = a.importScreen.Update(msg)
		a.importScreen = m.(ImportModel)
	case ScreenHelp:
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	// Import progress keeps flowing while another screen is shown
	if a.screen != ScreenImport {
		switch msg.(type) {
		case importProgressMsg, ImportDoneMsg:
			m, cmd = a.importScreen.Update(msg)
			a.importScreen = m.(ImportModel)
		}
	}

	return a, cmd
}

// calculate runs the engine off the UI goroutine
func (a *App) calculate(sub FormSubmitMsg) tea.Cmd {
	calc := a.calc
	return func() tea.Msg {
		req := sub.Request
		req.Save = calc.HasHistory()

		report, err := calc.Calculate(context.Background(), req)
		if err != nil {
			return calculatedMsg{err: err}
		}

		c := &Calculation{Request: req, Report: report}

		// Age grade and ranges are extras; a missing profile just hides them
		if ag, err := calc.AgeGrade(service.AgeGradeRequest{
			DistanceMeters: req.DistanceMeters,
			TimeSeconds:    req.TimeSeconds,
			Age:            sub.Age,
		}); err == nil {
			c.AgeGrade = ag
		}
		if ranges, err := calc.TrainingRanges(req.DistanceMeters, req.TimeSeconds, float64(sub.Age)); err == nil {
			c.Ranges = ranges
		}

		dew := float64(heatChartDewPoint)
		if req.DewPointC != nil {
			dew = *req.DewPointC
		}
		c.HeatCurve = calc.HeatCurve(report.Paces.Threshold, dew, heatChartFrom, heatChartTo, heatChartStep)

		return calculatedMsg{calc: c}
	}
}

// View renders the app
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenCalculator:
		content = a.form.View()
	case ScreenResults:
		content = a.results.View()
	case ScreenHistory:
		content = a.history.View()
	case ScreenImport:
		content = a.importScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, a.renderHeader(), a.renderNav(), content, a.renderFooter())
}

func (a *App) renderHeader() string {
	return headerStyle.Render("pacecalc - pace and race-day conditions")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Calculator", ScreenCalculator},
		{"2", "Results", ScreenResults},
		{"3", "History", ScreenHistory},
		{"4", "Import", ScreenImport},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		if a.screen == item.screen {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}
