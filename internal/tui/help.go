package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

type keyHelp struct {
	key  string
	desc string
}

// View renders the help screen
func (m HelpModel) View() string {
	sections := []string{
		cardTitleStyle.Render("Keyboard Shortcuts"),
		m.renderSection("Navigation", []keyHelp{
			{"1", "Calculator"},
			{"2", "Results"},
			{"3", "History"},
			{"4", "Strava import"},
			{"?", "Help (this screen)"},
			{"q", "Quit"},
			{"esc", "Leave the form / close help"},
		}),
		m.renderSection("Calculator", []keyHelp{
			{"tab / shift+tab", "Next / previous field"},
			{"enter", "Calculate"},
			{"e", "Edit the form again"},
		}),
		m.renderSection("Results", []keyHelp{
			{"j / k", "Scroll"},
		}),
		m.renderSection("History", []keyHelp{
			{"j / k", "Move cursor"},
			{"enter", "Load trial into the calculator"},
			{"d", "Delete trial"},
			{"r", "Refresh"},
		}),
		m.renderTermsHelp(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	lines := []string{"", sectionStyle.Render(title)}
	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}
	return strings.Join(lines, "\n")
}

func (m HelpModel) renderTermsHelp() string {
	lines := []string{"", sectionStyle.Render("Terms"), ""}

	terms := []struct {
		name string
		desc string
	}{
		{"VDOT", "Daniels' fitness index from one race. Higher is fitter."},
		{"Threshold", "Pace you could hold for about an hour."},
		{"1/3/6/10 min", "Pace you could hold all-out for that long."},
		{"Heat impact", "Slowdown from temperature and humidity (dew point)."},
		{"Wind impact", "Head- and tailwind effect, needs your weight."},
		{"Age grade", "Your time as a percent of the age/gender standard."},
		{"Training ranges", "Typical paces runners at your level train at."},
	}

	for _, t := range terms {
		lines = append(lines, "  "+helpKeyStyle.Render(t.name))
		lines = append(lines, "  "+helpDescStyle.Render(t.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
