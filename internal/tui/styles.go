package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#2563EB")
	calm    = lipgloss.Color("#10B981")
	caution = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#DC2626")
	subtle  = lipgloss.Color("#6B7280")
	bright  = lipgloss.Color("#F9FAFB")
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(bright).Background(accent).
			Padding(0, 1).MarginBottom(1)

	navStyle         = lipgloss.NewStyle().Foreground(subtle).MarginBottom(1)
	navActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	navInactiveStyle = lipgloss.NewStyle().Foreground(subtle)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(1, 2)
	cardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)

	metricLabelStyle = lipgloss.NewStyle().Foreground(subtle).Width(20)
	metricValueStyle = lipgloss.NewStyle().Bold(true).Foreground(bright)
	noteStyle        = lipgloss.NewStyle().Foreground(subtle)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	tableRowStyle    = lipgloss.NewStyle().Padding(0, 1)
	// selected history row
	tableSelectedStyle = lipgloss.NewStyle().Bold(true).
				Foreground(bright).Background(accent).
				Padding(0, 1)

	statusStyle  = lipgloss.NewStyle().Foreground(subtle).MarginTop(1)
	errorStyle   = lipgloss.NewStyle().Foreground(danger)
	successStyle = lipgloss.NewStyle().Foreground(calm)
	warningStyle = lipgloss.NewStyle().Foreground(caution)

	helpKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	helpDescStyle = lipgloss.NewStyle().Foreground(subtle)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(calm)
)

// impactStyle colors a pace impact: slowdowns of 3% or more are red, any
// other slowdown amber, and speedups green.
func impactStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 3:
		return errorStyle
	case percent > 0:
		return warningStyle
	case percent < 0:
		return successStyle
	default:
		return noteStyle
	}
}

// RenderMetric renders "label  value note" on one line
func RenderMetric(label, value, note string) string {
	if note != "" {
		note = " " + note
	}
	return lipgloss.JoinHorizontal(lipgloss.Left,
		metricLabelStyle.Render(label),
		metricValueStyle.Render(value),
		noteStyle.Render(note),
	)
}

// RenderKeyHelp renders a key binding help item
func RenderKeyHelp(key, desc string) string {
	return helpKeyStyle.Render(key) + " " + helpDescStyle.Render(desc)
}
