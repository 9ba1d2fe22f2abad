package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"pacecalc/internal/analysis"
	"pacecalc/internal/service"
)

// zoneLabels names the pace zones in the results table
var zoneLabels = map[string]string{
	analysis.ZoneP1Min:     "1 min",
	analysis.ZoneP3Min:     "3 min",
	analysis.ZoneP6Min:     "6 min",
	analysis.ZoneP10Min:    "10 min",
	analysis.ZoneThreshold: "Threshold",
	analysis.ZoneEasy:      "Easy",
}

// Calculation is everything the results screen shows for one request
type Calculation struct {
	Request   service.PaceRequest
	Report    *service.PaceReport
	AgeGrade  *analysis.AgeGradeResult
	Ranges    *analysis.TrainingRanges
	HeatCurve []service.HeatPoint
}

// ResultsModel shows a calculation in a scrollable viewport
type ResultsModel struct {
	units    service.Units
	calc     *Calculation
	viewport viewport.Model
	ready    bool
}

// NewResultsModel creates an empty results screen
func NewResultsModel(units service.Units, width, height int) ResultsModel {
	m := ResultsModel{units: units}
	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}
	return m
}

// SetCalculation replaces the displayed calculation
func (m ResultsModel) SetCalculation(c *Calculation) ResultsModel {
	m.calc = c
	if m.ready {
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
	}
	return m
}

// Init initializes the results screen
func (m ResultsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the results screen
func (m ResultsModel) View() string {
	if m.calc == nil {
		return "\n  No calculation yet. Press '1' and fill in a time trial."
	}
	if !m.ready {
		return m.renderContent()
	}
	return m.viewport.View()
}

func (m ResultsModel) renderContent() string {
	if m.calc == nil || m.calc.Report == nil {
		return ""
	}

	sections := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderSummary(), "  ", m.renderPredictions()),
		m.renderPaces(),
	}
	if r := m.calc.Ranges; r != nil {
		sections = append(sections, m.renderRanges(r))
	}
	if len(m.calc.HeatCurve) > 1 {
		sections = append(sections, m.renderHeatChart())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ResultsModel) renderSummary() string {
	rep := m.calc.Report
	req := m.calc.Request

	lines := []string{
		cardTitleStyle.Render("Performance"),
		RenderMetric("Trial", m.units.FormatDistance(req.DistanceMeters)+" in "+service.FormatDuration(req.TimeSeconds), ""),
		RenderMetric("VDOT", fmt.Sprintf("%.1f", rep.VDOT), ""),
		RenderMetric("5K equivalent", service.FormatDuration(rep.Predicted5KSeconds), ""),
	}

	if ag := m.calc.AgeGrade; ag != nil {
		lines = append(lines,
			RenderMetric("Age grade", fmt.Sprintf("%.1f%%", ag.Score), ag.Class.String()),
			RenderMetric("Age-graded time", service.FormatDuration(ag.AgeGradedTimeSeconds), ""),
		)
	}

	return cardStyle.Width(44).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m ResultsModel) renderPredictions() string {
	lines := []string{cardTitleStyle.Render("Equivalent Races")}

	preds := m.calc.Report.Predictions
	if len(preds) == 0 {
		lines = append(lines, statusStyle.Render("No predictions"))
	}
	for _, p := range preds {
		lines = append(lines, RenderMetric(p.TargetName, service.FormatDuration(float64(p.PredictedSeconds)), m.units.FormatPaceWithUnit(p.PredictedPace)))
	}

	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderPaces renders a zone x condition table. Only active conditions get a column.
func (m ResultsModel) renderPaces() string {
	rep := m.calc.Report

	type column struct {
		title string
		adj   *analysis.EnvironmentAdjustment
	}
	cols := []column{{title: "Base"}}
	for _, c := range []column{
		{"Heat", rep.Heat},
		{"Headwind", rep.Headwind},
		{"Tailwind", rep.Tailwind},
		{"Altitude", rep.Altitude},
	} {
		if c.adj != nil {
			cols = append(cols, c)
		}
	}

	var header strings.Builder
	fmt.Fprintf(&header, "%-10s", "Zone")
	for _, c := range cols {
		fmt.Fprintf(&header, "  %10s", c.title)
	}
	rows := []string{tableHeaderStyle.Render(header.String())}

	for _, zone := range analysis.ZoneOrder {
		var row strings.Builder
		fmt.Fprintf(&row, "%-10s", zoneLabels[zone])
		for _, c := range cols {
			paces := rep.Paces
			if c.adj != nil {
				paces = c.adj.Paces
			}
			fmt.Fprintf(&row, "  %10s", m.units.FormatPace(paces.Zones()[zone]))
		}
		rows = append(rows, tableRowStyle.Render(row.String()))
	}

	var impacts strings.Builder
	fmt.Fprintf(&impacts, "%-10s", "Impact")
	for _, c := range cols {
		cell := fmt.Sprintf("  %10s", "-")
		if c.adj != nil {
			cell = impactStyle(c.adj.ImpactPercent).Render(fmt.Sprintf("  %10s", service.FormatImpact(c.adj.ImpactPercent)))
		}
		impacts.WriteString(cell)
	}
	rows = append(rows, tableRowStyle.Render(impacts.String()))

	title := cardTitleStyle.Render("Training Paces (per " + m.units.PaceLabel() + ")")
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (m ResultsModel) renderRanges(r *analysis.TrainingRanges) string {
	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %8s  %8s  %17s", "Zone", "Safe", "Median", "Range"))
	rows := []string{header}

	for _, zone := range analysis.RangeZones {
		z, _ := r.Zone(zone)
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %8s  %8s  %8s-%-8s",
			zone,
			m.units.FormatPace(z.SafeSecPerKm),
			m.units.FormatPace(z.MedianSecPerKm),
			m.units.FormatPace(z.RangeFastSecPerKm),
			m.units.FormatPace(z.RangeSlowSecPerKm),
		)))
	}

	title := cardTitleStyle.Render("Training Ranges")
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (m ResultsModel) renderHeatChart() string {
	curve := m.calc.HeatCurve
	impacts := make([]float64, len(curve))
	for i, p := range curve {
		impacts[i] = p.ImpactPercent
	}

	graph := asciigraph.Plot(impacts,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("threshold slowdown %% from %.0f°C to %.0f°C", curve[0].TempC, curve[len(curve)-1].TempC)),
	)

	title := cardTitleStyle.Render("Heat Impact")
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}
