package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"pacecalc/internal/service"
	"pacecalc/internal/store"
)

const historyLimit = 50

// HistoryModel lists saved trials with their latest results
type HistoryModel struct {
	calc    *service.CalculatorService
	units   service.Units
	entries []store.HistoryEntry
	cursor  int
	loading bool
	err     error
	now     func() time.Time
}

// NewHistoryModel creates a history screen
func NewHistoryModel(calc *service.CalculatorService, units service.Units) HistoryModel {
	return HistoryModel{
		calc:    calc,
		units:   units,
		loading: true,
		now:     time.Now,
	}
}

type historyLoadedMsg struct {
	entries []store.HistoryEntry
	err     error
}

// HistorySelectMsg asks the app to load a trial into the form
type HistorySelectMsg struct {
	Trial store.TimeTrial
}

// Init loads the history
func (m HistoryModel) Init() tea.Cmd {
	return m.load
}

func (m HistoryModel) load() tea.Msg {
	entries, err := m.calc.History(context.Background(), historyLimit)
	return historyLoadedMsg{entries: entries, err: err}
}

func (m HistoryModel) deleteSelected() tea.Msg {
	id := m.entries[m.cursor].Trial.ID
	if err := m.calc.DeleteTrial(context.Background(), id); err != nil {
		return historyLoadedMsg{err: err}
	}
	return m.load()
}

// Update handles messages
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.entries = msg.entries
		if m.cursor >= len(m.entries) {
			m.cursor = max(0, len(m.entries)-1)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.load
		case "d", "delete":
			if len(m.entries) > 0 {
				m.loading = true
				return m, m.deleteSelected
			}
		case "enter":
			if len(m.entries) > 0 {
				trial := m.entries[m.cursor].Trial
				return m, func() tea.Msg { return HistorySelectMsg{Trial: trial} }
			}
		}
	}
	return m, nil
}

// View renders the history list
func (m HistoryModel) View() string {
	if m.loading {
		return "\n  Loading history..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if len(m.entries) == 0 {
		return "\n  No saved trials yet. Calculations from the form are saved here."
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-14s  %-22s  %10s  %8s  %6s  %9s",
		"When", "Label", "Distance", "Time", "VDOT", "Threshold"))
	rows := []string{header}

	for i, e := range m.entries {
		vdot, threshold := "-", "-"
		if e.Result != nil {
			vdot = fmt.Sprintf("%.1f", e.Result.VDOT)
			threshold = m.units.FormatPace(e.Result.ThresholdPace)
		}

		label := e.Trial.Label
		if label == "" {
			label = e.Trial.Source
		}

		line := fmt.Sprintf("%-14s  %-22s  %10s  %8s  %6s  %9s",
			humanize.RelTime(e.Trial.RecordedAt, m.now(), "ago", "from now"),
			truncateName(label, 22),
			m.units.FormatDistance(e.Trial.DistanceMeters),
			service.FormatDuration(e.Trial.TimeSeconds),
			vdot,
			threshold,
		)

		if i == m.cursor {
			rows = append(rows, tableSelectedStyle.Render(line))
		} else {
			rows = append(rows, tableRowStyle.Render(line))
		}
	}

	title := cardTitleStyle.Render(fmt.Sprintf("History (%d)", len(m.entries)))
	help := statusStyle.Render("j/k move  enter load into form  d delete  r refresh")

	return lipgloss.JoinVertical(lipgloss.Left, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...))), help)
}

func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
