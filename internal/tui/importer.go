package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pacecalc/internal/service"
)

// ImportModel is the Strava import screen
type ImportModel struct {
	importer  *service.ImportService
	importing bool
	progress  service.ImportProgress
	result    *service.ImportResult
	err       error
	done      bool
}

// NewImportModel creates the import screen. importer is nil when Strava
// is not connected.
func NewImportModel(importer *service.ImportService) ImportModel {
	return ImportModel{importer: importer}
}

// Init initializes the import screen
func (m ImportModel) Init() tea.Cmd {
	return nil
}

// ImportDoneMsg is sent when an import finishes
type ImportDoneMsg struct {
	Result *service.ImportResult
	Err    error
}

type importProgressMsg struct {
	progress service.ImportProgress
	ch       <-chan service.ImportProgress
}

// Busy reports whether an import is running
func (m ImportModel) Busy() bool {
	return m.importing
}

// Update handles messages
func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case importProgressMsg:
		m.progress = msg.progress
		return m, waitForProgress(msg.ch)

	case ImportDoneMsg:
		m.importing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err

	case tea.KeyMsg:
		if m.importing || m.importer == nil {
			return m, nil
		}
		switch msg.String() {
		case "enter", "i":
			m.importing = true
			m.done = false
			m.err = nil
			m.result = nil
			m.progress = service.ImportProgress{}

			ch := make(chan service.ImportProgress)
			return m, tea.Batch(m.runImport(ch), waitForProgress(ch))
		}
	}
	return m, nil
}

func (m ImportModel) runImport(ch chan service.ImportProgress) tea.Cmd {
	importer := m.importer
	return func() tea.Msg {
		result, err := importer.Import(context.Background(), ch)
		return ImportDoneMsg{Result: result, Err: err}
	}
}

// waitForProgress reads one progress update; the channel is closed when
// the import returns
func waitForProgress(ch <-chan service.ImportProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return importProgressMsg{progress: p, ch: ch}
	}
}

// View renders the import screen
func (m ImportModel) View() string {
	sections := []string{cardTitleStyle.Render("Strava Import")}

	switch {
	case m.importer == nil:
		sections = append(sections,
			"\n  Strava is not connected.",
			statusStyle.Render("  Run 'pacecalc import' once from the command line to authorize."))
	case m.err != nil:
		sections = append(sections,
			errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)),
			"\n"+statusStyle.Render("  Press 'i' or Enter to retry"))
	case m.importing:
		sections = append(sections, m.renderProgress())
	case m.done:
		sections = append(sections, successStyle.Render("\n  Import complete!"), m.renderSummary())
	default:
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ImportModel) renderStartPrompt() string {
	lines := []string{
		"",
		"  Import recent Strava runs as time trials:",
		"",
		"  1. Fetch activities since the last import",
		"  2. Keep runs within 5% of a standard race distance",
		"  3. Load the fastest one into the calculator",
		"",
		statusStyle.Render("  Press 'i' or Enter to start"),
	}
	return strings.Join(lines, "\n")
}

func (m ImportModel) renderProgress() string {
	lines := []string{"", "  Importing from Strava..."}
	if m.progress.Fetched > 0 {
		lines = append(lines, fmt.Sprintf("  %d activities fetched", m.progress.Fetched))
	}
	if m.progress.Saved > 0 {
		lines = append(lines, fmt.Sprintf("  %d new trials saved", m.progress.Saved))
	}
	return strings.Join(lines, "\n")
}

func (m ImportModel) renderSummary() string {
	r := m.result
	if r == nil {
		return ""
	}

	lines := []string{"", fmt.Sprintf("  %d activities fetched, %d runs at race distances", r.ActivitiesFetched, r.RunsMatched)}
	if r.TrialsSaved > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d new trials saved", r.TrialsSaved)))
	} else {
		lines = append(lines, statusStyle.Render("  No new trials"))
	}
	if r.Best != nil {
		lines = append(lines, "", fmt.Sprintf("  Fastest: %s, VDOT %.1f (loaded into the calculator)", r.Best.Label, r.BestVDOT))
	}
	if len(r.Errors) > 0 {
		lines = append(lines, "", warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
	}
	return strings.Join(lines, "\n")
}
