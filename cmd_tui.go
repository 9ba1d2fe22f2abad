package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"pacecalc/internal/service"
	"pacecalc/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive calculator",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := setup(setupOptions{history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	// The import screen is only offered once Strava is connected
	var importer *service.ImportService
	if a.store != nil {
		client, err := newStravaClient(cmd.Context(), a, false)
		if err == nil {
			importer = service.NewImportService(client, a.store, a.log)
		} else {
			a.log.Debug().Err(err).Msg("strava import disabled")
		}
	}

	p := tea.NewProgram(tui.NewApp(a.calc, importer, a.units), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
