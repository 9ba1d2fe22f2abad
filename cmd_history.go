package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pacecalc/internal/service"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved trials and their results",
	RunE:  runHistory,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved trial and its results",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of trials to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := setup(setupOptions{history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	entries, err := a.calc.History(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No saved trials. Use \"pacecalc paces --save\" or \"pacecalc import\".")
		return nil
	}

	t := newTable("ID", "When", "Label", "Distance", "Time", "VDOT", "Threshold", "Source")
	for _, e := range entries {
		vdot, threshold := "-", "-"
		if e.Result != nil {
			vdot = fmt.Sprintf("%.1f", e.Result.VDOT)
			threshold = a.units.FormatPaceWithUnit(e.Result.ThresholdPace)
		}
		t.Row(
			shortID(e.Trial.ID),
			humanize.Time(e.Trial.RecordedAt),
			e.Trial.Label,
			a.units.FormatDistance(e.Trial.DistanceMeters),
			service.FormatDuration(e.Trial.TimeSeconds),
			vdot,
			threshold,
			e.Trial.Source,
		)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	a, err := setup(setupOptions{history: true})
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := resolveTrialID(cmd, a, args[0])
	if err != nil {
		return err
	}
	if err := a.calc.DeleteTrial(cmd.Context(), id); err != nil {
		return err
	}

	a.log.Info().Str("trial_id", id).Msg("deleted trial")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	return nil
}

// resolveTrialID expands the short ID prefix shown by "history"
func resolveTrialID(cmd *cobra.Command, a *app, prefix string) (string, error) {
	entries, err := a.calc.History(cmd.Context(), 0)
	if err != nil {
		return "", err
	}

	var match string
	for _, e := range entries {
		if strings.HasPrefix(e.Trial.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = e.Trial.ID
		}
	}
	if match == "" {
		return prefix, nil
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
