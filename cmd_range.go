package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pacecalc/internal/analysis"
)

var rangeCmd = &cobra.Command{
	Use:     "range",
	Aliases: []string{"ranges"},
	Short:   "Population-based training pace ranges",
	Long: `Estimate safe, median and typical pace ranges for threshold, critical
velocity and VO2max sessions from a race result and age.`,
	Example: `  pacecalc range -d 5k -t 20:00 --age 35`,
	RunE:    runRange,
}

var rangeAge float64

func init() {
	rootCmd.AddCommand(rangeCmd)
	addTrialFlags(rangeCmd)
	rangeCmd.Flags().Float64Var(&rangeAge, "age", 0, "age in years (defaults to runner.age)")
}

var rangeZoneNames = map[string]string{
	analysis.RangeZoneThreshold: "Threshold",
	analysis.RangeZoneCV:        "CV",
	analysis.RangeZoneVO2Max:    "VO2max",
}

func runRange(cmd *cobra.Command, args []string) error {
	dist, secs, err := parseTrial()
	if err != nil {
		return err
	}

	a, err := setup(setupOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	ranges, err := a.calc.TrainingRanges(dist, secs, rangeAge)
	if err != nil {
		return err
	}

	u := a.units
	t := newTable("Zone (/"+u.PaceLabel()+")", "Safe", "Median", "Range")
	for _, zone := range analysis.RangeZones {
		z, _ := ranges.Zone(zone)
		t.Row(
			rangeZoneNames[zone],
			u.FormatPace(z.SafeSecPerKm),
			u.FormatPace(z.MedianSecPerKm),
			u.FormatPace(z.RangeFastSecPerKm)+" - "+u.FormatPace(z.RangeSlowSecPerKm),
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
