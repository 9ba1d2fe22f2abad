package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pacecalc/internal/analysis"
)

var wbgtCmd = &cobra.Command{
	Use:     "wbgt",
	Short:   "Estimate wet-bulb globe temperature and the race flag",
	Example: `  pacecalc wbgt --temp 30 --dew-point 20 --wind 10 --solar 800`,
	RunE:    runWBGT,
}

var wbgtFlags analysis.WBGTInput

func init() {
	rootCmd.AddCommand(wbgtCmd)
	f := wbgtCmd.Flags()
	f.Float64Var(&wbgtFlags.TempC, "temp", 0, "air temperature in °C (required)")
	f.Float64Var(&wbgtFlags.DewPointC, "dew-point", 0, "dew point in °C (required)")
	f.Float64Var(&wbgtFlags.WindKmh, "wind", 0, "wind speed in km/h")
	f.Float64Var(&wbgtFlags.SolarWm2, "solar", 0, "solar radiation in W/m² (0 for night or full shade)")
	wbgtCmd.MarkFlagRequired("temp")
	wbgtCmd.MarkFlagRequired("dew-point")
}

func runWBGT(cmd *cobra.Command, args []string) error {
	a, err := setup(setupOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	res := a.calc.WBGT(wbgtFlags)

	t := newTable("WBGT", "Wet bulb", "Globe", "Humidity", "Flag")
	t.Row(
		fmt.Sprintf("%.1f °C", res.WBGT),
		fmt.Sprintf("%.1f °C", res.WetBulb),
		fmt.Sprintf("%.1f °C", res.GlobeTemp),
		fmt.Sprintf("%.0f%%", res.HumidityPct),
		res.Flag.String(),
	)
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
