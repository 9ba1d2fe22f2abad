package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"pacecalc/internal/analysis"
	"pacecalc/internal/service"
)

var pacesCmd = &cobra.Command{
	Use:   "paces",
	Short: "Training paces from a race, adjusted for conditions",
	Long: `Compute VDOT, training paces and race predictions from a recent race or time
trial. Heat (--temp and --dew-point), wind (--wind) and altitude (--base-alt
and --target-alt) adjustments are shown when their inputs are given.`,
	Example: `  pacecalc paces --distance 5k --time 20:00
  pacecalc paces -d 10k -t 42:30 --temp 28 --dew-point 19 --wind 15
  pacecalc paces -d half -t 1:32:00 --base-alt 0 --target-alt 1800 --save`,
	RunE: runPaces,
}

// Shared by commands that take a trial
var (
	trialDistance string
	trialTime     string
)

var pacesFlags struct {
	label     string
	temp      float64
	dewPoint  float64
	wind      float64
	weight    float64
	height    float64
	baseAlt   float64
	targetAlt float64
	save      bool
}

func addTrialFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&trialDistance, "distance", "d", "", "race distance: 5k, 10k, half, marathon, mile, or a number with km/mi/m (required)")
	cmd.Flags().StringVarP(&trialTime, "time", "t", "", "finish time as h:mm:ss, mm:ss or seconds (required)")
	cmd.MarkFlagRequired("distance")
	cmd.MarkFlagRequired("time")
}

func init() {
	rootCmd.AddCommand(pacesCmd)
	addTrialFlags(pacesCmd)

	f := pacesCmd.Flags()
	f.StringVar(&pacesFlags.label, "label", "", "label for the saved trial")
	f.Float64Var(&pacesFlags.temp, "temp", 0, "air temperature in °C")
	f.Float64Var(&pacesFlags.dewPoint, "dew-point", 0, "dew point in °C")
	f.Float64Var(&pacesFlags.wind, "wind", 0, "wind speed in km/h")
	f.Float64Var(&pacesFlags.weight, "weight", 0, "body weight in kg (defaults to runner.weight_kg)")
	f.Float64Var(&pacesFlags.height, "height", 0, "height in cm (defaults to runner.height_cm)")
	f.Float64Var(&pacesFlags.baseAlt, "base-alt", 0, "altitude the trial was run at, in meters")
	f.Float64Var(&pacesFlags.targetAlt, "target-alt", 0, "altitude to adjust paces for, in meters")
	f.BoolVar(&pacesFlags.save, "save", false, "save the trial and result to history")
}

// parseTrial reads --distance and --time
func parseTrial() (float64, float64, error) {
	dist, err := service.ParseDistance(trialDistance)
	if err != nil {
		return 0, 0, err
	}
	secs, err := service.ParseDuration(trialTime)
	if err != nil {
		return 0, 0, err
	}
	return dist, secs, nil
}

// optionalFloat returns a pointer to v when the flag was set
func optionalFloat(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func runPaces(cmd *cobra.Command, args []string) error {
	dist, secs, err := parseTrial()
	if err != nil {
		return err
	}

	a, err := setup(setupOptions{history: pacesFlags.save})
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.calc.Calculate(cmd.Context(), service.PaceRequest{
		Label:          pacesFlags.label,
		DistanceMeters: dist,
		TimeSeconds:    secs,
		TempC:          optionalFloat(cmd, "temp", pacesFlags.temp),
		DewPointC:      optionalFloat(cmd, "dew-point", pacesFlags.dewPoint),
		WindKmh:        optionalFloat(cmd, "wind", pacesFlags.wind),
		WeightKg:       pacesFlags.weight,
		HeightCm:       pacesFlags.height,
		BaseAltitude:   optionalFloat(cmd, "base-alt", pacesFlags.baseAlt),
		TargetAltitude: optionalFloat(cmd, "target-alt", pacesFlags.targetAlt),
		Save:           pacesFlags.save,
	})
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), a.units, dist, secs, report)
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

// newTable returns a table styled for terminal output
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

var zoneNames = map[string]string{
	analysis.ZoneP1Min:     "1 min",
	analysis.ZoneP3Min:     "3 min",
	analysis.ZoneP6Min:     "6 min",
	analysis.ZoneP10Min:    "10 min",
	analysis.ZoneThreshold: "Threshold",
	analysis.ZoneEasy:      "Easy",
}

func printReport(w io.Writer, units service.Units, dist, secs float64, report *service.PaceReport) {
	fmt.Fprintf(w, "%s %s in %s\n", titleStyle.Render("Trial:"), units.FormatDistance(dist), service.FormatDuration(secs))
	fmt.Fprintf(w, "%s %.1f   %s %s\n\n",
		titleStyle.Render("VDOT:"), report.VDOT,
		titleStyle.Render("5K equivalent:"), service.FormatDuration(report.Predicted5KSeconds))

	type column struct {
		title string
		adj   *analysis.EnvironmentAdjustment
	}
	cols := []column{{title: "Base"}}
	for _, c := range []column{
		{"Heat", report.Heat},
		{"Headwind", report.Headwind},
		{"Tailwind", report.Tailwind},
		{"Altitude", report.Altitude},
	} {
		if c.adj != nil {
			cols = append(cols, c)
		}
	}

	headers := []string{"Zone (/" + units.PaceLabel() + ")"}
	for _, c := range cols {
		headers = append(headers, c.title)
	}
	t := newTable(headers...)

	for _, zone := range analysis.ZoneOrder {
		row := []string{zoneNames[zone]}
		for _, c := range cols {
			paces := report.Paces
			if c.adj != nil {
				paces = c.adj.Paces
			}
			row = append(row, units.FormatPace(paces.Zones()[zone]))
		}
		t.Row(row...)
	}
	if len(cols) > 1 {
		row := []string{"Impact", "-"}
		for _, c := range cols[1:] {
			row = append(row, service.FormatImpact(c.adj.ImpactPercent))
		}
		t.Row(row...)
	}
	fmt.Fprintln(w, t.Render())

	if len(report.Predictions) > 0 {
		pt := newTable("Race", "Time", "Pace", "Confidence")
		for _, p := range report.Predictions {
			pt.Row(
				p.TargetName,
				service.FormatDuration(float64(p.PredictedSeconds)),
				units.FormatPaceWithUnit(p.PredictedPace),
				p.Confidence,
			)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Predictions"))
		fmt.Fprintln(w, pt.Render())
	}

	if report.TrialID != "" {
		fmt.Fprintf(w, "\nSaved as %s\n", report.TrialID)
	}
}
