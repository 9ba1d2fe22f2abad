package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pacecalc/internal/service"
)

var agegradeCmd = &cobra.Command{
	Use:   "agegrade",
	Short: "Grade a performance against age and gender standards",
	Example: `  pacecalc agegrade -d 5k -t 20:00 --age 40 --gender M
  pacecalc agegrade -d marathon -t 3:15:00`,
	RunE: runAgeGrade,
}

var agegradeFlags struct {
	age    int
	gender string
}

func init() {
	rootCmd.AddCommand(agegradeCmd)
	addTrialFlags(agegradeCmd)
	agegradeCmd.Flags().IntVar(&agegradeFlags.age, "age", 0, "age in years (defaults to runner.age)")
	agegradeCmd.Flags().StringVar(&agegradeFlags.gender, "gender", "", "M or F (defaults to runner.gender)")
}

func runAgeGrade(cmd *cobra.Command, args []string) error {
	dist, secs, err := parseTrial()
	if err != nil {
		return err
	}

	a, err := setup(setupOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.calc.AgeGrade(service.AgeGradeRequest{
		DistanceMeters: dist,
		TimeSeconds:    secs,
		Age:            agegradeFlags.age,
		Gender:         agegradeFlags.gender,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	t := newTable("Score", "Class", "Age-graded time", "Factor", "Table")
	t.Row(
		fmt.Sprintf("%.2f%%", res.Score),
		res.Class.String(),
		service.FormatDuration(res.AgeGradedTimeSeconds),
		fmt.Sprintf("%.4f", res.UsedFactor),
		res.TableName,
	)
	fmt.Fprintln(w, t.Render())
	return nil
}
