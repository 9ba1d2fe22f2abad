package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pacecalc/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, created, err := config.CreateExample()
		if err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}

		w := cmd.OutOrStdout()
		if !created {
			fmt.Fprintf(w, "Config already exists at %s\n", path)
			return nil
		}

		fmt.Fprintf(w, "Wrote example config to %s\n\n", path)
		fmt.Fprintln(w, "Edit the runner section with your weight, height, age and gender.")
		fmt.Fprintln(w, "To import races from Strava, add your API credentials from:")
		fmt.Fprintln(w, "  https://www.strava.com/settings/api")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
