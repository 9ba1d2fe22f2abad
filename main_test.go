package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pacecalc/internal/config"
)

// execute runs the root command with args in a throwaway home directory
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvConfigPath, "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPacesCommand(t *testing.T) {
	out, err := execute(t, "paces", "--no-history", "-d", "5k", "-t", "20:00", "--temp", "30", "--dew-point", "20")
	require.NoError(t, err)

	assert.Contains(t, out, "VDOT:")
	assert.Contains(t, out, "49.8")
	assert.Contains(t, out, "Threshold")
	assert.Contains(t, out, "Heat")
	assert.Contains(t, out, "+5.1%")
	assert.Contains(t, out, "marathon")
	assert.NotContains(t, out, "Altitude")
}

func TestAgeGradeCommand(t *testing.T) {
	out, err := execute(t, "agegrade", "-d", "5k", "-t", "20:00", "--age", "40", "--gender", "M")
	require.NoError(t, err)

	assert.Contains(t, out, "68.57%")
	assert.Contains(t, out, "Local")
}

func TestRangeCommand(t *testing.T) {
	out, err := execute(t, "range", "-d", "5k", "-t", "20:00", "--age", "25")
	require.NoError(t, err)

	assert.Contains(t, out, "Threshold")
	assert.Contains(t, out, "CV")
	assert.Contains(t, out, "VO2max")
}

func TestWBGTCommand(t *testing.T) {
	out, err := execute(t, "wbgt", "--temp", "30", "--dew-point", "20", "--wind", "10", "--solar", "800")
	require.NoError(t, err)

	assert.Contains(t, out, "26.4 °C")
	assert.Contains(t, out, "red")
}

func TestPacesCommand_BadInput(t *testing.T) {
	_, err := execute(t, "paces", "--no-history", "-d", "far", "-t", "20:00")
	assert.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(".pacecalc", "config.yaml"))
}
