package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"pacecalc/internal/analysis"
	"pacecalc/internal/config"
	"pacecalc/internal/logging"
	"pacecalc/internal/service"
	"pacecalc/internal/store"
	"pacecalc/internal/tables"
)

var (
	configPath string
	logLevel   string
	noHistory  bool
)

var rootCmd = &cobra.Command{
	Use:   "pacecalc",
	Short: "Running pace and race-day conditions calculator",
	Long: `pacecalc turns a recent race or time trial into training paces and adjusts
them for heat, wind and altitude. It also grades performances by age,
estimates WBGT and can import recent races from Strava.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.pacecalc/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not open the history database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is what every command needs once the config is loaded
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *store.Store // nil with --no-history
	calc  *service.CalculatorService
	units service.Units

	closers []io.Closer
}

// setupOptions says which parts of the app a command needs
type setupOptions struct {
	history bool // open the history database
	console bool // mirror logs to stderr
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func setup(opts setupOptions) (*app, error) {
	cfg, err := loadConfig()
	if errors.Is(err, config.ErrNoConfig) {
		return nil, fmt.Errorf("%w (check --config or %s, or run \"pacecalc init\")", err, config.EnvConfigPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	configDir, err := config.GetConfigDir()
	if err != nil {
		return nil, err
	}
	logger, logCloser := logging.Setup(configDir, logging.Options{
		Level:   level,
		File:    cfg.Log.File,
		Console: opts.console,
	})

	a := &app{
		cfg:     cfg,
		log:     logger,
		units:   service.NewUnits(cfg.Display),
		closers: []io.Closer{logCloser},
	}

	tbl, err := tables.Load(cfg.Tables)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("loading tables: %w", err)
	}

	if opts.history && !noHistory {
		st, err := store.OpenDefault()
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.store = st
		a.closers = append(a.closers, st)
	}

	a.calc = service.NewCalculatorService(analysis.NewEngine(tbl), a.store, cfg.Runner, logger)

	logger.Debug().
		Bool("history", a.store != nil).
		Str("distance_unit", cfg.Display.DistanceUnit).
		Msg("pacecalc started")

	return a, nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing resource")
		}
	}
}
