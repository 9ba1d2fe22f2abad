package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	appDirName     = ".pacecalc"
	configFileName = "config.yaml"

	// EnvPrefix prefixes every environment override. Nested keys use a
	// double underscore: PACECALC_RUNNER__WEIGHT_KG sets runner.weight_kg.
	EnvPrefix = "PACECALC_"
	// EnvConfigPath points Load at a config file other than the default
	EnvConfigPath = "PACECALC_CONFIG"
)

// Config represents the application configuration
type Config struct {
	Runner  RunnerConfig  `koanf:"runner" yaml:"runner"`
	Display DisplayConfig `koanf:"display" yaml:"display"`
	Tables  TablesConfig  `koanf:"tables" yaml:"tables"`
	Log     LogConfig     `koanf:"log" yaml:"log"`
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Strava  StravaConfig  `koanf:"strava" yaml:"strava"`
}

// RunnerConfig holds the runner's profile. Zero values mean "not set".
type RunnerConfig struct {
	WeightKg float64 `koanf:"weight_kg" yaml:"weight_kg"`
	HeightCm float64 `koanf:"height_cm" yaml:"height_cm"`
	Age      int     `koanf:"age" yaml:"age"`
	Gender   string  `koanf:"gender" yaml:"gender"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit string `koanf:"distance_unit" yaml:"distance_unit"`
	PaceUnit     string `koanf:"pace_unit" yaml:"pace_unit"`
}

// TablesConfig holds optional paths that replace the embedded data tables
type TablesConfig struct {
	HeatGrid   string `koanf:"heat_grid" yaml:"heat_grid,omitempty"`
	AgeGrade   string `koanf:"age_grade" yaml:"age_grade,omitempty"`
	RangeModel string `koanf:"range_model" yaml:"range_model,omitempty"`
}

// LogConfig controls the log level and destination
type LogConfig struct {
	Level string `koanf:"level" yaml:"level"`
	File  string `koanf:"file" yaml:"file,omitempty"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// StravaConfig holds Strava API credentials
type StravaConfig struct {
	ClientID     string `koanf:"client_id" yaml:"client_id"`
	ClientSecret string `koanf:"client_secret" yaml:"client_secret"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			DistanceUnit: "km",
			PaceUnit:     "min/km",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: ":8090",
		},
	}
}

// Load builds the configuration by layering, lowest precedence first:
// defaults, the YAML file (PACECALC_CONFIG or ~/.pacecalc/config.yaml) and
// PACECALC_* environment variables. A missing default file is not an error;
// a missing PACECALC_CONFIG file is.
func Load() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return LoadFile(path)
	}

	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFile(path)
	if errors.Is(err, ErrNoConfig) {
		return loadLayers("")
	}
	return cfg, err
}

// LoadFile is Load with an explicit config file, which must exist
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrNoConfig
	} else if err != nil {
		return nil, fmt.Errorf("checking config file: %w", err)
	}
	return loadLayers(path)
}

func loadLayers(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration to ~/.pacecalc/config.yaml
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes the configuration as YAML to path
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample writes an example config file if none exists. It returns
// the path and whether a file was written.
func CreateExample() (string, bool, error) {
	path, err := GetConfigPath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	example := DefaultConfig()
	example.Runner = RunnerConfig{
		WeightKg: 65,
		HeightCm: 175,
		Age:      35,
		Gender:   "M",
	}
	example.Strava = StravaConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	if err := SaveTo(path, &example); err != nil {
		return "", false, err
	}
	return path, true, nil
}

// Validate checks field ranges and enumerations. Strava credentials are
// optional here; see ValidateStrava.
func (c *Config) Validate() error {
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.PaceUnit != "" && c.Display.PaceUnit != "min/km" && c.Display.PaceUnit != "min/mi" {
		return fmt.Errorf("display.pace_unit must be \"min/km\" or \"min/mi\", got %q", c.Display.PaceUnit)
	}

	if c.Runner.WeightKg < 0 || c.Runner.WeightKg > 250 {
		return fmt.Errorf("runner.weight_kg must be between 0 and 250, got %v", c.Runner.WeightKg)
	}
	if c.Runner.HeightCm < 0 || c.Runner.HeightCm > 250 {
		return fmt.Errorf("runner.height_cm must be between 0 and 250, got %v", c.Runner.HeightCm)
	}
	if c.Runner.Age < 0 || c.Runner.Age > 100 {
		return fmt.Errorf("runner.age must be between 0 and 100, got %d", c.Runner.Age)
	}
	switch c.Runner.Gender {
	case "", "M", "F":
	default:
		return fmt.Errorf("runner.gender must be \"M\" or \"F\", got %q", c.Runner.Gender)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}

// ValidateStrava checks that Strava credentials are present for import
func (c *Config) ValidateStrava() error {
	if c.Strava.ClientID == "" || c.Strava.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("strava.client_id is required - get it from https://www.strava.com/settings/api")
	}
	if c.Strava.ClientSecret == "" || c.Strava.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("strava.client_secret is required - get it from https://www.strava.com/settings/api")
	}
	return nil
}

// GetConfigPath returns the path to the default config file
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, appDirName), nil
}
