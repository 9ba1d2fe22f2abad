package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFile = "pacecalc.log"

// Options controls where logs go
type Options struct {
	Level string // debug, info, warn, error
	// File is the rotated log file. Empty means <configDir>/pacecalc.log.
	File string
	// Console also writes human-readable output to stderr. The TUI leaves
	// this off because it owns the terminal.
	Console bool
}

// ParseLevel maps a config level to zerolog, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup configures the global zerolog logger and returns it. The returned
// closer flushes the rotated file.
func Setup(configDir string, opts Options) (zerolog.Logger, io.Closer) {
	path := opts.File
	if path == "" {
		path = filepath.Join(configDir, defaultLogFile)
	}

	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	var writer io.Writer = rotator
	if opts.Console {
		writer = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stderr}, rotator)
	}

	logger := SetupWithWriter(writer, ParseLevel(opts.Level))
	return logger, rotator
}

// SetupWithWriter configures the global logger to write JSON lines to w
func SetupWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	logger := zerolog.New(w).With().Timestamp().Logger().Level(level)
	log.Logger = logger
	return logger
}
