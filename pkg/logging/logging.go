// Package logging configures the process-wide zerolog logger used by dfm.
//
// Console output goes to stderr so it never mixes with rendered command
// output. A JSON copy of every event is appended to dfm.log under the XDG
// state directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	appDir      = "dfm"
	logFileName = "dfm.log"
)

// Config controls Setup. The zero value logs warnings to stderr and to the
// default log file.
type Config struct {
	Verbosity int
	// Console receives human readable output. Nil means os.Stderr.
	Console io.Writer
	// LogFile overrides the log file location. Empty means LogFilePath().
	LogFile string
}

// levelFor maps -v counts onto zerolog levels.
func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger for the given -v count.
func SetupLogger(verbosity int) {
	Setup(Config{Verbosity: verbosity})
}

// Setup installs the global logger described by cfg and returns the log
// file path in use, or "" when the file could not be opened.
func Setup(cfg Config) string {
	zerolog.SetGlobalLevel(levelFor(cfg.Verbosity))

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}}

	path := cfg.LogFile
	if path == "" {
		path = LogFilePath()
	}
	file, fileErr := openLogFile(path)
	if fileErr == nil {
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if cfg.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Log file unavailable, logging to console only")
		return ""
	}
	log.Debug().Int("verbosity", cfg.Verbosity).Str("log_file", path).Msg("Logger initialized")
	return path
}

// GetLogger returns the global logger tagged with a component name.
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// LogFilePath is $XDG_STATE_HOME/dfm/dfm.log, read at call time so a changed
// environment is honoured.
func LogFilePath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	if stateHome == "" {
		return logFileName
	}
	return filepath.Join(stateHome, appDir, logFileName)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// LogCommand records an external command before it runs.
func LogCommand(logger zerolog.Logger, name string, args []string) {
	logger.Debug().Str("command", name).Strs("args", args).Msg("Running external command")
}

// Timed logs the start of an operation and returns a func that logs its
// duration, meant for defer.
func Timed(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")
	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation finished")
	}
}
