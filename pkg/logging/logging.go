package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/glyphs/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// levels maps the -v count to a zerolog level; anything past the end is trace.
var levels = []zerolog.Level{zerolog.WarnLevel, zerolog.InfoLevel, zerolog.DebugLevel}

// LevelFor returns the level used for a -v count.
func LevelFor(verbosity int) zerolog.Level {
	if verbosity < 0 {
		verbosity = 0
	}
	if verbosity >= len(levels) {
		return zerolog.TraceLevel
	}
	return levels[verbosity]
}

// Options controls where log lines go.
type Options struct {
	Verbosity int
	// Console receives human readable output. Nil means stderr.
	Console io.Writer
	// LogFile receives json lines in append mode. Empty disables the file.
	LogFile string
}

// Setup installs the global logger and returns a closer for the log file.
// A log file that cannot be opened is reported and skipped.
func Setup(opts Options) io.Closer {
	zerolog.SetGlobalLevel(LevelFor(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	sinks := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen}}

	var (
		file    *os.File
		fileErr error
	)
	if opts.LogFile != "" {
		file, fileErr = openAppend(opts.LogFile)
		if fileErr == nil {
			sinks = append(sinks, file)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(sinks...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", opts.LogFile).Msg("Log file unavailable, logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", opts.LogFile).Msg("Logger initialized")

	if file == nil {
		return nopCloser{}
	}
	return file
}

// SetupLogger configures console plus file logging for the CLI.
func SetupLogger(verbosity int) {
	Setup(Options{Verbosity: verbosity, LogFile: logFilePath()})
}

// GetLogger returns a logger tagged with the component name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}

func logFilePath() string {
	p, err := paths.New()
	if err != nil {
		return paths.LogFileName
	}
	return p.LogFile()
}

func openAppend(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
