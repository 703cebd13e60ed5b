package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/glyphs/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		want      zerolog.Level
	}{
		{"negative clamps to warn", -1, zerolog.WarnLevel},
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFor(tt.verbosity))
		})
	}
}

func TestSetup(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	t.Run("writes to console and file", func(t *testing.T) {
		var console bytes.Buffer
		logPath := filepath.Join(t.TempDir(), "nested", "glyphs.log")

		closer := Setup(Options{Verbosity: 1, Console: &console, LogFile: logPath})
		defer func() { _ = closer.Close() }()

		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
		log.Info().Msg("hello")

		assert.Contains(t, console.String(), "hello")
		data, err := os.ReadFile(logPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"hello"`)
	})

	t.Run("console only", func(t *testing.T) {
		var console bytes.Buffer
		closer := Setup(Options{Verbosity: 0, Console: &console})
		assert.NoError(t, closer.Close())

		log.Warn().Msg("careful")
		assert.Contains(t, console.String(), "careful")
	})

	t.Run("unusable file falls back to console", func(t *testing.T) {
		var console bytes.Buffer
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		closer := Setup(Options{Console: &console, LogFile: filepath.Join(blocker, "glyphs.log")})
		assert.NoError(t, closer.Close())
		assert.Contains(t, console.String(), "Log file unavailable")
	})
}

func TestSetupLogger(t *testing.T) {
	original := log.Logger
	defer func() { log.Logger = original }()

	stateDir := t.TempDir()
	t.Setenv(paths.EnvStateDir, stateDir)

	SetupLogger(2)

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	_, err := os.Stat(filepath.Join(stateDir, paths.LogFileName))
	assert.NoError(t, err, "log file should be created")
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	defer func() { log.Logger = original }()
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	logger := GetLogger("substitute")
	logger.Info().Msg("encoded")

	assert.Contains(t, buf.String(), `"component":"substitute"`)
	assert.Contains(t, buf.String(), "encoded")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(&buf)

	done := LogOperationStart(logger, "apply-all")
	require.Contains(t, buf.String(), "Operation started")

	done()
	assert.Contains(t, buf.String(), "Operation completed")
	assert.Contains(t, buf.String(), "duration")
}
