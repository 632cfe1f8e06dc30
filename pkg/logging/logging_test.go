package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogger(t *testing.T) {
	original, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{-1, zerolog.WarnLevel},
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{7, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestSetup(t *testing.T) {
	restoreLogger(t)

	t.Run("writes console and file", func(t *testing.T) {
		var console bytes.Buffer
		path := filepath.Join(t.TempDir(), "state", "dfm.log")

		got := Setup(Config{Verbosity: 1, Console: &console, LogFile: path})
		assert.Equal(t, path, got)
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

		logger := GetLogger("links")
		logger.Info().Msg("linked")

		assert.Contains(t, console.String(), "linked")
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"component":"links"`)
	})

	t.Run("unwritable log file falls back to console", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		var console bytes.Buffer
		got := Setup(Config{Console: &console, LogFile: filepath.Join(blocker, "dfm.log")})
		assert.Empty(t, got)
		assert.Contains(t, console.String(), "Log file unavailable")
	})

	t.Run("SetupLogger uses XDG_STATE_HOME", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_STATE_HOME", dir)

		SetupLogger(3)
		assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
		assert.FileExists(t, filepath.Join(dir, "dfm", "dfm.log"))
	})
}

func TestLogFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, filepath.Join("/custom/state", "dfm", "dfm.log"), LogFilePath())

	t.Setenv("XDG_STATE_HOME", "")
	assert.Equal(t, "dfm.log", filepath.Base(LogFilePath()))
}

func TestLogHelpers(t *testing.T) {
	restoreLogger(t)

	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	log.Logger = zerolog.New(&buf)

	logger := GetLogger("git")
	LogCommand(logger, "git", []string{"ls-files", "-z"})
	Timed(logger, "link")()

	out := buf.String()
	assert.Contains(t, out, `"component":"git"`)
	assert.Contains(t, out, `"command":"git"`)
	assert.Contains(t, out, "ls-files")
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, `"duration"`)
}
