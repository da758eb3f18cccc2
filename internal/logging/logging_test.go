package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yacs/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "yacs.log")
	logger, err := New(config.LogSettings{Level: "warn", Format: "json"}, path, false)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Contains(t, entry, "timestamp")
}

func TestDebugOverridesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yacs.log")
	logger, err := New(config.LogSettings{Level: "error", Format: "console"}, path, true)
	require.NoError(t, err)

	logger.Debug("details")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "details")
}

func TestBadLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yacs.log")
	logger, err := New(config.LogSettings{Level: "loud"}, path, false)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(0))
	assert.False(t, logger.Core().Enabled(-1))
}

func TestEmptyPathIsNop(t *testing.T) {
	logger, err := New(config.LogSettings{}, "", false)
	require.NoError(t, err)
	logger.Error("goes nowhere")
}
