package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/habitr/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "habitr.log")
	logger, err := New(config.LoggingConfig{Level: "info", File: path}, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("daily reset")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "daily reset", entry["msg"])
	assert.Equal(t, "habitr", entry["logger"])
	assert.Contains(t, entry, "ts")
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitr.log")
	logger, err := New(config.LoggingConfig{Level: "error", File: path}, true)
	require.NoError(t, err)

	logger.Debug("toggle")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "toggle")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty"}, false)
	assert.Error(t, err)
}
