package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/shiftcrew/internal/logger"
)

func TestNewSystemLogger_WritesJSONToFileAndTee(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var tee bytes.Buffer

	log, closer, err := logger.NewSystemLogger(dir, slog.LevelInfo, &tee)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("notification sent", "kind", "otp")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, "system.log"))
	require.NoError(t, err)
	assert.Equal(t, data, tee.Bytes())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "notification sent", entry["msg"])
	assert.Equal(t, "otp", entry["kind"])
}

func TestNewConsoleLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewConsoleLogger(&buf, slog.LevelWarn)

	log.Info("quiet")
	log.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}
