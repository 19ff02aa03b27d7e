package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_LogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, Config{Level: tt.level}.LogLevel())
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Format = "JSON"
	config.Version = "1.2.3"

	New(config, &buf).Info("plan finished", "nodes", 7)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "plan finished", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "factoryplan", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, float64(7), entry["nodes"])
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	config := DefaultConfig()
	config.Level = "warn"

	logger := New(config, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "item", "gear")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "msg=shown"))
	assert.Contains(t, out, "item=gear")
	assert.Contains(t, out, "service=factoryplan")
}

func TestInit_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger := Init(DefaultConfig(), &buf)
	assert.Same(t, logger, slog.Default())

	slog.Info("via default")
	assert.Contains(t, buf.String(), "via default")
}
