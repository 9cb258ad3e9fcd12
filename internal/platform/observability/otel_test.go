package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "TEXT")
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("ENVIRONMENT", "staging")

	s := SettingsFromEnv()
	require.Equal(t, slog.LevelDebug, s.LogLevel)
	require.Equal(t, "text", s.LogFormat)
	require.Equal(t, "none", s.TraceExporter)
	require.Equal(t, "staging", s.Environment)
}

func TestSettingsFromEnv_IgnoresUnknownLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	require.Equal(t, slog.LevelInfo, SettingsFromEnv().LogLevel)
}

func TestInitWithSettings_TagsLogsWithService(t *testing.T) {
	var buf bytes.Buffer
	instruments, shutdown, err := InitWithSettings(context.Background(), "marketplace-test", Settings{
		LogLevel:      slog.LevelInfo,
		LogFormat:     "json",
		TraceExporter: "none",
		Environment:   "test",
		LogOutput:     &buf,
	})
	require.NoError(t, err)
	defer func() { require.NoError(t, shutdown(context.Background())) }()

	instruments.Logger.Debug("hidden")
	instruments.Logger.Info("ready")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "ready", entry["msg"])
	require.Equal(t, "marketplace-test", entry["service"])
	require.NotNil(t, instruments.Tracer("t"))
	require.NotNil(t, instruments.Meter("m"))
}
