package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	prev := Get()
	Set(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { Set(prev) })

	return buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestInfow(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	Infow("provider registered", "provider", "gmail")

	entry := decodeLine(t, buf)
	assert.Equal(t, "provider registered", entry["msg"])
	assert.Equal(t, "gmail", entry["provider"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestErrorf(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	Errorf("exchange failed: %s", "invalid_grant")

	entry := decodeLine(t, buf)
	assert.Equal(t, "exchange failed: invalid_grant", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	Debugw("should not appear", "key", "value")

	assert.Empty(t, buf.String())
}

func TestDefaultLoggerNeverNil(t *testing.T) {
	assert.NotNil(t, Get())
}
