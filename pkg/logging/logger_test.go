package logging

import (
	"bytes"
	"encoding/json"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func noColors() *bool {
	v := false
	return &v
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		" warn ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestConsoleLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf, Colors: noColors()})
	require.NoError(t, err)

	logger.ComponentInfo(ComponentStream, "client connected", zap.String("session", "abc"))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.Contains(t, out, "[STREAM] client connected")
	assert.Contains(t, out, "abc")
	assert.NotContains(t, out, "\033[")
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Output: &buf, Colors: noColors()})
	require.NoError(t, err)

	logger.ComponentDebug(ComponentTailer, "hidden")
	logger.ComponentWarn(ComponentTailer, "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.ComponentError(ComponentGateway, "boom", zap.Int("status", 500))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "[GATEWAY] boom", entry["msg"])
	assert.EqualValues(t, 500, entry["status"])
}

func TestUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestWithKeepsComponentTagging(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf, Colors: noColors()})
	require.NoError(t, err)

	child := logger.With(zap.String("session_id", "s-1"))
	child.ComponentInfo(ComponentStream, "hello")

	out := buf.String()
	assert.Contains(t, out, "[STREAM] hello")
	assert.Contains(t, out, "s-1")
}

func TestStandardLoggerWritesWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf, Colors: noColors()})
	require.NoError(t, err)

	std := log.New(NewStandardLogger(logger, ComponentGateway), "", 0)
	std.Printf("http: TLS handshake error from %s", "1.2.3.4")

	out := buf.String()
	assert.Contains(t, out, "\tW\t")
	assert.Contains(t, out, "[GATEWAY] http: TLS handshake error from 1.2.3.4")
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.ComponentInfo(ComponentGeneral, "ignored")
	logger.With(zap.String("k", "v")).ComponentError(ComponentGeneral, "ignored")
}
