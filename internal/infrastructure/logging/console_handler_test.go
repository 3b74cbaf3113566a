package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferedLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := NewConsoleHandler(buf, &slog.HandlerOptions{Level: level})
	return slog.New(handler), buf
}

func TestConsoleHandler_Format(t *testing.T) {
	logger, buf := newBufferedLogger(slog.LevelInfo)

	logger.Info("Daily check completed", "properties", 3, "cost", 0.3)

	out := buf.String()
	assert.Contains(t, out, "[INFO]")
	assert.Contains(t, out, "Daily check completed")
	assert.Contains(t, out, "properties=3")
	assert.Contains(t, out, "cost=0.3")
	// Buffers are not terminals, so no ANSI escapes
	assert.NotContains(t, out, "\033[")
}

func TestConsoleHandler_SystemPrefix(t *testing.T) {
	logger, buf := newBufferedLogger(slog.LevelInfo)

	logger.With("system", "check").Info("Run started")

	out := buf.String()
	assert.Contains(t, out, "[check]")
	assert.NotContains(t, out, "system=", "system attr should be hoisted into the prefix")
}

func TestConsoleHandler_LevelFiltering(t *testing.T) {
	logger, buf := newBufferedLogger(slog.LevelWarn)

	logger.Info("should be dropped")
	logger.Warn("should be kept")

	out := buf.String()
	assert.NotContains(t, out, "should be dropped")
	assert.Contains(t, out, "[WARN]")
}

func TestConsoleHandler_LevelLabels(t *testing.T) {
	logger, buf := newBufferedLogger(slog.LevelDebug)

	logger.Debug("d")
	logger.Error("e")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG]")
	assert.Contains(t, out, "[ERROR]")
}
