package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"address-inspector/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggerNamedAfterApp(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(
		config.LoggerConfig{Level: "info", Encoding: "json"},
		config.AppConfig{Name: "address-inspector", Version: "1.2.3"},
		&buf,
	)

	l.Named("LookupService").Info("Lookup started", zap.String("lookupId", "abc"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "address-inspector.LookupService", line["component"])
	assert.Equal(t, "1.2.3", line["version"])
	assert.Equal(t, "abc", line["lookupId"])
	assert.Contains(t, line, "timestamp")
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(config.LoggerConfig{Level: "warn"}, config.AppConfig{}, &buf)
	l.Info("hidden")
	assert.Zero(t, buf.Len())
	l.Warn("shown")
	assert.NotZero(t, buf.Len())

	fallback := newLogger(config.LoggerConfig{Level: "loud"}, config.AppConfig{}, &buf)
	assert.True(t, fallback.Core().Enabled(zap.InfoLevel))
	assert.False(t, fallback.Core().Enabled(zap.DebugLevel))
}
