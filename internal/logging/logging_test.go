package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"mini-voxel/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("chunk load failed", zap.String("chunk", "(1,2,3)"))
	require.NoError(t, log.Sync())

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "chunk load failed", rec["msg"])
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "(1,2,3)", rec["chunk"])
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LogConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	log.Debug("tick", zap.Int("n", 3))
	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, "tick")
	assert.Contains(t, out, `{"n": 3}`)
}

func TestUnknownFormat(t *testing.T) {
	_, err := New(config.LogConfig{Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestLevelMatchesObserver(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)

	core, logs := observer.New(level)
	log := zap.New(core)
	log.Info("dropped")
	log.Warn("kept", zap.Int("frame", 7))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, int64(7), entry.ContextMap()["frame"])
}
