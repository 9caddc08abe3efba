package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"info":    zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		"Warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func withObserver(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })
	return logs
}

func TestLogMessage(t *testing.T) {
	logs := withObserver(t)

	LogMessage(DEBUG, "d")
	LogMessage(INFO, "i", zap.Int("n", 1))
	LogMessage(WARN, "w")
	LogMessage(ERROR, "e")
	LogMessage("bogus", "fallback")

	entries := logs.AllUntimed()
	require.Len(t, entries, 5)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, int64(1), entries[1].ContextMap()["n"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[4].Level)
}

func TestPrintIfErr(t *testing.T) {
	logs := withObserver(t)

	var err error
	PrintIfErr("nothing", &err)
	PrintIfErr("nil pointer", nil)
	assert.Zero(t, logs.Len())

	err = errors.New("boom")
	PrintIfErr("close failed", &err)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "close failed", entry.Message)
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestInitWithFile(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	path := filepath.Join(t.TempDir(), "labelprint.log")
	require.NoError(t, Init(Config{Level: DEBUG, File: path}))

	L().Info("hello file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestInitRejectsBadLevel(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	assert.Error(t, Init(Config{Level: "chatty"}))
	assert.Same(t, prev, L())
}
