package slogx

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")
	l.Info("hidden")
	l.Warn("shown", "instrument", "RB.SHFE")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "instrument=RB.SHFE")
}

func TestNewTeeAppendsToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "download_progress.log")

	l, closer, err := NewTee("info", p)
	require.NoError(t, err)
	l.Info("chunk", "status", "stored 10 bars")
	require.NoError(t, closer.Close())

	l, closer, err = NewTee("info", p)
	require.NoError(t, err)
	l.Info("second run")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `status="stored 10 bars"`)
	assert.Contains(t, string(data), "second run")
}
