package iologger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnvern/pkg/config"
	"github.com/gnames/gnvern/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		res slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, ParseLevel(v.in), v.in)
	}
}

func TestNewHandler(t *testing.T) {
	tests := []struct {
		msg    string
		format string
		json   bool
	}{
		{"json", "json", true},
		{"text", "text", false},
		{"tint", "tint", false},
		{"unknown", "xml", true},
	}
	for _, v := range tests {
		var buf bytes.Buffer
		h := NewHandler(&buf, config.LogConfig{Format: v.format, Level: "info"})
		slog.New(h).Info("hello", "names", 3)
		out := buf.String()
		assert.Contains(t, out, "hello", v.msg)
		if v.json {
			assert.Contains(t, out, `"names":3`, v.msg)
		} else {
			assert.Contains(t, out, "names=3", v.msg)
		}
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, config.LogConfig{Format: "text", Level: "warn"})
	l := slog.New(h)
	l.Info("skipped")
	l.Warn("kept")
	assert.NotContains(t, buf.String(), "skipped")
	assert.Contains(t, buf.String(), "kept")
}

func TestInitFile(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	dir := t.TempDir()
	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}

	c, err := Init(dir, cfg, false)
	require.NoError(t, err)
	slog.Info("first")
	require.NoError(t, c.Close())

	c, err = Init(dir, cfg, true)
	require.NoError(t, err)
	slog.Info("second")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")

	c, err = Init(dir, cfg, false)
	require.NoError(t, err)
	require.NoError(t, c.Close())
	data, err = os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Empty(t, data, "log file is truncated without append")
}

func TestInitStreams(t *testing.T) {
	orig := slog.Default()
	defer slog.SetDefault(orig)

	for _, dest := range []string{"stdout", "stderr", "other"} {
		c, err := Init("", config.LogConfig{Destination: dest}, false)
		require.NoError(t, err, dest)
		assert.NoError(t, c.Close(), dest)
	}
}

func TestInitError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := Init(dir, config.LogConfig{Destination: "file"}, false)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
	assert.True(t, errors.Is(gnErr.Err, os.ErrNotExist))
}
