package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger := New(&Config{Level: "info", Format: "json", Service: "movie-quotes", Version: "1.0.0"})

	assert.NotNil(t, logger)
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "info", Format: "json", Service: "movie-quotes", Version: "1.2.3"}, &buf)

	logger.Info("quote store opened", slog.String("driver", "sqlite"))

	entry := decodeLine(t, &buf)
	assert.Equal(t, "quote store opened", entry["msg"])
	assert.Equal(t, "sqlite", entry["driver"])
	assert.Equal(t, "movie-quotes", entry["service_name"])
	assert.Equal(t, "1.2.3", entry["service_version"])
}

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format  string
		level   string
		log     func(*slog.Logger)
		message string
	}{
		{"text", "debug", func(l *slog.Logger) { l.Debug("counted quotes") }, "counted quotes"},
		{"pretty", "info", func(l *slog.Logger) { l.Info("server listening") }, "server listening"},
		{"unknown", "info", func(l *slog.Logger) { l.Info("falls back to json") }, `"msg":"falls back to json"`},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWithWriter(&Config{Level: tt.level, Format: tt.format, Service: "movie-quotes"}, &buf))

			assert.Contains(t, buf.String(), tt.message)
		})
	}
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "trace", Format: "json", Service: "movie-quotes"}, &buf)

	logger.Log(context.Background(), LevelTrace, "scanned quote row", slog.Int64("offset", 3))

	assert.Contains(t, buf.String(), "scanned quote row")
}

func TestNewWithWriter_LevelFiltersRecords(t *testing.T) {
	for _, format := range []string{"json", "text", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&Config{Level: "warn", Format: format}, &buf)

			logger.Info("quote store is empty")
			logger.Warn("no quote at selected offset")

			assert.NotContains(t, buf.String(), "quote store is empty")
			assert.Contains(t, buf.String(), "no quote at selected offset")
		})
	}
}

func TestNewWithWriter_RollingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	var console bytes.Buffer
	logger := NewWithWriter(&Config{
		Level:   "info",
		Format:  "pretty",
		Service: "movie-quotes",
		File: FileConfig{
			Enabled:    true,
			Path:       path,
			MaxSizeMB:  1,
			MaxBackups: 2,
			MaxAgeDays: 7,
		},
	}, &console)

	logger.Info("shutting down server", slog.String("password", "hunter2"))

	assert.Contains(t, console.String(), "shutting down server")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"shutting down server"`)
	assert.Contains(t, string(content), `"service_name":"movie-quotes"`)
	assert.NotContains(t, string(content), "hunter2")
}

func TestNewWithWriter_FileDisabledWithoutPath(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{
		Level:  "info",
		Format: "json",
		File:   FileConfig{Enabled: true},
	}, &buf)

	logger.Info("console only")

	assert.Contains(t, buf.String(), "console only")
	_, isMulti := logger.Handler().(*MultiHandler)
	assert.False(t, isMulti)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"Error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}

	for input, want := range tests {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, parseLevel(input))
		})
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want log.Level
	}{
		{slog.Level(-12), log.DebugLevel},
		{LevelTrace, log.DebugLevel},
		{slog.LevelDebug, log.DebugLevel},
		{slog.LevelInfo, log.InfoLevel},
		{slog.LevelInfo + 2, log.InfoLevel},
		{slog.LevelWarn, log.WarnLevel},
		{slog.LevelError, log.ErrorLevel},
		{slog.Level(12), log.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, slogToCharmLevel(tt.in))
		})
	}
}
