package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/notexe/simfixtures/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fixtures.Logger = FixtureLogger{}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
}

func TestFixtureLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", FormatJSON)
	require.NoError(t, err)

	FixtureLogger{Logger: logger}.Error(fixtures.EventFixtureCopy, "fixture file does not exist, skipping", "path", "/tmp/x")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, fixtures.EventFixtureCopy, line["event"])
	assert.Equal(t, "/tmp/x", line["path"])
	assert.Equal(t, "fixture file does not exist, skipping", line["msg"])
}

func TestFixtureLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantError bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"error", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(&buf, tt.level, FormatText)
			require.NoError(t, err)
			fl := FixtureLogger{Logger: logger}

			fl.Debug(fixtures.EventAppDirectorySearch, "checking candidate")
			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "event=APP_DIRECTORY_SEARCH"))

			fl.Error(fixtures.EventFixtureCopy, "fixture file does not exist, skipping")
			assert.Equal(t, tt.wantError, strings.Contains(buf.String(), "event=FIXTURE_COPY"))
		})
	}
}
