// Package logging builds the structured logger used by the CLI and the MCP
// server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a config value (debug, info, warn, error) to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s (supported: debug, info, warn, error)", s)
	}
}

// New returns a logger writing to w at the given level.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", FormatText:
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %s (supported: %s, %s)", format, FormatText, FormatJSON)
	}

	return slog.New(handler), nil
}

// FixtureLogger adapts a slog.Logger to the fixtures.Logger interface. The
// event tag becomes an "event" attribute.
type FixtureLogger struct {
	Logger *slog.Logger
}

func (l FixtureLogger) Debug(event, msg string, args ...any) {
	l.Logger.Debug(msg, append([]any{slog.String("event", event)}, args...)...)
}

func (l FixtureLogger) Error(event, msg string, args ...any) {
	l.Logger.Error(msg, append([]any{slog.String("event", event)}, args...)...)
}
