// Package logging builds the structured JSON-lines logger both binaries
// write diagnostics to: a slog.JSONHandler with "ts" in place of the
// default "time" key.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Levels accepted by Config.Log.Level / SWEEP_LOG_LEVEL.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ParseLevel converts one of the LevelX constants to an slog.Level,
// defaulting to LevelInfo for anything unrecognized.
func ParseLevel(s string) slog.Level {
	switch s {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Open builds a logger writing JSON-lines records to path (created if
// necessary), or to stderr when path is empty. The returned closer must be
// called before process exit to flush and release the file handle.
func Open(path string, level string) (*slog.Logger, func() error, error) {
	var (
		out    io.Writer = os.Stderr
		closer           = func() error { return nil }
	)
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closer = f.Close
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Key = "ts"
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(out, opts)), closer, nil
}
