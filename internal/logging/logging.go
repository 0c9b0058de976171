// Package logging builds the structured logger of the familytree process on
// top of log/slog. Output goes to stderr by default so it never mixes with
// the editor's own output on stdout.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mesh-intelligence/familytree/pkg/types"
)

// Config selects the level, format and destination of the logger.
type Config struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Format is types.LogFormatText or types.LogFormatJSON. Empty means text.
	Format string
	// Writer receives log records. Nil means os.Stderr.
	Writer io.Writer
}

// ParseLevel converts a level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", types.ErrLogLevelUnknown, name)
	}
}

// New returns a logger for cfg. Unknown levels and formats are reported as
// errors wrapping the types sentinels.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Format {
	case types.LogFormatText, "":
		handler = slog.NewTextHandler(w, opts)
	case types.LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrLogFormatUnknown, cfg.Format)
	}
	return slog.New(handler).With("service", "familytree"), nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
