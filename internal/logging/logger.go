package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/wire"

	"github.com/rosx-labs/perp-deployer/internal/domain/config"
)

var LoggingSet = wire.NewSet(
	NewLogger,
)

// NewLogger creates a new logger based on runtime configuration
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	return newLogger(os.Stderr, os.Getenv("PERPDEPLOY_LOG_LEVEL"), cfg.Debug)
}

func newLogger(w io.Writer, levelName string, debug bool) *slog.Logger {
	level := ParseLevel(levelName)
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time in non-debug mode for cleaner output
			if a.Key == slog.TimeKey && !debug {
				return slog.Attr{}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a level name to a slog level, unknown names keep info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
