// Package obs contains observability utilities such as logging and tracing.
package obs

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the process-wide structured logger.
var Logger = slog.Default()

// InitLogger points Logger at a JSON handler on stdout with the given
// level. Unknown levels fall back to info.
func InitLogger(level string) {
	Logger = NewLogger(os.Stdout, level)
	slog.SetDefault(Logger)
}

// NewLogger builds a JSON logger writing to w.
func NewLogger(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h)
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
