package internal

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// ParseLogLevel maps a LOG_LEVEL or -log-level value to a slog level.
func ParseLogLevel(level string) (slog.Level, bool) {
	l, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]
	return l, ok
}

// NewLogger returns a JSON logger with UTC timestamps in prod and a text
// logger otherwise. Unknown levels fall back to info. Every record carries
// service=thaiaddress so the server and the CLI can share a log sink.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	l, ok := ParseLogLevel(level)
	if !ok {
		slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
		l = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: l}

	var h slog.Handler
	switch env {
	case "prod":
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		}
		h = slog.NewJSONHandler(w, opts)
	default:
		// Debug output in dev points at the call site.
		opts.AddSource = l == slog.LevelDebug
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h).With(slog.String("service", "thaiaddress"))
}
