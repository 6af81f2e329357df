package logger

import (
	"io"
	"log/slog"
	"time"
)

// LogFilePermissions is the mode used when creating log files.
const LogFilePermissions = 0o600

var (
	moduleKey  = internKey("module")
	traceIDKey = internKey("trace_id")
)

// newTextHandler returns the console handler: text format, no timestamp,
// TRACE rendered by name.
func newTextHandler(w io.Writer, level slog.Level, tz *time.Location) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.LevelKey:
				lvl, ok := a.Value.Any().(slog.Level)
				if ok && lvl <= traceLevelValue {
					return slog.String(slog.LevelKey, "TRACE")
				}
			}
			if t, ok := a.Value.Any().(time.Time); ok && tz != nil {
				return slog.Time(a.Key, t.In(tz))
			}
			return a
		},
	})
}

// parseSlogLevel maps a LogLevel to its slog.Level.
func parseSlogLevel(level LogLevel) slog.Level {
	return parseLogLevel(string(level))
}
