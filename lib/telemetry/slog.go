package telemetry

import (
	"log/slog"
	"os"
)

// VerbosityLevel maps the number of -v flags to a log level: warnings by
// default, then info, then debug.
func VerbosityLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// InitSlog installs a text handler on stderr as the default logger. Records
// carry their source location at debug level.
func InitSlog(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: level <= slog.LevelDebug,
		Level:     level,
	})
	slog.SetDefault(slog.New(handler))
}
