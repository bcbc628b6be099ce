package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// L is the global logger instance. It discards output until InitLogger runs,
// so packages and tests can log before the application is configured.
var L = zerolog.Nop()

// InitLogger initializes the global logger.
// Call this once at application startup, after loading config.
func InitLogger(logLevelStr string, pretty bool) {
	InitLoggerWithWriter(logLevelStr, pretty, os.Stdout)
}

// InitLoggerWithWriter is InitLogger with an explicit destination. The CLI
// sends logs to stderr so stdout stays reserved for the report.
func InitLoggerWithWriter(logLevelStr string, pretty bool, out io.Writer) {
	level, ok := parseLevel(logLevelStr)

	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = out
	if pretty {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	L = zerolog.New(w).Level(level).With().Timestamp().Logger()

	if !ok {
		L.Warn().Str("configuredLevel", logLevelStr).Msg("Invalid LOG_LEVEL specified, defaulting to INFO")
	}
	L.Debug().Str("level", level.String()).Msg("Logger initialized")
}

func parseLevel(s string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel, true
	case "info", "":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	default:
		return zerolog.InfoLevel, false
	}
}

// FromContext retrieves a logger from context, or returns the global logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &L
}
