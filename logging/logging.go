package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init configures the default slog logger. JSON if TRIAGE_JSON_LOG=1/true,
// text otherwise. Level comes from TRIAGE_LOG_LEVEL unless verbose is set.
func Init(service string, verbose bool) *slog.Logger {
	return InitWriter(os.Stderr, service, verbose)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, service string, verbose bool) *slog.Logger {
	mode := strings.ToLower(os.Getenv("TRIAGE_JSON_LOG"))
	jsonMode := mode == "1" || mode == "true" || mode == "json"

	var level slog.Leveler = levelFromEnv()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonMode {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	logger := slog.New(handler).With("service", service)
	slog.SetDefault(logger)
	return logger
}

// For returns the default logger tagged with a component name.
func For(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("TRIAGE_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
