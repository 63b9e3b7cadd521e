package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger builds the process-wide logger. Every line carries the
// service name ("api" or "worker") so both binaries can share one log
// stream. It is also installed as the slog default, which is where the
// retry and breaker warnings from the resilience layer land.
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	logger := slog.New(handler).With("service", service)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel accepts the usual spellings from LOG_LEVEL and falls back
// to info rather than rejecting the process over a typo.
func ParseLevel(level string) slog.Level {
	var parsed slog.Level
	normalized := strings.TrimSpace(level)
	if normalized == "" {
		return slog.LevelInfo
	}
	if strings.EqualFold(normalized, "warning") {
		normalized = "warn"
	}
	if err := parsed.UnmarshalText([]byte(normalized)); err != nil {
		return slog.LevelInfo
	}
	return parsed
}
