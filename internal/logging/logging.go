// Package logging provides structured logging configuration for pipecron.
//
// Logging Strategy:
// - Text output to stderr for interactive use (the default on a TTY)
// - JSON output for machine consumption
// - Direct journald submission when pipecron itself runs non-interactively
//   on a systemd host (e.g. from a cron entry or a unit)
// - Log levels configurable via the project file or --log-level
//
// Usage:
//
//	logger := logging.SetupLogger("info", "auto")
//	logger.Info("entries installed", "count", n)
package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// Log output formats accepted by SetupLogger.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatJournal = "journal"
	FormatAuto    = "auto"
)

// SetupLogger creates and configures a structured logger writing to stderr
// (or the journal). The level parameter accepts: "debug", "info", "warn",
// "error" (case-insensitive); invalid levels default to "info". The format
// parameter accepts the Format constants; "auto" picks journald when the
// journal socket is reachable and stderr is not a terminal, text otherwise.
//
// The logger is also set as the default via slog.SetDefault, allowing
// use of the global slog.Info(), slog.Error(), etc. functions.
func SetupLogger(level, format string) *slog.Logger {
	slogLevel := parseLevel(level)
	opts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch resolveFormat(format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case FormatJournal:
		handler = NewJournalHandler(journal.Send, slogLevel)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// resolveFormat maps "auto" to a concrete format for this process.
func resolveFormat(format string) string {
	switch format {
	case FormatText, FormatJSON, FormatJournal:
		return format
	default:
		if journal.Enabled() && !stderrIsTerminal() {
			return FormatJournal
		}
		return FormatText
	}
}

// stderrIsTerminal reports whether stderr is attached to a terminal.
func stderrIsTerminal() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// parseLevel converts a string log level to slog.Level.
// Accepts: "debug", "info", "warn", "error" (case-insensitive).
// Returns slog.LevelInfo for unrecognized values.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
