// journal.go implements a slog.Handler that submits records directly to the
// systemd journal, mapping slog levels to syslog priorities and attributes
// to journal fields.

package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

// SendFunc matches journal.Send; injectable for testing.
type SendFunc func(message string, priority journal.Priority, vars map[string]string) error

// JournalHandler is a slog.Handler backed by the systemd journal.
type JournalHandler struct {
	send   SendFunc
	level  slog.Level
	attrs  []slog.Attr
	prefix string // dot-joined open groups
}

// NewJournalHandler creates a handler that records at or above level.
func NewJournalHandler(send SendFunc, level slog.Level) *JournalHandler {
	return &JournalHandler{send: send, level: level}
}

// Enabled implements slog.Handler.
func (h *JournalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler by submitting one journal entry.
func (h *JournalHandler) Handle(_ context.Context, r slog.Record) error {
	vars := make(map[string]string, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		addField(vars, h.prefix, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		addField(vars, h.prefix, a)
		return true
	})
	return h.send(r.Message, priority(r.Level), vars)
}

// WithAttrs implements slog.Handler.
func (h *JournalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *JournalHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if name != "" {
		if clone.prefix != "" {
			clone.prefix += "." + name
		} else {
			clone.prefix = name
		}
	}
	return &clone
}

// priority maps slog levels to syslog priorities.
func priority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// addField records one attribute as a journal field. Journal field names
// are upper-case [A-Z0-9_] and must not start with a digit or underscore.
func addField(vars map[string]string, prefix string, a slog.Attr) {
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	vars[fieldName(key)] = fmt.Sprintf("%v", a.Value.Resolve().Any())
}

func fieldName(key string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(key) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	name := strings.TrimLeft(sb.String(), "_0123456789")
	if name == "" {
		name = "FIELD"
	}
	return name
}
