// Package store abstracts where the scheduler file lives.
//
// The section manager computes new crontab content as a pure function; a
// Store is the read/write boundary around it. CrontabStore talks to the real
// user crontab through crontab(1). StdoutStore emits the computed content to
// a writer so operators can pipe it into their own tooling.
//
// Each CLI invocation performs exactly one Load, one compute, one Save; the
// crontab(1) replace-whole-table semantics make that write atomic.
package store

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Store is a reliable get/set primitive for full scheduler-file content.
type Store interface {
	// Load returns the current full content. A scheduler with no file yet
	// loads as empty content, not an error.
	Load(ctx context.Context) (string, error)

	// Save replaces the full content.
	Save(ctx context.Context, content string) error

	// Name identifies the store for logging and reports.
	Name() string
}

// Names of the available stores, as accepted by the --store flag.
const (
	CrontabStoreName = "crontab"
	StdoutStoreName  = "stdout"
)

// New returns the store selected by name.
func New(name string, out io.Writer) (Store, error) {
	switch name {
	case CrontabStoreName:
		return NewCrontabStore(), nil
	case StdoutStoreName:
		return NewStdoutStore(out), nil
	default:
		return nil, fmt.Errorf("unknown store %q (want %s or %s)", name, CrontabStoreName, StdoutStoreName)
	}
}

// ensureTrailingNewline normalizes content to the form crontab(1) requires.
func ensureTrailingNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
