// Package entry encodes and decodes managed crontab entries.
//
// A managed entry occupies one crontab line of the form
//
//	<five-field interval> '<absolute script path>'
//
// where the script path ends in /<name>.sh - the schedule name lives in the
// path, and decode recovers it from there. Lines that do not match this
// shape are "unrecognized": the section manager passes them through
// verbatim but never matches them by name.
package entry

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/pipecron/pipecron/internal/interval"
)

// Entry is one scheduled job inside the managed section.
// Identity is the schedule name: the section holds at most one entry per name.
type Entry struct {
	// Name is the schedule name, recovered from the script filename.
	Name string `json:"name" yaml:"name"`

	// Interval is the canonical five-field cron expression.
	Interval string `json:"interval" yaml:"interval"`

	// ScriptPath is the absolute path of the generated wrapper script.
	ScriptPath string `json:"script" yaml:"script"`
}

// linePattern matches the generated entry shape: five interval fields
// followed by a single-quoted absolute path ending in .sh.
var linePattern = regexp.MustCompile(`^(\S+ \S+ \S+ \S+ \S+) '(/.*\.sh)'$`)

// Encode serializes an entry to its crontab line.
func Encode(e Entry) string {
	return fmt.Sprintf("%s '%s'", e.Interval, e.ScriptPath)
}

// Decode parses a crontab line into an Entry. The second return value is
// false for any line that does not follow the generated-entry convention:
// comments, blank lines, hand-written entries, entries whose interval does
// not survive validation.
func Decode(line string) (Entry, bool) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}
	canonical, err := interval.Translate(m[1])
	if err != nil || canonical != m[1] {
		return Entry{}, false
	}
	scriptPath := m[2]
	name := strings.TrimSuffix(path.Base(scriptPath), ".sh")
	if name == "" {
		return Entry{}, false
	}
	return Entry{
		Name:       name,
		Interval:   m[1],
		ScriptPath: scriptPath,
	}, true
}
