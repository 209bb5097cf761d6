// Package section implements the managed crontab section: a marker-delimited
// region of the crontab owned by one pipecron project.
//
// All operations are pure functions from (current crontab content, desired
// change) to new crontab content. Nothing outside the markers is ever read,
// reordered or rewritten; unrecognized lines inside the markers survive every
// operation verbatim. Callers own the surrounding read-modify-write
// transaction (see the store package).
package section

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pipecron/pipecron/internal/entry"
)

// ErrMalformedSection indicates marker corruption: a duplicate BEGIN marker,
// a BEGIN without a matching END, or an END with no BEGIN. Operations abort
// without modifying anything rather than guess intent.
var ErrMalformedSection = errors.New("malformed pipecron crontab section")

const markerTemplate = "# ----- %s PIPECRON CRONTAB SECTION (%s) -----"

// Result reports what an operation changed, for user-facing display.
type Result struct {
	Added   []entry.Entry `json:"added,omitempty" yaml:"added,omitempty"`
	Updated []entry.Entry `json:"updated,omitempty" yaml:"updated,omitempty"`
	Removed []entry.Entry `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// RemovedNames returns the names of removed entries, in section order.
func (r Result) RemovedNames() []string {
	names := make([]string, len(r.Removed))
	for i, e := range r.Removed {
		names[i] = e.Name
	}
	return names
}

// Manager locates and rewrites the managed section for one project.
// It is stateless and safe for reuse across operations.
type Manager struct {
	projectID string
}

// NewManager creates a Manager for the given project identifier.
// The identifier is embedded in both markers, so sections of different
// projects never collide in the same crontab.
func NewManager(projectID string) *Manager {
	return &Manager{projectID: projectID}
}

// BeginMarker returns the literal line that opens the managed section.
func (m *Manager) BeginMarker() string {
	return fmt.Sprintf(markerTemplate, "BEGIN", m.projectID)
}

// EndMarker returns the literal line that closes the managed section.
func (m *Manager) EndMarker() string {
	return fmt.Sprintf(markerTemplate, "END", m.projectID)
}

// Install merges the desired entries into the managed section with upsert
// semantics: an entry whose name is already present replaces the existing
// line in place, a new name is appended at the end of the section. Entries
// not named in desired are left alone - install never deletes. When no
// section exists, one is created at the end of the file.
//
// Returns the new full crontab content and what changed. Applying the same
// desired set twice yields byte-identical content.
func (m *Manager) Install(content string, desired []entry.Entry) (string, Result, error) {
	var result Result

	lines := splitLines(content)
	loc, err := m.locate(lines)
	if err != nil {
		return "", Result{}, err
	}

	byName := make(map[string]entry.Entry, len(desired))
	for _, e := range desired {
		byName[e.Name] = e
	}

	if !loc.found {
		// No section: append one, preceded by a blank separator line.
		newLines := append([]string{}, lines...)
		if len(newLines) > 0 && newLines[len(newLines)-1] != "" {
			newLines = append(newLines, "")
		}
		newLines = append(newLines, m.BeginMarker())
		for _, e := range desired {
			newLines = append(newLines, entry.Encode(e))
			result.Added = append(result.Added, e)
		}
		newLines = append(newLines, m.EndMarker())
		return joinLines(newLines), result, nil
	}

	body := lines[loc.begin+1 : loc.end]
	newBody := make([]string, 0, len(body)+len(desired))
	replaced := make(map[string]bool, len(desired))
	for _, line := range body {
		e, ok := entry.Decode(line)
		if !ok {
			// Manual edits, comments and blank lines pass through verbatim.
			newBody = append(newBody, line)
			continue
		}
		want, desiredHere := byName[e.Name]
		switch {
		case desiredHere && !replaced[e.Name]:
			newBody = append(newBody, entry.Encode(want))
			replaced[e.Name] = true
			result.Updated = append(result.Updated, want)
		case desiredHere:
			// Duplicate of a name we already wrote: one entry per name.
		default:
			newBody = append(newBody, line)
		}
	}
	for _, e := range desired {
		if !replaced[e.Name] {
			newBody = append(newBody, entry.Encode(e))
			result.Added = append(result.Added, e)
		}
	}

	newLines := make([]string, 0, len(lines)+len(desired))
	newLines = append(newLines, lines[:loc.begin+1]...)
	newLines = append(newLines, newBody...)
	newLines = append(newLines, lines[loc.end:]...)
	return joinLines(newLines), result, nil
}

// List decodes the entries currently in the managed section. A missing
// section is an empty list, not an error. The content is never rewritten.
func (m *Manager) List(content string) ([]entry.Entry, error) {
	lines := splitLines(content)
	loc, err := m.locate(lines)
	if err != nil {
		return nil, err
	}
	if !loc.found {
		return nil, nil
	}
	var entries []entry.Entry
	for _, line := range lines[loc.begin+1 : loc.end] {
		if e, ok := entry.Decode(line); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Uninstall removes entries from the managed section. With all set, every
// decodable entry goes; otherwise only entries whose name appears in names.
// Markers and unrecognized lines always survive. Removing a name that is not
// present contributes nothing to the result. With no section present the
// content is returned unchanged.
func (m *Manager) Uninstall(content string, names []string, all bool) (string, Result, error) {
	var result Result

	lines := splitLines(content)
	loc, err := m.locate(lines)
	if err != nil {
		return "", Result{}, err
	}
	if !loc.found {
		return content, result, nil
	}

	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}

	newLines := make([]string, 0, len(lines))
	newLines = append(newLines, lines[:loc.begin+1]...)
	for _, line := range lines[loc.begin+1 : loc.end] {
		e, ok := entry.Decode(line)
		if ok && (all || drop[e.Name]) {
			result.Removed = append(result.Removed, e)
			continue
		}
		newLines = append(newLines, line)
	}
	newLines = append(newLines, lines[loc.end:]...)
	return joinLines(newLines), result, nil
}

// location describes where the managed section sits in the line slice.
type location struct {
	found bool
	begin int // index of the BEGIN marker line
	end   int // index of the END marker line
}

// locate finds this project's markers by exact string match.
func (m *Manager) locate(lines []string) (location, error) {
	beginMarker, endMarker := m.BeginMarker(), m.EndMarker()
	begin, end := -1, -1
	for i, line := range lines {
		switch line {
		case beginMarker:
			if begin >= 0 {
				return location{}, fmt.Errorf("%w: duplicate begin marker for project %q", ErrMalformedSection, m.projectID)
			}
			begin = i
		case endMarker:
			if end >= 0 {
				return location{}, fmt.Errorf("%w: duplicate end marker for project %q", ErrMalformedSection, m.projectID)
			}
			end = i
		}
	}
	switch {
	case begin < 0 && end < 0:
		return location{}, nil
	case begin < 0:
		return location{}, fmt.Errorf("%w: end marker without begin marker for project %q", ErrMalformedSection, m.projectID)
	case end < 0:
		return location{}, fmt.Errorf("%w: begin marker without end marker for project %q", ErrMalformedSection, m.projectID)
	case end < begin:
		return location{}, fmt.Errorf("%w: end marker precedes begin marker for project %q", ErrMalformedSection, m.projectID)
	}
	return location{found: true, begin: begin, end: end}, nil
}

// splitLines splits crontab content into lines without a phantom empty
// trailing element. Empty content is zero lines.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// joinLines reassembles crontab content with a single trailing newline,
// the form crontab(1) expects.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
