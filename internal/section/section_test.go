// section_test.go tests the managed-section state machine: creation, upsert,
// selective and total removal, idempotence, and non-interference with
// everything outside the markers.
package section

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/pipecron/pipecron/internal/entry"
)

const projectID = "proj1"

func testEntry(name, interval string) entry.Entry {
	return entry.Entry{
		Name:       name,
		Interval:   interval,
		ScriptPath: "/srv/etl/.pipecron/run/" + name + ".sh",
	}
}

func mustInstall(t *testing.T, m *Manager, content string, desired ...entry.Entry) (string, Result) {
	t.Helper()
	out, result, err := m.Install(content, desired)
	if err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	return out, result
}

func TestInstall_CreatesSectionInEmptyFile(t *testing.T) {
	m := NewManager(projectID)
	out, result := mustInstall(t, m, "", testEntry("a-to-b", "23 3 * * 1,3,4"))

	want := "# ----- BEGIN PIPECRON CRONTAB SECTION (proj1) -----\n" +
		"23 3 * * 1,3,4 '/srv/etl/.pipecron/run/a-to-b.sh'\n" +
		"# ----- END PIPECRON CRONTAB SECTION (proj1) -----\n"
	if out != want {
		t.Errorf("content:\n%q\nwant:\n%q", out, want)
	}
	if len(result.Added) != 1 || result.Added[0].Name != "a-to-b" {
		t.Errorf("added = %v", result.Added)
	}
	if len(result.Updated) != 0 {
		t.Errorf("updated = %v, want none", result.Updated)
	}
}

func TestInstall_AppendsSectionAfterExistingContent(t *testing.T) {
	m := NewManager(projectID)
	existing := "MAILTO=ops@example.com\n0 4 * * * /usr/local/bin/backup\n"
	out, _ := mustInstall(t, m, existing, testEntry("a-to-b", "@hourly"))

	if !strings.HasPrefix(out, existing+"\n"+m.BeginMarker()+"\n") {
		t.Errorf("existing content must stay at the top, separated by a blank line:\n%q", out)
	}
	if !strings.HasSuffix(out, m.EndMarker()+"\n") {
		t.Errorf("section must close the file:\n%q", out)
	}
}

func TestInstall_Idempotent(t *testing.T) {
	m := NewManager(projectID)
	desired := []entry.Entry{
		testEntry("a-to-b", "23 3 * * 1,3,4"),
		testEntry("nightly", "0 0 * * *"),
	}
	first, _, err := m.Install("# hand-written\n", desired)
	if err != nil {
		t.Fatalf("first install: %v", err)
	}
	second, _, err := m.Install(first, desired)
	if err != nil {
		t.Fatalf("second install: %v", err)
	}
	if first != second {
		t.Errorf("second install not byte-identical:\nfirst:\n%q\nsecond:\n%q", first, second)
	}
}

func TestInstall_UpsertReplacesInPlace(t *testing.T) {
	m := NewManager(projectID)
	content, _ := mustInstall(t, m, "",
		testEntry("a", "0 1 * * *"),
		testEntry("b", "0 2 * * *"),
		testEntry("c", "0 3 * * *"),
	)

	out, result := mustInstall(t, m, content, testEntry("b", "30 2 * * *"))

	entries, err := m.List(out)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	names := entryNames(entries)
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("order changed: %v", names)
	}
	if entries[1].Interval != "30 2 * * *" {
		t.Errorf("b interval = %q, want updated", entries[1].Interval)
	}
	if entries[0].Interval != "0 1 * * *" || entries[2].Interval != "0 3 * * *" {
		t.Errorf("untouched entries changed: %v", entries)
	}
	if len(result.Updated) != 1 || result.Updated[0].Name != "b" {
		t.Errorf("updated = %v", result.Updated)
	}
	if len(result.Added) != 0 {
		t.Errorf("added = %v, want none", result.Added)
	}
}

func TestInstall_NewNameAppends(t *testing.T) {
	m := NewManager(projectID)
	content, _ := mustInstall(t, m, "", testEntry("a", "0 1 * * *"))
	out, result := mustInstall(t, m, content, testEntry("z", "0 9 * * *"))

	entries, _ := m.List(out)
	if !reflect.DeepEqual(entryNames(entries), []string{"a", "z"}) {
		t.Errorf("names = %v, want [a z]", entryNames(entries))
	}
	if len(result.Added) != 1 || result.Added[0].Name != "z" {
		t.Errorf("added = %v", result.Added)
	}
}

func TestInstall_NeverDeletes(t *testing.T) {
	m := NewManager(projectID)
	content, _ := mustInstall(t, m, "",
		testEntry("a", "0 1 * * *"),
		testEntry("b", "0 2 * * *"),
	)
	// Installing a subset must not remove the rest.
	out, _ := mustInstall(t, m, content, testEntry("a", "5 1 * * *"))
	entries, _ := m.List(out)
	if !reflect.DeepEqual(entryNames(entries), []string{"a", "b"}) {
		t.Errorf("names = %v, want [a b]", entryNames(entries))
	}
}

func TestInstall_PreservesUnrecognizedLinesInSection(t *testing.T) {
	m := NewManager(projectID)
	manual := "# keep me\n0 5 * * * /usr/bin/manual-thing"
	content := m.BeginMarker() + "\n" + manual + "\n" + m.EndMarker() + "\n"

	out, _ := mustInstall(t, m, content, testEntry("a", "0 1 * * *"))
	if !strings.Contains(out, manual) {
		t.Errorf("manual lines inside the section were destroyed:\n%q", out)
	}
}

func TestNonInterference(t *testing.T) {
	m := NewManager(projectID)
	before := "PATH=/usr/bin\n# user comment\n1 2 3 4 5 echo before\n"
	after := "# trailing user content\n7 7 * * * echo after\n"
	content := before +
		m.BeginMarker() + "\n" +
		entry.Encode(testEntry("a", "0 1 * * *")) + "\n" +
		m.EndMarker() + "\n" +
		after

	ops := []func(string) (string, error){
		func(c string) (string, error) {
			out, _, err := m.Install(c, []entry.Entry{testEntry("b", "0 2 * * *")})
			return out, err
		},
		func(c string) (string, error) {
			out, _, err := m.Uninstall(c, []string{"a"}, false)
			return out, err
		},
		func(c string) (string, error) {
			out, _, err := m.Uninstall(c, nil, true)
			return out, err
		},
	}
	for i, op := range ops {
		out, err := op(content)
		if err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		if !strings.HasPrefix(out, before) {
			t.Errorf("op %d rewrote lines before the section:\n%q", i, out)
		}
		if !strings.HasSuffix(out, after) {
			t.Errorf("op %d rewrote lines after the section:\n%q", i, out)
		}
	}
}

func TestUninstall_Selective(t *testing.T) {
	m := NewManager(projectID)
	content, _ := mustInstall(t, m, "",
		testEntry("a", "0 1 * * *"),
		testEntry("b", "0 2 * * *"),
		testEntry("c", "0 3 * * *"),
	)

	out, result, err := m.Uninstall(content, []string{"a"}, false)
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	entries, _ := m.List(out)
	if !reflect.DeepEqual(entryNames(entries), []string{"b", "c"}) {
		t.Errorf("remaining = %v, want [b c]", entryNames(entries))
	}
	if !reflect.DeepEqual(result.RemovedNames(), []string{"a"}) {
		t.Errorf("removed = %v, want [a]", result.RemovedNames())
	}
}

func TestUninstall_AllKeepsMarkersAndUnrecognizedLines(t *testing.T) {
	m := NewManager(projectID)
	content := m.BeginMarker() + "\n" +
		"# manual note\n" +
		entry.Encode(testEntry("a", "0 1 * * *")) + "\n" +
		entry.Encode(testEntry("b", "0 2 * * *")) + "\n" +
		m.EndMarker() + "\n"

	out, result, err := m.Uninstall(content, nil, true)
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	want := m.BeginMarker() + "\n# manual note\n" + m.EndMarker() + "\n"
	if out != want {
		t.Errorf("content:\n%q\nwant:\n%q", out, want)
	}
	if !reflect.DeepEqual(result.RemovedNames(), []string{"a", "b"}) {
		t.Errorf("removed = %v", result.RemovedNames())
	}
}

func TestUninstall_MissingNameIsNotAnError(t *testing.T) {
	m := NewManager(projectID)
	content, _ := mustInstall(t, m, "", testEntry("a", "0 1 * * *"))

	out, result, err := m.Uninstall(content, []string{"ghost"}, false)
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if out != content {
		t.Errorf("content changed for a name that was never installed")
	}
	if len(result.Removed) != 0 {
		t.Errorf("removed = %v, want none", result.Removed)
	}
}

func TestUninstall_NoSectionIsNoOp(t *testing.T) {
	m := NewManager(projectID)
	content := "0 4 * * * /usr/local/bin/backup\n"
	out, result, err := m.Uninstall(content, nil, true)
	if err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if out != content {
		t.Errorf("content = %q, want unchanged", out)
	}
	if len(result.Removed) != 0 {
		t.Errorf("removed = %v, want none", result.Removed)
	}
}

func TestList_NoSectionIsEmpty(t *testing.T) {
	m := NewManager(projectID)
	entries, err := m.List("0 4 * * * /usr/local/bin/backup\n")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want none", entries)
	}
}

func TestProjectsDoNotCollide(t *testing.T) {
	m1 := NewManager("proj1")
	m2 := NewManager("proj2")

	content, _ := mustInstall(t, m1, "", testEntry("a", "0 1 * * *"))
	content, _ = mustInstall(t, m2, content, testEntry("x", "0 9 * * *"))

	ours, err := m1.List(content)
	if err != nil {
		t.Fatalf("List proj1: %v", err)
	}
	if !reflect.DeepEqual(entryNames(ours), []string{"a"}) {
		t.Errorf("proj1 entries = %v", entryNames(ours))
	}
	theirs, err := m2.List(content)
	if err != nil {
		t.Fatalf("List proj2: %v", err)
	}
	if !reflect.DeepEqual(entryNames(theirs), []string{"x"}) {
		t.Errorf("proj2 entries = %v", entryNames(theirs))
	}

	// Wiping one project leaves the other alone.
	out, _, err := m1.Uninstall(content, nil, true)
	if err != nil {
		t.Fatalf("Uninstall proj1: %v", err)
	}
	theirs, _ = m2.List(out)
	if !reflect.DeepEqual(entryNames(theirs), []string{"x"}) {
		t.Errorf("proj2 entries after proj1 wipe = %v", entryNames(theirs))
	}
}

func TestMalformedSection(t *testing.T) {
	m := NewManager(projectID)
	cases := map[string]string{
		"begin without end":  m.BeginMarker() + "\n",
		"end without begin":  m.EndMarker() + "\n",
		"duplicate begin":    m.BeginMarker() + "\n" + m.BeginMarker() + "\n" + m.EndMarker() + "\n",
		"duplicate end":      m.BeginMarker() + "\n" + m.EndMarker() + "\n" + m.EndMarker() + "\n",
		"end precedes begin": m.EndMarker() + "\n" + m.BeginMarker() + "\n",
	}
	for name, content := range cases {
		if _, _, err := m.Install(content, []entry.Entry{testEntry("a", "0 1 * * *")}); !errors.Is(err, ErrMalformedSection) {
			t.Errorf("%s: Install err = %v, want ErrMalformedSection", name, err)
		}
		if _, err := m.List(content); !errors.Is(err, ErrMalformedSection) {
			t.Errorf("%s: List err = %v, want ErrMalformedSection", name, err)
		}
		if _, _, err := m.Uninstall(content, nil, true); !errors.Is(err, ErrMalformedSection) {
			t.Errorf("%s: Uninstall err = %v, want ErrMalformedSection", name, err)
		}
	}
}

func entryNames(entries []entry.Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
