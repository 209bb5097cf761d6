// Package script builds the executable wrapper scripts that managed crontab
// entries point at.
//
// Cron runs jobs with a minimal environment, so each schedule gets a small
// shell wrapper that restores the environment captured at install time
// (working directory, PATH, virtual environment), exports the schedule's own
// variables, invokes the runner, and pipes combined output to syslog.
// Building is pure; writing to disk is a separate step.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pipecron/pipecron/internal/schedule"
)

// Environment is the execution context captured when scripts are generated.
type Environment struct {
	// ProjectDir is the project directory the wrapper cds into.
	ProjectDir string

	// Path is the PATH value captured at install time. It is prepended to
	// the PATH cron provides.
	Path string

	// VirtualEnv is the virtual environment root captured at install time.
	// Empty when none was active; the wrapper then skips activation.
	VirtualEnv string

	// SyslogTag tags the wrapper's output in syslog.
	SyslogTag string
}

// CaptureEnvironment snapshots the current process environment for the
// given project directory.
func CaptureEnvironment(projectDir, syslogTag string) Environment {
	return Environment{
		ProjectDir: projectDir,
		Path:       os.Getenv("PATH"),
		VirtualEnv: os.Getenv("VIRTUAL_ENV"),
		SyslogTag:  syslogTag,
	}
}

// Script is a generated wrapper: its target path and full content.
type Script struct {
	Name    string
	Path    string
	Content string
}

// Builder generates wrapper scripts for one project.
type Builder struct {
	runner string
	dir    string
	env    Environment
}

// NewBuilder creates a Builder. runner is the pipeline runner binary
// (e.g. "meltano"); dir is the per-project scripts directory.
func NewBuilder(runner, dir string, env Environment) *Builder {
	return &Builder{runner: runner, dir: dir, env: env}
}

// PathFor returns the deterministic script path for a schedule name.
// Regenerating a schedule always targets the same path, so scripts are
// overwritten rather than accumulated.
func (b *Builder) PathFor(name string) string {
	return filepath.Join(b.dir, name+".sh")
}

// Build produces the wrapper script for one schedule definition.
// No side effects; see Write.
func (b *Builder) Build(def schedule.Definition) Script {
	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&sb, "# Generated by pipecron for schedule '%s'. Do not edit.\n", def.Name)
	fmt.Fprintf(&sb, "cd %s || exit 1\n", shellQuote(b.env.ProjectDir))
	fmt.Fprintf(&sb, "PATH=%s:\"$PATH\"\n", shellQuote(b.env.Path))
	sb.WriteString("export PATH\n")
	if b.env.VirtualEnv != "" {
		fmt.Fprintf(&sb, ". %s\n", shellQuote(filepath.Join(b.env.VirtualEnv, "bin", "activate")))
	}
	for _, key := range sortedKeys(def.Env) {
		fmt.Fprintf(&sb, "export %s=%s\n", key, shellQuote(def.Env[key]))
	}
	fmt.Fprintf(&sb, "%s 2>&1 | /usr/bin/logger -t %s\n", b.command(def), shellQuote(b.env.SyslogTag))

	return Script{
		Name:    def.Name,
		Path:    b.PathFor(def.Name),
		Content: sb.String(),
	}
}

// command renders the runner invocation for either definition variant.
func (b *Builder) command(def schedule.Definition) string {
	if def.Kind() == schedule.KindJob {
		return fmt.Sprintf("%s run %s", b.runner, strings.Join(def.Job.Tasks, " "))
	}
	return fmt.Sprintf("%s elt %s %s --transform=%s",
		b.runner, def.Pipeline.Extractor, def.Pipeline.Loader, def.TransformMode())
}

// Write persists a built script, executable by the owning user.
func Write(s Script) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("create scripts directory: %w", err)
	}
	if err := os.WriteFile(s.Path, []byte(s.Content), 0o755); err != nil {
		return fmt.Errorf("write script %s: %w", s.Path, err)
	}
	return nil
}

// shellQuote single-quotes a value for POSIX sh, escaping embedded quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
