// Package schedule defines pipeline schedule definitions: what runs, and on
// what interval. A definition runs either an extractor/loader pipeline or a
// named job (an ordered list of runner tasks) - exactly one of the two.
package schedule

import (
	"fmt"
)

// Transform modes for pipeline definitions.
const (
	TransformRun  = "run"
	TransformSkip = "skip"
	TransformOnly = "only"
)

// Kind discriminates what a schedule definition runs.
type Kind string

const (
	KindPipeline Kind = "pipeline"
	KindJob      Kind = "job"
)

// Pipeline is an extractor/loader pair with a transform mode.
type Pipeline struct {
	Extractor string `koanf:"extractor" json:"extractor" yaml:"extractor"`
	Loader    string `koanf:"loader" json:"loader" yaml:"loader"`
	Transform string `koanf:"transform" json:"transform" yaml:"transform"`
}

// Job is an ordered sequence of runner task commands.
type Job struct {
	Tasks []string `koanf:"tasks" json:"tasks" yaml:"tasks"`
}

// Definition is one named schedule. Immutable once loaded.
// Exactly one of Pipeline or Job is set.
type Definition struct {
	Name     string            `koanf:"name" json:"name" yaml:"name"`
	Interval string            `koanf:"interval" json:"interval" yaml:"interval"`
	Env      map[string]string `koanf:"env" json:"env,omitempty" yaml:"env,omitempty"`
	Pipeline *Pipeline         `koanf:"pipeline" json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	Job      *Job              `koanf:"job" json:"job,omitempty" yaml:"job,omitempty"`
}

// Kind reports whether the definition runs a pipeline or a job.
func (d *Definition) Kind() Kind {
	if d.Job != nil {
		return KindJob
	}
	return KindPipeline
}

// Validate checks a single definition for structural problems.
// Interval syntax is checked separately by the interval package.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("schedule has no name")
	}
	if !validName(d.Name) {
		return fmt.Errorf("schedule %q: name may only contain letters, digits, '-' and '_'", d.Name)
	}
	if d.Interval == "" {
		return fmt.Errorf("schedule %q: missing interval", d.Name)
	}
	if (d.Pipeline == nil) == (d.Job == nil) {
		return fmt.Errorf("schedule %q: exactly one of pipeline or job must be set", d.Name)
	}
	if d.Pipeline != nil {
		if d.Pipeline.Extractor == "" || d.Pipeline.Loader == "" {
			return fmt.Errorf("schedule %q: pipeline requires both extractor and loader", d.Name)
		}
		switch d.Pipeline.Transform {
		case "", TransformRun, TransformSkip, TransformOnly:
		default:
			return fmt.Errorf("schedule %q: transform must be one of run, skip, only", d.Name)
		}
	}
	if d.Job != nil && len(d.Job.Tasks) == 0 {
		return fmt.Errorf("schedule %q: job requires at least one task", d.Name)
	}
	return nil
}

// TransformMode returns the pipeline transform mode with the default applied.
// Only meaningful for pipeline definitions.
func (d *Definition) TransformMode() string {
	if d.Pipeline == nil || d.Pipeline.Transform == "" {
		return TransformSkip
	}
	return d.Pipeline.Transform
}

// ValidateAll validates every definition and rejects duplicate names.
func ValidateAll(defs []Definition) error {
	seen := make(map[string]struct{}, len(defs))
	for i := range defs {
		d := &defs[i]
		if err := d.Validate(); err != nil {
			return err
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("duplicate schedule name %q", d.Name)
		}
		seen[d.Name] = struct{}{}
	}
	return nil
}

// Select resolves an explicit name-list scope against the known definitions.
// It returns the matching definitions in request order, plus the requested
// names that matched nothing. Unknown names are not an error: callers report
// them and continue with the rest.
func Select(defs []Definition, names []string) (selected []Definition, unknown []string) {
	if len(names) == 0 {
		return defs, nil
	}
	byName := make(map[string]*Definition, len(defs))
	for i := range defs {
		byName[defs[i].Name] = &defs[i]
	}
	for _, name := range names {
		if d, ok := byName[name]; ok {
			selected = append(selected, *d)
		} else {
			unknown = append(unknown, name)
		}
	}
	return selected, unknown
}

// Names returns the definition names in order.
func Names(defs []Definition) []string {
	names := make([]string, len(defs))
	for i := range defs {
		names[i] = defs[i].Name
	}
	return names
}

func validName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
