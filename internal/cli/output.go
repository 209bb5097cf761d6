// output.go renders operation reports in text, JSON and YAML.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/pipecron/pipecron/internal/section"
)

// Output formats accepted by list --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// listReport is the structured form of "pipecron list" output.
type listReport struct {
	Project string      `json:"project" yaml:"project"`
	Entries []listEntry `json:"entries" yaml:"entries"`
}

type listEntry struct {
	Name     string `json:"name" yaml:"name"`
	Interval string `json:"interval" yaml:"interval"`
	Script   string `json:"script" yaml:"script"`
	NextRun  string `json:"next_run,omitempty" yaml:"next_run,omitempty"`
}

func renderListReport(w io.Writer, format string, report listReport) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(report)
	case formatText:
		if len(report.Entries) == 0 {
			fmt.Fprintf(w, "no entries installed for project %s\n", report.Project)
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, e := range report.Entries {
			if e.NextRun != "" {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Interval, e.NextRun, e.Script)
			} else {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Interval, e.Script)
			}
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func renderInstallResult(w io.Writer, result section.Result) {
	for _, e := range result.Added {
		fmt.Fprintf(w, "added %s (%s)\n", e.Name, e.Interval)
	}
	for _, e := range result.Updated {
		fmt.Fprintf(w, "updated %s (%s)\n", e.Name, e.Interval)
	}
	if len(result.Added)+len(result.Updated) == 0 {
		fmt.Fprintln(w, "nothing to install")
	}
}

func renderUninstallResult(w io.Writer, result section.Result) {
	for _, e := range result.Removed {
		fmt.Fprintf(w, "removed %s\n", e.Name)
	}
	if len(result.Removed) == 0 {
		fmt.Fprintln(w, "nothing to remove")
	}
}
