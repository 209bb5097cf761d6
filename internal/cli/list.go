// list.go implements "pipecron list".

package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipecron/pipecron/internal/interval"
	"github.com/pipecron/pipecron/internal/section"
)

func newListCmd(a *app) *cobra.Command {
	var format string
	var withNext bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entries in the managed crontab section",
		Long: `List decodes the managed section and prints its entries. The crontab is
never modified. A missing section simply lists nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd.Context(), format, withNext)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&withNext, "next", false, "include the next execution time of each entry")
	return cmd
}

func (a *app) runList(ctx context.Context, format string, withNext bool) error {
	cfg, _, err := a.loadConfig()
	if err != nil {
		return err
	}
	st, err := a.openStore()
	if err != nil {
		return err
	}
	content, err := st.Load(ctx)
	if err != nil {
		return err
	}

	entries, err := section.NewManager(cfg.ProjectID).List(content)
	if err != nil {
		return err
	}

	report := listReport{Project: cfg.ProjectID}
	var parser *interval.CronParser
	if withNext {
		parser = interval.NewCronParser()
	}
	now := time.Now()
	for _, e := range entries {
		item := listEntry{Name: e.Name, Interval: e.Interval, Script: e.ScriptPath}
		if parser != nil {
			// Entries that cron itself would reject have no next run.
			if next, err := parser.NextRun(e.Interval, now); err == nil {
				item.NextRun = next.Format(time.RFC3339)
			} else {
				item.NextRun = "unknown"
			}
		}
		report.Entries = append(report.Entries, item)
	}
	return renderListReport(a.stdout, format, report)
}
