// install.go implements "pipecron install [name...]".

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pipecron/pipecron/internal/entry"
	"github.com/pipecron/pipecron/internal/interval"
	"github.com/pipecron/pipecron/internal/manifest"
	"github.com/pipecron/pipecron/internal/schedule"
	"github.com/pipecron/pipecron/internal/script"
	"github.com/pipecron/pipecron/internal/section"
)

func newInstallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install [name...]",
		Short: "Install schedule entries into the managed crontab section",
		Long: `Install merges the project's schedules into the managed crontab section
with upsert semantics: existing entries are replaced in place, new ones are
appended. Without arguments every schedule is installed; with arguments only
the named ones. Entries already in the section but not named are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInstall(cmd.Context(), args)
		},
	}
}

func (a *app) runInstall(ctx context.Context, names []string) error {
	cfg, logger, err := a.loadConfig()
	if err != nil {
		return err
	}

	selected, unknown := schedule.Select(cfg.Schedules, names)
	for _, name := range unknown {
		logger.Error("schedule not found in project", "schedule", name)
	}

	builder := script.NewBuilder(cfg.Runner, cfg.ScriptsDir,
		script.CaptureEnvironment(cfg.ProjectDir, cfg.SyslogTag))

	var desired []entry.Entry
	var scripts []script.Script
	var failed []string
	for _, def := range selected {
		canonical, err := interval.TranslateFor(def.Name, def.Interval)
		if err != nil {
			// One bad interval fails that schedule only; the rest proceed.
			logger.Error("skipping schedule", "schedule", def.Name, "error", err)
			failed = append(failed, def.Name)
			continue
		}
		s := builder.Build(def)
		desired = append(desired, entry.Entry{
			Name:       def.Name,
			Interval:   canonical,
			ScriptPath: s.Path,
		})
		scripts = append(scripts, s)
	}

	st, err := a.openStore()
	if err != nil {
		return err
	}
	content, err := st.Load(ctx)
	if err != nil {
		return err
	}

	manager := section.NewManager(cfg.ProjectID)
	newContent, result, err := manager.Install(content, desired)
	if err != nil {
		return err
	}

	// Scripts first: once the crontab points at them they must exist.
	for _, s := range scripts {
		if err := script.Write(s); err != nil {
			return err
		}
	}
	if err := st.Save(ctx, newContent); err != nil {
		return err
	}

	man, err := manifest.Open(cfg.StatePath)
	if err != nil {
		return err
	}
	defer man.Close()
	now := time.Now().UTC()
	for i, s := range scripts {
		rec := manifest.Record{
			Name:      s.Name,
			Path:      s.Path,
			Interval:  desired[i].Interval,
			WrittenAt: now,
		}
		if err := man.Put(rec); err != nil {
			return err
		}
	}

	logger.Info("install complete",
		"project", cfg.ProjectID,
		"store", st.Name(),
		"added", len(result.Added),
		"updated", len(result.Updated),
	)
	renderInstallResult(a.stdout, result)

	if skipped := append(failed, unknown...); len(skipped) > 0 {
		return fmt.Errorf("not installed: %s", strings.Join(skipped, ", "))
	}
	return nil
}
