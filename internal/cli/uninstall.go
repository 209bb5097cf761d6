// uninstall.go implements "pipecron uninstall [name...] [--all]".

package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipecron/pipecron/internal/manifest"
	"github.com/pipecron/pipecron/internal/schedule"
	"github.com/pipecron/pipecron/internal/section"
)

func newUninstallCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "uninstall [name...]",
		Short: "Remove schedule entries from the managed crontab section",
		Long: `Uninstall removes managed entries and their generated wrapper scripts.
Without arguments only schedules currently defined in the project are
removed; --all removes every managed entry, including ones whose schedule
definitions are gone. The section markers and any hand-written lines inside
the section always survive. Names that are not installed are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUninstall(cmd.Context(), args, all)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "remove every managed entry, not just the project's current schedules")
	return cmd
}

func (a *app) runUninstall(ctx context.Context, names []string, all bool) error {
	cfg, logger, err := a.loadConfig()
	if err != nil {
		return err
	}
	if !all && len(names) == 0 {
		names = schedule.Names(cfg.Schedules)
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
	newContent, result, err := manager.Uninstall(content, names, all)
	if err != nil {
		return err
	}
	if newContent != content {
		if err := st.Save(ctx, newContent); err != nil {
			return err
		}
	}

	man, err := manifest.Open(cfg.StatePath)
	if err != nil {
		return err
	}
	defer man.Close()

	for _, e := range result.Removed {
		removeScript(logger, e.ScriptPath)
		if err := man.Delete(e.Name); err != nil {
			return err
		}
	}
	// The manifest may know about scripts whose crontab entries were removed
	// by hand; clean those up too.
	if all {
		records, err := man.All()
		if err != nil {
			return err
		}
		for _, rec := range records {
			removeScript(logger, rec.Path)
			if err := man.Delete(rec.Name); err != nil {
				return err
			}
		}
	} else {
		for _, name := range names {
			rec, found, err := man.Get(name)
			if err != nil {
				return err
			}
			if !found {
				continue
			}
			removeScript(logger, rec.Path)
			if err := man.Delete(name); err != nil {
				return err
			}
		}
	}

	logger.Info("uninstall complete",
		"project", cfg.ProjectID,
		"store", st.Name(),
		"removed", len(result.Removed),
	)
	renderUninstallResult(a.stdout, result)
	return nil
}

// removeScript deletes a generated wrapper script. A script that is already
// gone is fine; anything else is logged but does not fail the operation,
// since the crontab entry itself is already removed.
func removeScript(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not remove script", "path", path, "error", err)
	}
}
