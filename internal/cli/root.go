// Package cli implements the pipecron command tree.
//
// pipecron install [name...]   - merge schedule entries into the managed section
// pipecron uninstall [name...] - remove entries (--all for every managed entry)
// pipecron list                - show the managed entries
// pipecron version             - print build information
//
// Global flags select the project file, the entry store, and logging.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipecron/pipecron/internal/config"
	"github.com/pipecron/pipecron/internal/logging"
	"github.com/pipecron/pipecron/internal/store"
)

// app carries flag values and injectable seams shared by all commands.
type app struct {
	configPath string
	storeName  string
	logLevel   string
	logFormat  string

	// stdout receives reports and stdout-store output.
	stdout io.Writer

	// overrideStore replaces flag-based store selection in tests.
	overrideStore store.Store
}

// NewRootCmd builds the pipecron command tree for real invocations.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{stdout: os.Stdout})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipecron",
		Short: "Manage pipeline schedules in the user crontab",
		Long: `pipecron translates the schedule definitions of a project file into
cron entries and generated wrapper scripts, kept inside a marker-delimited
section of the user crontab. Content outside the managed section is never
touched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultConfigName, "path to the project file")
	flags.StringVar(&a.storeName, "store", store.CrontabStoreName, "entry store: crontab or stdout")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides project file)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text, json, journal, auto (overrides project file)")

	cmd.AddCommand(
		newInstallCmd(a),
		newUninstallCmd(a),
		newListCmd(a),
		newVersionCmd(a),
	)
	return cmd
}

// loadConfig reads the project file and configures logging from it,
// with flag overrides applied.
func (a *app) loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, nil, err
	}
	level, format := cfg.LogLevel, cfg.LogFormat
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.logFormat != "" {
		format = a.logFormat
	}
	logger := logging.SetupLogger(level, format)
	return cfg, logger, nil
}

// openStore resolves the entry store selected by flags.
func (a *app) openStore() (store.Store, error) {
	if a.overrideStore != nil {
		return a.overrideStore, nil
	}
	return store.New(a.storeName, a.stdout)
}
