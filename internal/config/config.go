// Package config provides configuration management for pipecron.
// It uses koanf v2 to load the project file (pipecron.yml by default),
// which names the project, the pipeline runner, and the schedule
// definitions to manage.
//
// The directory containing the project file is the project directory:
// generated scripts and local state live underneath it unless overridden.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pipecron/pipecron/internal/schedule"
)

// DefaultConfigName is the project file looked up in the working directory
// when no --config flag is given.
const DefaultConfigName = "pipecron.yml"

// Config holds the project configuration loaded from the YAML project file.
type Config struct {
	// ProjectID uniquely identifies this project. It is embedded in the
	// crontab section markers, so two projects sharing one crontab never
	// collide. Required.
	ProjectID string `koanf:"project_id"`

	// Runner is the pipeline runner binary invoked by generated scripts.
	// Default: "meltano".
	Runner string `koanf:"runner"`

	// ScriptsDir is where generated wrapper scripts are written.
	// Default: <project>/.pipecron/run.
	ScriptsDir string `koanf:"scripts_dir"`

	// StatePath is the location of the local script manifest database.
	// Default: <project>/.pipecron/state.db.
	StatePath string `koanf:"state_path"`

	// SyslogTag tags wrapper script output in syslog. Default: "pipecron".
	SyslogTag string `koanf:"syslog_tag"`

	// LogLevel controls pipecron's own logging verbosity.
	// Valid values: "debug", "info", "warn", "error". Default: "info".
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log output format: "text", "json", "journal"
	// or "auto". Default: "auto".
	LogFormat string `koanf:"log_format"`

	// Schedules are the definitions this project manages.
	Schedules []schedule.Definition `koanf:"schedules"`

	// ProjectDir is the directory containing the project file.
	// Derived, not loaded.
	ProjectDir string `koanf:"-"`
}

// Validation errors for required fields.
var (
	ErrProjectIDRequired = errors.New("project_id is required")
)

// Load reads configuration from the specified YAML project file path.
// It applies defaults for optional fields and validates the schedule
// definitions.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	cfg.ProjectDir = filepath.Dir(abs)

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields.
func (c *Config) applyDefaults() {
	if c.Runner == "" {
		c.Runner = "meltano"
	}
	if c.ScriptsDir == "" {
		c.ScriptsDir = filepath.Join(c.ProjectDir, ".pipecron", "run")
	}
	if c.StatePath == "" {
		c.StatePath = filepath.Join(c.ProjectDir, ".pipecron", "state.db")
	}
	if c.SyslogTag == "" {
		c.SyslogTag = "pipecron"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "auto"
	}
}

// validate checks that required configuration fields are present and that
// the schedule definitions are structurally sound.
func (c *Config) validate() error {
	if c.ProjectID == "" {
		return ErrProjectIDRequired
	}
	switch c.LogFormat {
	case "text", "json", "journal", "auto":
	default:
		return fmt.Errorf("log_format must be one of text, json, journal, auto (got %q)", c.LogFormat)
	}
	if err := schedule.ValidateAll(c.Schedules); err != nil {
		return err
	}
	return nil
}
