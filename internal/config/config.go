package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file name looked up when none is given.
const DefaultFile = "pybundle.yaml"

// Config represents the application configuration.
type Config struct {
	Project      string        `yaml:"project"`
	EntryScript  string        `yaml:"entry_script"`
	Requirements string        `yaml:"requirements"`
	VenvDir      string        `yaml:"venv_dir"`
	ArtifactDir  string        `yaml:"artifact_dir"`
	Python       PythonConfig  `yaml:"python,omitempty"`
	Archive      ArchiveConfig `yaml:"archive,omitempty"`
	History      HistoryConfig `yaml:"history,omitempty"`
	Watch        WatchConfig   `yaml:"watch,omitempty"`
	Notify       NotifyConfig  `yaml:"notify,omitempty"`
}

// PythonConfig selects the interpreter used to create the build environment.
type PythonConfig struct {
	// Interpreter is the base interpreter binary. Empty means autodetect
	// (python3, then python, on PATH).
	Interpreter string `yaml:"interpreter,omitempty"`
}

// ArchiveConfig controls the final distribution archive.
type ArchiveConfig struct {
	Format string `yaml:"format,omitempty"` // "gz" (default) or "xz"
	Dir    string `yaml:"dir,omitempty"`    // output directory, default "."
}

// HistoryConfig controls the local build-run store.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"` // default true
	Path    string `yaml:"path,omitempty"`    // default .pybundle/history.db
}

// WatchConfig controls watch mode (continuous rebuilds).
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce,omitempty"` // default 2s
	Interval time.Duration `yaml:"interval,omitempty"` // optional scheduled rebuild, 0 = disabled
	Listen   string        `yaml:"listen,omitempty"`   // admin HTTP address (/metrics, /healthz), empty = disabled
}

// NotifyConfig controls optional NATS build-event publishing.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`     // default nats.DefaultURL
	Subject string `yaml:"subject,omitempty"` // default pybundle.builds
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; existing process env always wins.
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load, except that a missing default-named file is
// not an error: the built-in defaults are used so `pybundle build` works with
// no configuration at all.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" || configPath == DefaultFile {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			cfg := &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
	}
	return Load(configPath)
}

// applyDefaults fills zero values with the fixed build-time defaults.
func (c *Config) applyDefaults() {
	if c.EntryScript == "" {
		c.EntryScript = "main.py"
	}
	if c.Project == "" {
		base := filepath.Base(c.EntryScript)
		c.Project = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if c.Requirements == "" {
		c.Requirements = "requirements.txt"
	}
	if c.VenvDir == "" {
		c.VenvDir = ".venv"
	}
	if c.ArtifactDir == "" {
		c.ArtifactDir = "artifacts"
	}
	if c.Archive.Format == "" {
		c.Archive.Format = "gz"
	}
	if c.Archive.Dir == "" {
		c.Archive.Dir = "."
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(".pybundle", "history.db")
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 2 * time.Second
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = "pybundle.builds"
	}
}

// HistoryEnabled reports whether build runs should be recorded (default true).
func (c *Config) HistoryEnabled() bool {
	if c.History.Enabled == nil {
		return true
	}
	return *c.History.Enabled
}

// ArchiveName returns the fixed archive file name for this project.
func (c *Config) ArchiveName() string {
	return fmt.Sprintf("%s_artifact.tar.%s", c.Project, c.Archive.Format)
}

// ArchivePath returns the full path the archive is written to.
func (c *Config) ArchivePath() string {
	return filepath.Join(c.Archive.Dir, c.ArchiveName())
}
