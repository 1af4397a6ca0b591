package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pybundle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "entry_script: bridge.py\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bridge", cfg.Project, "project should default to entry script stem")
	assert.Equal(t, "requirements.txt", cfg.Requirements)
	assert.Equal(t, ".venv", cfg.VenvDir)
	assert.Equal(t, "artifacts", cfg.ArtifactDir)
	assert.Equal(t, "gz", cfg.Archive.Format)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.True(t, cfg.HistoryEnabled())
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("PYBUNDLE_TEST_PROJECT", "envproj")
	path := writeConfig(t, "project: ${PYBUNDLE_TEST_PROJECT}\nentry_script: main.py\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "envproj", cfg.Project)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadOrDefaultMissingDefaultFile(t *testing.T) {
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })

	cfg, err := LoadOrDefault(DefaultFile)
	require.NoError(t, err)
	assert.Equal(t, "main.py", cfg.EntryScript)
	assert.Equal(t, "main", cfg.Project)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"separator in project", func(c *Config) { c.Project = "a/b" }, "path separators"},
		{"non-python entry", func(c *Config) { c.EntryScript = "main.sh" }, ".py file"},
		{"bad archive format", func(c *Config) { c.Archive.Format = "zip" }, "archive.format"},
		{"negative debounce", func(c *Config) { c.Watch.Debounce = -time.Second }, "debounce"},
		{"notify without subject", func(c *Config) { c.Notify.Enabled = true; c.Notify.Subject = "" }, "notify.subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestArchiveNaming(t *testing.T) {
	cfg := &Config{Project: "demo"}
	cfg.applyDefaults()
	assert.Equal(t, "demo_artifact.tar.gz", cfg.ArchiveName())

	cfg.Archive.Format = "xz"
	assert.Equal(t, "demo_artifact.tar.xz", cfg.ArchiveName())

	cfg.Archive.Dir = "out"
	assert.Equal(t, filepath.Join("out", "demo_artifact.tar.xz"), cfg.ArchivePath())
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pybundle.yaml")

	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Project)
	assert.Equal(t, "demo.py", cfg.EntryScript)
}
