package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/MarcoChavezB/pybundle/internal/config"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"pybundle.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Run the full build pipeline and package the archive"`
	Check   CheckCmd   `cmd:"" help:"Run environment, dependency and syntax stages without freezing"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Clean   CleanCmd   `cmd:"" help:"Remove build outputs from previous runs"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild continuously when source files change"`
	History HistoryCmd `cmd:"" help:"List recent recorded build runs"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig resolves the effective configuration for a command. A missing
// file under the default name falls back to pure defaults so pybundle works
// out of the box in a directory holding just main.py and requirements.txt.
func loadConfig(root *CLI) (*config.Config, error) {
	return config.LoadOrDefault(root.Config)
}
