package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/datamodeler/internal/config"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"datamodeler.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Extract a data file's structure and regenerate the species documents"`
	Render   RenderCmd   `cmd:"" help:"Re-render documents from the persisted record without extraction"`
	Index    IndexCmd    `cmd:"" help:"Build directory indexes over the records tree"`
	Watch    WatchCmd    `cmd:"" help:"Re-render documents when record files change"`
	History  HistoryCmd  `cmd:"" help:"List recent generation and render runs"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
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

// loadConfig loads the configuration named by the global flag.
func loadConfig(cli *CLI) (*config.Config, error) {
	return config.Load(cli.Config)
}
