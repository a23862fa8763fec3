package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/datamodeler/internal/index"
	"git.home.luguber.info/inful/datamodeler/internal/render"
)

// IndexCmd builds per-directory index.yaml and index.html files over the
// records tree.
type IndexCmd struct {
	Root string `arg:"" optional:"" help:"Directory to index (default: configured records directory)"`
}

func (i *IndexCmd) Run(global *Global, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	root := i.Root
	if root == "" {
		root = cfg.RecordsDir()
	}

	renderer, err := render.New(cfg.Templates)
	if err != nil {
		return err
	}

	if err := index.New(renderer, global.Logger).Build(root); err != nil {
		return err
	}
	global.Logger.Info("indexes built", slog.String("root", root))
	return nil
}
