package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/datamodeler/internal/generator"
)

// RenderCmd re-renders a species' documents from its persisted record. Used
// after a human has hand-edited the record YAML.
type RenderCmd struct {
	Species string `arg:"" help:"File species name"`
	Release string `short:"r" help:"Release id to use as the document example (default: most recent)"`
}

func (r *RenderCmd) Run(global *Global, cli *CLI) error {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	gen, err := generator.New(cfg, global.Logger)
	if err != nil {
		return err
	}
	closeLedger, err := attachHistory(gen, cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	if err := gen.RenderOnly(context.Background(), r.Species, r.Release); err != nil {
		return err
	}
	global.Logger.Info("render complete", slog.String("species", r.Species))
	return nil
}
