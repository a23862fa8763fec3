package commands

import (
	"context"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/datamodeler/internal/config"
	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
	"git.home.luguber.info/inful/datamodeler/internal/generator"
	"git.home.luguber.info/inful/datamodeler/internal/history"
)

// GenerateCmd implements the 'generate' command: the full
// resolve/extract/merge/render pipeline for one species.
type GenerateCmd struct {
	Species    string   `arg:"" help:"File species name, e.g. 'test'"`
	Template   string   `arg:"" optional:"" help:"Abstract path template, e.g. '$TEST_REDUX/{version}/test-{id}.fits'"`
	Keywords   []string `arg:"" optional:"" help:"Keyword values as name=value pairs"`
	RenderOnly bool     `name:"render-only" help:"Skip extraction; re-render from the persisted record"`
	Release    string   `short:"r" help:"Release id to use as the document example (render-only)"`
}

func (g *GenerateCmd) Run(global *Global, cli *CLI) error {
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

	ctx := context.Background()

	if g.RenderOnly {
		return gen.RenderOnly(ctx, g.Species, g.Release)
	}

	if g.Template == "" {
		return errors.ConfigError("generate requires an abstract path template (or --render-only)").
			WithContext("species", g.Species).
			Build()
	}
	keywords, err := parseKeywords(g.Keywords)
	if err != nil {
		return err
	}

	releaseID, err := gen.Generate(ctx, generator.Request{
		Species:  g.Species,
		Template: g.Template,
		Keywords: keywords,
	})
	if err != nil {
		return err
	}
	global.Logger.Info("generation complete",
		slog.String("species", g.Species),
		slog.String("release", releaseID))
	return nil
}

// parseKeywords turns name=value arguments into a keyword map.
func parseKeywords(pairs []string) (map[string]string, error) {
	keywords := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, errors.KeywordError("keyword arguments must be name=value pairs").
				WithContext("argument", pair).
				Build()
		}
		keywords[name] = value
	}
	return keywords, nil
}

// attachHistory wires the history ledger into the generator when enabled.
// The returned func closes the ledger; it is always safe to call.
func attachHistory(gen *generator.Generator, cfg *config.Config) (func(), error) {
	if !cfg.History.Enabled {
		return func() {}, nil
	}
	ledger, err := history.Open(cfg.History.Path)
	if err != nil {
		return func() {}, err
	}
	gen.SetHistory(ledger)
	return func() { _ = ledger.Close() }, nil
}
