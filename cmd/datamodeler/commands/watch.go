package commands

import (
	"context"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/datamodeler/internal/generator"
	"git.home.luguber.info/inful/datamodeler/internal/metrics"
	"git.home.luguber.info/inful/datamodeler/internal/watch"
)

// WatchCmd runs until interrupted, re-rendering documents when a species
// record changes on disk.
type WatchCmd struct{}

func (w *WatchCmd) Run(global *Global, cli *CLI) error {
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

	watcher, err := watch.New(cfg, gen, global.Logger)
	if err != nil {
		return err
	}

	if cfg.Watch.MetricsAddr != "" {
		registry := prom.NewRegistry()
		recorder := metrics.NewPrometheusRecorder(registry)
		gen.SetMetrics(recorder)
		watcher.SetMetrics(recorder, registry)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return watcher.Run(ctx)
}
