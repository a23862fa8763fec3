// Package watch re-renders documents when species records change on disk.
//
// Watch mode exists for the hand-editing workflow: a human edits a record
// YAML, and the markdown and HTML documents follow a debounce interval later
// without re-running extraction.
package watch

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/datamodeler/internal/config"
	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
	"git.home.luguber.info/inful/datamodeler/internal/generator"
	"git.home.luguber.info/inful/datamodeler/internal/metrics"
)

// Watcher re-renders species documents on record file changes.
type Watcher struct {
	gen      *generator.Generator
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder

	watcher   *fsnotify.Watcher
	scheduler gocron.Scheduler
	server    *http.Server
	registry  *prom.Registry

	mu       sync.Mutex
	pending  map[string]*time.Timer
	debounce time.Duration
}

// New creates a watcher over the configured records directory.
func New(cfg *config.Config, gen *generator.Generator, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "could not create file watcher").Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		gen:      gen,
		cfg:      cfg,
		logger:   logger,
		recorder: metrics.NoopRecorder{},
		watcher:  fsw,
		pending:  make(map[string]*time.Timer),
		debounce: cfg.Watch.Debounce.Std(),
	}, nil
}

// SetMetrics installs a metrics recorder. When reg is non-nil and a metrics
// address is configured, Run serves the registry over HTTP.
func (w *Watcher) SetMetrics(r metrics.Recorder, reg *prom.Registry) {
	if r != nil {
		w.recorder = r
	}
	w.registry = reg
}

// Run watches until ctx is cancelled. It blocks.
func (w *Watcher) Run(ctx context.Context) error {
	dir := w.cfg.RecordsDir()
	if err := w.watcher.Add(dir); err != nil {
		return errors.WrapError(err, errors.CategoryNotFound, "could not watch records directory").
			WithContext("dir", dir).
			Build()
	}
	w.logger.Info("watching records directory",
		slog.String("dir", dir),
		slog.Duration("debounce", w.debounce))

	if err := w.startScheduler(ctx); err != nil {
		return err
	}
	w.startMetricsServer()

	defer w.shutdown()
	w.watchLoop(ctx)
	return nil
}

// watchLoop consumes fsnotify events until the context is done.
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			species, ok := speciesFromPath(event.Name)
			if !ok {
				continue
			}
			w.logger.Debug("record change detected",
				slog.String("species", species),
				slog.String("op", event.Op.String()))
			w.schedule(ctx, species)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

// schedule arms (or re-arms) the per-species debounce timer.
func (w *Watcher) schedule(ctx context.Context, species string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[species]; ok {
		t.Stop()
	}
	w.pending[species] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, species)
		w.mu.Unlock()
		w.rerender(ctx, species)
	})
}

func (w *Watcher) rerender(ctx context.Context, species string) {
	w.recorder.IncWatchRerender()
	if err := w.gen.RenderOnly(ctx, species, ""); err != nil {
		w.logger.Error("re-render failed",
			slog.String("species", species),
			slog.Any("error", err))
		return
	}
	w.logger.Info("documents re-rendered", slog.String("species", species))
}

// startScheduler starts the optional periodic full re-render.
func (w *Watcher) startScheduler(ctx context.Context) error {
	interval := w.cfg.Watch.Interval.Std()
	if interval <= 0 {
		return nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "could not create scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { w.rerenderAll(ctx) }),
		gocron.WithName("periodic-rerender"),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "could not schedule periodic re-render").Build()
	}
	w.scheduler = s
	s.Start()
	w.logger.Info("periodic re-render scheduled", slog.Duration("interval", interval))
	return nil
}

// rerenderAll re-renders every species with a record on disk.
func (w *Watcher) rerenderAll(ctx context.Context) {
	matches, err := filepath.Glob(filepath.Join(w.cfg.RecordsDir(), "*.yaml"))
	if err != nil {
		w.logger.Error("could not list records", slog.Any("error", err))
		return
	}
	for _, path := range matches {
		if species, ok := speciesFromPath(path); ok {
			w.rerender(ctx, species)
		}
	}
}

// startMetricsServer exposes Prometheus metrics when configured.
func (w *Watcher) startMetricsServer() {
	addr := w.cfg.Watch.MetricsAddr
	if addr == "" {
		return
	}
	if w.registry == nil {
		w.logger.Warn("metrics address configured but no prometheus registry installed")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(w.registry))
	w.server = &http.Server{Addr: addr, Handler: mux}
	go func() {
		w.logger.Info("metrics listener started", slog.String("addr", addr))
		if err := w.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			w.logger.Error("metrics listener failed", slog.Any("error", err))
		}
	}()
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	for species, t := range w.pending {
		t.Stop()
		delete(w.pending, species)
	}
	w.mu.Unlock()

	if w.scheduler != nil {
		if err := w.scheduler.Shutdown(); err != nil {
			w.logger.Error("scheduler shutdown failed", slog.Any("error", err))
		}
	}
	if w.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = w.server.Shutdown(shutdownCtx)
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Error("watcher close failed", slog.Any("error", err))
	}
}

// speciesFromPath maps a record file path to its species name. Index files
// and non-YAML files are not species records.
func speciesFromPath(path string) (string, bool) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".yaml") || name == "index.yaml" {
		return "", false
	}
	return strings.TrimSuffix(name, ".yaml"), true
}
