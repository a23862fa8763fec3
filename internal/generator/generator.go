// Package generator orchestrates the full generation pipeline for a species:
// resolve the abstract path, extract the example file's structure, merge it
// into the persisted record, and render the documents.
//
// Ordering is strict: nothing is written until everything before it has
// succeeded. A render failure after a successful merge leaves the merged
// record on disk, so extraction work is never lost.
package generator

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/datamodeler/internal/abstractpath"
	"git.home.luguber.info/inful/datamodeler/internal/config"
	"git.home.luguber.info/inful/datamodeler/internal/fits"
	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
	"git.home.luguber.info/inful/datamodeler/internal/history"
	"git.home.luguber.info/inful/datamodeler/internal/metrics"
	"git.home.luguber.info/inful/datamodeler/internal/record"
	"git.home.luguber.info/inful/datamodeler/internal/render"
)

// Request describes one generation run.
type Request struct {
	// Species names the file species, e.g. "test".
	Species string
	// Template is the abstract path template, e.g.
	// "$TEST_REDUX/{version}/test-{id}.fits".
	Template string
	// Keywords supplies values for the template's placeholders.
	Keywords map[string]string
}

// Generator runs the generation and render pipelines.
type Generator struct {
	cfg      *config.Config
	store    *record.Store
	renderer *render.Renderer
	logger   *slog.Logger
	metrics  metrics.Recorder
	history  *history.Store
}

// New builds a generator from the configuration. Metrics and history are
// optional; inject them with SetMetrics and SetHistory.
func New(cfg *config.Config, logger *slog.Logger) (*Generator, error) {
	renderer, err := render.New(cfg.Templates)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg:      cfg,
		store:    record.NewStore(cfg.RecordsDir()),
		renderer: renderer,
		logger:   logger,
		metrics:  metrics.NoopRecorder{},
	}, nil
}

// SetMetrics installs a metrics recorder.
func (g *Generator) SetMetrics(r metrics.Recorder) {
	if r != nil {
		g.metrics = r
	}
}

// SetHistory installs a generation history ledger.
func (g *Generator) SetHistory(h *history.Store) { g.history = h }

// Store exposes the record store, mainly for the watch and index commands.
func (g *Generator) Store() *record.Store { return g.store }

// ReleaseID derives the release identifier from the keyword set: the
// "version" keyword when supplied, otherwise the sorted key=value join.
func ReleaseID(keywords map[string]string) string {
	if v, ok := keywords["version"]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(keywords))
	for k := range keywords {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+keywords[k])
	}
	return strings.Join(parts, ",")
}

// Generate runs the full pipeline for one species. It returns the release id
// the run produced.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	releaseID := ReleaseID(req.Keywords)

	err := g.generate(ctx, req, releaseID)

	result := metrics.ResultSuccess
	outcome := "success"
	detail := ""
	if err != nil {
		result = metrics.ResultFailure
		outcome = "failure"
		detail = err.Error()
	}
	g.metrics.IncGeneration(req.Species, result)
	g.metrics.ObserveGenerationDuration(time.Since(start))
	g.appendHistory(ctx, history.Event{
		Species: req.Species,
		Release: releaseID,
		Action:  history.ActionGenerate,
		Outcome: outcome,
		Detail:  detail,
	})
	return releaseID, err
}

func (g *Generator) generate(ctx context.Context, req Request, releaseID string) error {
	// The example path keeps the symbolic root for the record; the concrete
	// path has it expanded from the environment.
	example, err := abstractpath.Substitute(req.Template, req.Keywords)
	if err != nil {
		return err
	}
	concrete := abstractpath.ExpandEnv(example)

	g.logger.Debug("resolved abstract path",
		slog.String("species", req.Species),
		slog.String("path", concrete))

	sections, err := fits.Extract(concrete)
	if err != nil {
		return err
	}
	record.SeedSectionPlaceholders(sections)

	info, err := os.Stat(concrete)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNotFound, "could not stat example file").
			WithContext("path", concrete).
			Build()
	}

	existing, err := g.store.Load(req.Species)
	if err != nil {
		return err
	}

	seed := record.Seed{
		Species:     req.Species,
		Template:    req.Template,
		Filename:    filepath.Base(concrete),
		Filetype:    fileType(concrete),
		Filesize:    fits.FormatBytes(info.Size()),
		Environment: abstractpath.EnvLabel(req.Template),
	}
	release := record.Release{
		Path:        req.Template,
		Example:     example,
		Environment: abstractpath.EnvLabel(req.Template),
		Sections:    sections,
	}

	merged := record.Merge(existing, releaseID, release, seed)
	if err := g.store.Save(req.Species, merged); err != nil {
		return err
	}
	g.logger.Info("record merged",
		slog.String("species", req.Species),
		slog.String("release", releaseID),
		slog.Int("sections", len(sections)))

	return g.render(req.Species, merged, releaseID)
}

// RenderOnly re-renders the documents from the persisted record without
// touching the example data file. releaseID selects the example release;
// "" selects the most recently added one.
func (g *Generator) RenderOnly(ctx context.Context, species, releaseID string) error {
	start := time.Now()

	err := g.renderOnly(species, releaseID)

	result := metrics.ResultSuccess
	outcome := "success"
	detail := ""
	if err != nil {
		result = metrics.ResultFailure
		outcome = "failure"
		detail = err.Error()
	}
	g.metrics.IncRender(species, result)
	g.metrics.ObserveRenderDuration(time.Since(start))
	g.appendHistory(ctx, history.Event{
		Species: species,
		Release: releaseID,
		Action:  history.ActionRender,
		Outcome: outcome,
		Detail:  detail,
	})
	return err
}

func (g *Generator) renderOnly(species, releaseID string) error {
	rec, err := g.store.Load(species)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.RecordError("no record exists for species").
			WithContext("species", species).
			WithContext("path", g.store.Path(species)).
			Build()
	}
	return g.render(species, rec, releaseID)
}

// render produces both documents in memory, then writes them.
func (g *Generator) render(species string, rec *record.Record, releaseID string) error {
	markdown, html, err := g.renderer.Document(rec, releaseID)
	if err != nil {
		return err
	}
	if err := render.WriteDocuments(g.cfg.MarkdownDir(), g.cfg.HTMLDir(), species, markdown, html); err != nil {
		return err
	}
	g.logger.Info("documents written",
		slog.String("species", species),
		slog.String("markdown", filepath.Join(g.cfg.MarkdownDir(), species+".md")),
		slog.String("html", filepath.Join(g.cfg.HTMLDir(), species+".html")))
	return nil
}

func (g *Generator) appendHistory(ctx context.Context, e history.Event) {
	if g.history == nil {
		return
	}
	if err := g.history.Append(ctx, e); err != nil {
		g.logger.Warn("could not record history event", slog.Any("error", err))
	}
}

// fileType derives the species file type label from the example's extension.
func fileType(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "unknown"
	}
	return strings.ToUpper(ext)
}
