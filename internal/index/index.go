// Package index builds per-directory indexes of the records tree.
//
// The walk is breadth-first from the records root. Each directory receives an
// index.yaml describing its subdirectories and the species records it holds,
// plus a rendered index.html linking to the species documents.
package index

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
	"git.home.luguber.info/inful/datamodeler/internal/record"
	"git.home.luguber.info/inful/datamodeler/internal/render"
)

const (
	indexYAML = "index.yaml"
	indexHTML = "index.html"
)

// directoryIndex is the persisted index.yaml document.
type directoryIndex struct {
	General struct {
		Name      string   `yaml:"name"`
		Hierarchy []string `yaml:"hierarchy"`
	} `yaml:"general"`
	Directories map[string]string `yaml:"directories,omitempty"`
	Species     map[string]string `yaml:"file_species,omitempty"`
}

// Walker writes directory indexes for a records tree.
type Walker struct {
	renderer *render.Renderer
	logger   *slog.Logger
}

// New creates a walker rendering index pages with renderer.
func New(renderer *render.Renderer, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{renderer: renderer, logger: logger}
}

type pending struct {
	path      string
	hierarchy []string
}

// Build walks root breadth-first and writes index.yaml and index.html into
// every directory, root included.
func (w *Walker) Build(root string) error {
	if _, err := os.Stat(root); err != nil {
		return errors.WrapError(err, errors.CategoryNotFound, "records directory does not exist").
			WithContext("dir", root).
			Build()
	}

	queue := []pending{{path: root}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		dirs, species, err := w.scan(cur.path)
		if err != nil {
			return err
		}
		if err := w.write(cur, dirs, species); err != nil {
			return err
		}

		childHierarchy := append(append([]string{}, cur.hierarchy...), filepath.Base(cur.path))
		for _, d := range dirs {
			queue = append(queue, pending{
				path:      filepath.Join(cur.path, d),
				hierarchy: childHierarchy,
			})
		}
	}
	return nil
}

// scan lists a directory's subdirectories and species records. Species are
// identified by their record's general.name, falling back to the file stem.
func (w *Walker) scan(dir string) (dirs []string, species []render.IndexEntry, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryStore, "could not read records directory").
			WithContext("dir", dir).
			Build()
	}

	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") || name == indexYAML {
			continue
		}
		stem := strings.TrimSuffix(name, ".yaml")
		species = append(species, render.IndexEntry{
			Name: w.speciesName(filepath.Join(dir, name), stem),
			File: stem,
		})
	}

	sort.Strings(dirs)
	sort.Slice(species, func(i, j int) bool { return species[i].Name < species[j].Name })
	return dirs, species, nil
}

// speciesName reads a record file's general.name. Unreadable or nameless
// records fall back to the file stem; an index should list what it can.
func (w *Walker) speciesName(path, fallback string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("could not read record for index", slog.String("path", path), slog.Any("error", err))
		return fallback
	}
	var rec record.Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		w.logger.Warn("could not parse record for index", slog.String("path", path), slog.Any("error", err))
		return fallback
	}
	if name := rec.General.GetString("name"); name != "" {
		return name
	}
	return fallback
}

func (w *Walker) write(cur pending, dirs []string, species []render.IndexEntry) error {
	var doc directoryIndex
	doc.General.Name = filepath.Base(cur.path)
	doc.General.Hierarchy = cur.hierarchy
	if len(dirs) > 0 {
		doc.Directories = make(map[string]string, len(dirs))
		for _, d := range dirs {
			doc.Directories[d] = d
		}
	}
	if len(species) > 0 {
		doc.Species = make(map[string]string, len(species))
		for _, s := range species {
			doc.Species[s.Name] = s.File
		}
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return errors.WrapError(err, errors.CategoryStore, "could not serialize directory index").
			WithContext("dir", cur.path).
			Build()
	}
	if err := os.WriteFile(filepath.Join(cur.path, indexYAML), data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryStore, "could not write index.yaml").
			WithContext("dir", cur.path).
			Build()
	}

	_, html, err := w.renderer.Index(render.IndexData{
		Name:        doc.General.Name,
		Hierarchy:   cur.hierarchy,
		Directories: dirs,
		Species:     species,
	})
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(cur.path, indexHTML), html, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryStore, "could not write index.html").
			WithContext("dir", cur.path).
			Build()
	}

	w.logger.Debug("directory indexed",
		slog.String("dir", cur.path),
		slog.Int("directories", len(dirs)),
		slog.Int("species", len(species)))
	return nil
}
