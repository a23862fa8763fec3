// Package render turns a species record into human-readable documents.
//
// Rendering is a pure function of the in-memory record plus fixed template
// artifacts: the same record and release selection always produce
// byte-identical output. The renderer never touches the original data file.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
	"git.home.luguber.info/inful/datamodeler/internal/record"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// Field is one general or changelog entry presented to the templates.
type Field struct {
	Key   string
	Value any
}

// documentData is the root context for the datamodel template.
type documentData struct {
	Title     string
	Species   string
	General   []Field
	Changelog []Field
	ReleaseID string
	Release   record.Release
	Releases  []string
}

// Renderer renders markdown and HTML documents from fixed templates.
type Renderer struct {
	templates *template.Template
	html      goldmark.Markdown
}

// New creates a renderer using the built-in templates, or the *.tmpl files
// under templatesDir when it is non-empty.
func New(templatesDir string) (*Renderer, error) {
	var (
		root fs.FS = builtin
		glob       = "templates/*.tmpl"
	)
	if templatesDir != "" {
		root = os.DirFS(templatesDir)
		glob = "*.tmpl"
	}

	tmpl, err := template.New("datamodeler").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"field": requireField,
		}).
		ParseFS(root, glob)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "could not load document templates").
			WithContext("dir", templatesDir).
			Build()
	}

	return &Renderer{
		templates: tmpl,
		html:      goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// requireField looks up a field by name in a rendered field list. A template
// referencing a field the record does not carry is a configuration error.
func requireField(fields []Field, key string) (any, error) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, nil
		}
	}
	return nil, fmt.Errorf("record has no field %q expected by the template", key)
}

// Document renders the datamodel document for a record. releaseID selects the
// example release; "" selects the most recently added one.
func (r *Renderer) Document(rec *record.Record, releaseID string) (markdown, html []byte, err error) {
	if releaseID == "" {
		releaseID = rec.Releases.Latest()
	}
	release, ok := rec.Releases.Get(releaseID)
	if !ok {
		return nil, nil, errors.ReleaseError("record has no such release").
			WithContext("release", releaseID).
			WithContext("known", rec.Releases.Keys()).
			Build()
	}

	species := rec.General.GetString("name")
	data := documentData{
		Title:     cases.Title(language.English).String(species),
		Species:   species,
		General:   fieldList(&rec.General),
		Changelog: fieldList(&rec.Changelog),
		ReleaseID: releaseID,
		Release:   release,
		Releases:  rec.Releases.Keys(),
	}

	markdown, err = r.execute("datamodel.md.tmpl", data)
	if err != nil {
		return nil, nil, err
	}
	html, err = r.toHTML(data.Title, markdown)
	if err != nil {
		return nil, nil, err
	}
	return markdown, html, nil
}

// execute runs one named template and returns its output.
func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "template rendering failed").
			WithContext("template", name).
			Build()
	}
	return buf.Bytes(), nil
}

// toHTML converts rendered markdown into a self-contained HTML page.
func (r *Renderer) toHTML(title string, markdown []byte) ([]byte, error) {
	var body bytes.Buffer
	if err := r.html.Convert(markdown, &body); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "markdown to HTML conversion failed").Build()
	}
	return r.execute("page.html.tmpl", map[string]any{
		"Title": title,
		"Body":  body.String(),
	})
}

// fieldList snapshots a record region in insertion order.
func fieldList(f *record.Fields) []Field {
	keys := f.Keys()
	out := make([]Field, 0, len(keys))
	for _, k := range keys {
		v, _ := f.Get(k)
		out = append(out, Field{Key: k, Value: v})
	}
	return out
}

// WriteDocuments writes rendered markdown and HTML to their species-derived
// output paths, creating directories as needed.
func WriteDocuments(mdDir, htmlDir, species string, markdown, html []byte) error {
	targets := []struct {
		dir, name string
		data      []byte
	}{
		{mdDir, species + ".md", markdown},
		{htmlDir, species + ".html", html},
	}
	for _, t := range targets {
		if err := os.MkdirAll(t.dir, 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryStore, "could not create output directory").
				WithContext("dir", t.dir).
				Build()
		}
		path := filepath.Join(t.dir, t.name)
		if err := os.WriteFile(path, t.data, 0o644); err != nil {
			return errors.WrapError(err, errors.CategoryStore, "could not write document").
				WithContext("path", path).
				Build()
		}
	}
	return nil
}
