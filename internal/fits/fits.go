// Package fits extracts structural metadata from FITS container files.
//
// The extractor is structure-only: it reads header blocks and skips over data
// payloads by seeking, so bulk data is never loaded into memory. Each HDU in
// the file becomes one Section, in file order, carrying the HDU's scalar
// header attributes and, for table extensions, the declared column layout.
package fits

// Attribute is one scalar header card: keyword, parsed value, and the
// trailing card comment when present.
type Attribute struct {
	Key     string `yaml:"key"`
	Value   any    `yaml:"value"`
	Comment string `yaml:"comment,omitempty"`
}

// Column describes one column of a table extension.
type Column struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Unit        string `yaml:"unit"`
	Description string `yaml:"description"`
}

// Section is the extracted structure of a single HDU.
//
// Header preserves card order as read from the file, tolerating duplicate
// keywords. Columns is populated only for tabular extensions, in declared
// column order.
type Section struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	IsImage     bool        `yaml:"is_image"`
	Size        string      `yaml:"size"`
	Header      []Attribute `yaml:"header"`
	Columns     []Column    `yaml:"columns,omitempty"`
}
