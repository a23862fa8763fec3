package record

import (
	"bytes"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/datamodeler/internal/foundation/errors"
)

// Store loads and saves species records as YAML files under a single
// directory, one file per species.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the record file path for a species.
func (s *Store) Path(species string) string {
	return filepath.Join(s.dir, species+".yaml")
}

// Load reads the record for a species. A species with no record yet returns
// (nil, nil).
func (s *Store) Load(species string) (*Record, error) {
	data, err := os.ReadFile(s.Path(species))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.CategoryStore, "could not read record file").
			WithContext("species", species).
			Build()
	}

	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, errors.WrapError(err, errors.CategoryStore, "could not parse record file").
			WithContext("species", species).
			WithContext("path", s.Path(species)).
			Build()
	}
	return &r, nil
}

// Save writes the record for a species, creating the store directory as
// needed. Serialization is canonical: saving an unchanged record produces
// byte-identical output.
func (s *Store) Save(species string, r *Record) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryStore, "could not create record directory").
			WithContext("dir", s.dir).
			Build()
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		_ = enc.Close()
		return errors.WrapError(err, errors.CategoryStore, "could not serialize record").
			WithContext("species", species).
			Build()
	}
	if err := enc.Close(); err != nil {
		return errors.WrapError(err, errors.CategoryStore, "could not serialize record").
			WithContext("species", species).
			Build()
	}

	if err := os.WriteFile(s.Path(species), buf.Bytes(), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryStore, "could not write record file").
			WithContext("path", s.Path(species)).
			Build()
	}
	return nil
}
