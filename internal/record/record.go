// Package record persists the structured metadata record of a file species.
//
// A record has three regions. The general region holds free-form,
// human-editable descriptive fields; it is seeded once with placeholder
// sentinels and never touched again by regeneration. The changelog region is
// reserved and persisted verbatim. The releases region maps a release id to
// the structure extracted from that release's example file and is always a
// faithful re-derivation for the release being merged.
package record

import (
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/datamodeler/internal/fits"
)

// Placeholder is the sentinel marking a field that still needs human input.
// Its presence means the field is safe to overwrite; anything else is
// human-owned.
const Placeholder = "replace me - with content"

// PlaceholderDescription seeds section descriptions in the releases region.
const PlaceholderDescription = "replace me description"

// Record is the persisted structured document for one file species.
type Record struct {
	General   Fields     `yaml:"general"`
	Changelog Fields     `yaml:"changelog"`
	Releases  ReleaseSet `yaml:"releases"`
}

// Release is one example file's extracted structure plus the location
// information used to find it.
type Release struct {
	Path        string         `yaml:"path"`
	Example     string         `yaml:"example"`
	Environment string         `yaml:"environment"`
	Sections    []fits.Section `yaml:"hdus"`
}

// Seed carries the species information used to populate the general region
// when a record is created for the first time.
type Seed struct {
	Species     string
	Template    string
	Filename    string
	Filetype    string
	Filesize    string
	Environment string
}

// New creates a record for a species with a seeded general region. Every
// descriptive field starts as the Placeholder sentinel; the uid is assigned
// once and never regenerated.
func New(seed Seed) *Record {
	r := &Record{}
	r.General.Set("name", seed.Species)
	r.General.Set("uid", uuid.NewString())
	r.General.Set("short", Placeholder)
	r.General.Set("description", Placeholder)
	r.General.Set("naming_convention", Placeholder)
	r.General.Set("filetype", seed.Filetype)
	r.General.Set("filename", seed.Filename)
	r.General.Set("filesize", seed.Filesize)
	r.General.Set("template", seed.Template)
	r.General.Set("environments", []string{seed.Environment})
	return r
}

// Merge sets releases[releaseID] on the record, creating the record when
// existing is nil. The general and changelog regions of an existing record
// are left untouched; merging the same release twice is idempotent.
func Merge(existing *Record, releaseID string, release Release, seed Seed) *Record {
	r := existing
	if r == nil {
		r = New(seed)
	}
	r.Releases.Set(releaseID, release)
	return r
}

// IsPlaceholder reports whether a general-region value still carries the
// needs-human-input sentinel.
func IsPlaceholder(v any) bool {
	s, ok := v.(string)
	return ok && (s == Placeholder || s == PlaceholderDescription)
}

// SeedSectionPlaceholders fills empty descriptions and units in freshly
// extracted sections with the sentinel text, signalling the human editor.
func SeedSectionPlaceholders(sections []fits.Section) {
	for i := range sections {
		if sections[i].Description == "" {
			sections[i].Description = PlaceholderDescription
		}
		for j := range sections[i].Columns {
			if sections[i].Columns[j].Unit == "" {
				sections[i].Columns[j].Unit = Placeholder
			}
			if sections[i].Columns[j].Description == "" {
				sections[i].Columns[j].Description = Placeholder
			}
		}
	}
}

// Fields is an insertion-ordered mapping of field names to values. Field
// names and order are opaque to regeneration; humans own the content.
type Fields struct {
	keys   []string
	values map[string]any
}

// Set adds or replaces a field, appending new keys at the end.
func (f *Fields) Set(key string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, exists := f.values[key]; !exists {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

// Get returns a field value.
func (f *Fields) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// GetString returns a string field, "" when absent or non-string.
func (f *Fields) GetString(key string) string {
	if v, ok := f.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Keys returns the field names in insertion order.
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Len returns the number of fields.
func (f *Fields) Len() int { return len(f.keys) }

// MarshalYAML emits the fields as a mapping in insertion order.
func (f Fields) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range f.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(f.values[key]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML restores the fields, preserving document order.
func (f *Fields) UnmarshalYAML(node *yaml.Node) error {
	f.keys = nil
	f.values = make(map[string]any)
	if node.Kind != yaml.MappingNode {
		// Tolerate an explicit null (e.g. an empty changelog region).
		if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
			return nil
		}
		return &yaml.TypeError{Errors: []string{"expected a mapping node for record region"}}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return err
		}
		f.Set(node.Content[i].Value, value)
	}
	return nil
}

// ReleaseSet is an insertion-ordered mapping of release id to Release.
// The most recently added release is the last key.
type ReleaseSet struct {
	keys    []string
	entries map[string]Release
}

// Set adds or replaces a release. Re-merging an existing id keeps its
// position; new ids append.
func (rs *ReleaseSet) Set(id string, release Release) {
	if rs.entries == nil {
		rs.entries = make(map[string]Release)
	}
	if _, exists := rs.entries[id]; !exists {
		rs.keys = append(rs.keys, id)
	}
	rs.entries[id] = release
}

// Get returns the release for an id.
func (rs *ReleaseSet) Get(id string) (Release, bool) {
	r, ok := rs.entries[id]
	return r, ok
}

// Keys returns release ids in insertion order.
func (rs *ReleaseSet) Keys() []string {
	out := make([]string, len(rs.keys))
	copy(out, rs.keys)
	return out
}

// Latest returns the most recently added release id, or "" when empty.
func (rs *ReleaseSet) Latest() string {
	if len(rs.keys) == 0 {
		return ""
	}
	return rs.keys[len(rs.keys)-1]
}

// Len returns the number of releases.
func (rs *ReleaseSet) Len() int { return len(rs.keys) }

// MarshalYAML emits releases as a mapping in insertion order.
func (rs ReleaseSet) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range rs.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id}
		valNode := &yaml.Node{}
		release := rs.entries[id]
		if err := valNode.Encode(&release); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// UnmarshalYAML restores releases, preserving document order.
func (rs *ReleaseSet) UnmarshalYAML(node *yaml.Node) error {
	rs.keys = nil
	rs.entries = make(map[string]Release)
	if node.Kind != yaml.MappingNode {
		if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
			return nil
		}
		return &yaml.TypeError{Errors: []string{"expected a mapping node for releases region"}}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var release Release
		if err := node.Content[i+1].Decode(&release); err != nil {
			return err
		}
		rs.Set(node.Content[i].Value, release)
	}
	return nil
}
