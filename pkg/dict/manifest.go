// CLAUDE:SUMMARY Manifest YAML schema describing one lookup table directory: kind, source, data file and CSV layout.
package dict

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind identifies which of the four lookup tables a directory holds.
type Kind string

const (
	KindSyllables   Kind = "syllables"
	KindCucScores   Kind = "cuc_scores"
	KindCucMeanings Kind = "cuc_meanings"
	KindCucDetails  Kind = "cuc_details"
)

// Kinds lists every table kind the analyzer needs before it accepts requests.
var Kinds = []Kind{KindSyllables, KindCucScores, KindCucMeanings, KindCucDetails}

func (k Kind) valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// Manifest describes a table: its source, format, and how to interpret it.
type Manifest struct {
	ID        string        `yaml:"id" json:"id"`
	Version   string        `yaml:"version" json:"version"`
	Kind      Kind          `yaml:"kind" json:"kind"`
	Source    string        `yaml:"source" json:"source"`
	SourceURL string        `yaml:"source_url" json:"source_url,omitempty"`
	License   string        `yaml:"license" json:"license"`
	DataFile  string        `yaml:"data_file" json:"data_file"`
	Format    FormatSpec    `yaml:"format,omitempty" json:"-"`
	Columns   []FieldColumn `yaml:"columns,omitempty" json:"-"`
}

// FormatSpec describes the CSV layout of a syllable table.
type FormatSpec struct {
	Delimiter string `yaml:"delimiter,omitempty"`
	Encoding  string `yaml:"encoding,omitempty"`
	HasHeader bool   `yaml:"has_header,omitempty"`
	KeyColumn string `yaml:"key_column,omitempty"`
	Normalize string `yaml:"normalize,omitempty"`
}

// FieldColumn maps a syllable field (strokes, element) to a CSV header.
type FieldColumn struct {
	Field  string `yaml:"field"`
	Column string `yaml:"column"`
}

// LoadManifest reads and parses a manifest.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	if !m.Kind.valid() {
		return nil, fmt.Errorf("manifest %s: unknown kind %q", path, m.Kind)
	}
	if m.DataFile == "" {
		m.DataFile = "data.json"
	}
	return &m, nil
}
