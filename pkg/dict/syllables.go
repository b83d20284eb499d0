// CLAUDE:SUMMARY Syllable dictionary: JSON, CSV (with legacy encodings) and gob loading, lookup with uppercase fallback, element search.
package dict

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Syllable is one dictionary row: stroke count and elemental affinity of a
// romanized Vietnamese syllable.
type Syllable struct {
	Key     string `json:"key,omitempty"`
	Name    string `json:"name"`
	Strokes int    `json:"strokes"`
	Element string `json:"element"`
	// Original is the trimmed text the caller looked up; set by Lookup only.
	Original string `json:"original,omitempty"`
}

// PrimaryElement returns the first word of the element label
// ("Thủy dương" -> "Thủy").
func (s Syllable) PrimaryElement() string {
	return PrimaryElement(s.Element)
}

// PrimaryElement returns the first whitespace-delimited token of an element label.
func PrimaryElement(element string) string {
	fields := strings.Fields(element)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// SyllableDict is the read-only syllable table keyed by normalized syllable.
type SyllableDict struct {
	entries map[string]Syllable
}

// NewSyllableDict wraps an entry map. Keys are used as-is.
func NewSyllableDict(entries map[string]Syllable) *SyllableDict {
	if entries == nil {
		entries = make(map[string]Syllable)
	}
	for k, e := range entries {
		e.Key = k
		entries[k] = e
	}
	return &SyllableDict{entries: entries}
}

// Len returns the number of keys (dual-keyed syllables count twice).
func (d *SyllableDict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Lookup resolves raw syllable text. The folded key is tried first, then the
// trimmed uppercase original for tables that store accented keys.
func (d *SyllableDict) Lookup(raw string) (Syllable, bool) {
	if d == nil {
		return Syllable{}, false
	}
	trimmed := strings.TrimSpace(raw)
	key := NormalizeLookup(trimmed)
	if key == "" {
		return Syllable{}, false
	}
	e, ok := d.entries[key]
	if !ok {
		e, ok = d.entries[Upper(trimmed)]
	}
	if !ok {
		return Syllable{}, false
	}
	e.Original = trimmed
	return e, true
}

// ByElement returns distinct syllables whose element label contains element,
// sorted by name. limit <= 0 means 20.
func (d *SyllableDict) ByElement(element string, limit int) []Syllable {
	if limit <= 0 {
		limit = 20
	}
	element = strings.TrimSpace(element)
	if d == nil || element == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []Syllable
	for _, e := range d.entries {
		if e.Element == "" || !strings.Contains(e.Element, element) {
			continue
		}
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Entries returns a copy of the key -> syllable map.
func (d *SyllableDict) Entries() map[string]Syllable {
	out := make(map[string]Syllable, d.Len())
	if d == nil {
		return out
	}
	for k, v := range d.entries {
		out[k] = v
	}
	return out
}

// LoadSyllableDir loads the syllable table stored in dir.
func LoadSyllableDir(dir string) (*SyllableDict, error) {
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		return nil, err
	}
	if m.Kind != KindSyllables {
		return nil, fmt.Errorf("table %s: kind %s, want %s", m.ID, m.Kind, KindSyllables)
	}
	return loadSyllables(dir, m)
}

// loadSyllables reads a syllable table directory: data.gob, then the
// manifest's data file (.json or .csv).
func loadSyllables(dir string, m *Manifest) (*SyllableDict, error) {
	gobPath := filepath.Join(dir, "data.gob")
	if _, err := os.Stat(gobPath); err == nil {
		entries, err := loadGob(gobPath)
		if err != nil {
			return nil, err
		}
		return NewSyllableDict(entries), nil
	}

	dataPath := filepath.Join(dir, m.DataFile)
	var (
		entries map[string]Syllable
		err     error
	)
	switch strings.ToLower(filepath.Ext(m.DataFile)) {
	case ".csv", ".tsv", ".txt":
		entries, err = loadSyllablesCSV(dataPath, m)
	default:
		entries, err = loadSyllablesJSON(dataPath)
	}
	if err != nil {
		return nil, err
	}
	return NewSyllableDict(entries), nil
}

// loadSyllablesJSON reads the {"KEY": {"name","strokes","element"}} layout.
func loadSyllablesJSON(path string) (map[string]Syllable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	var raw map[string]Syllable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode syllables json: %w", err)
	}
	entries := make(map[string]Syllable, len(raw))
	for k, v := range raw {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		entries[k] = v
	}
	return entries, nil
}

func loadSyllablesCSV(path string, m *Manifest) (map[string]Syllable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	// Spreadsheet exports are often windows-1258 rather than UTF-8.
	var reader io.Reader = f
	if enc := m.Format.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if delim := m.Format.Delimiter; delim != "" {
		r.Comma = []rune(delim)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var header []string
	if m.Format.HasHeader {
		header, err = r.Read()
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	column := func(name string, fallback int) (int, error) {
		if name == "" || header == nil {
			return fallback, nil
		}
		for i, h := range header {
			if h == name {
				return i, nil
			}
		}
		return -1, fmt.Errorf("column %q not found in header %v", name, header)
	}

	keyIdx, err := column(m.Format.KeyColumn, 0)
	if err != nil {
		return nil, fmt.Errorf("key %w", err)
	}
	strokesIdx, elementIdx := 1, 2
	for _, fc := range m.Columns {
		idx, err := column(fc.Column, -1)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fc.Field, err)
		}
		switch fc.Field {
		case "strokes":
			strokesIdx = idx
		case "element":
			elementIdx = idx
		}
	}

	keys := GetKeyMode(m.Format.Normalize)
	entries := make(map[string]Syllable)
	var collisions int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if keyIdx >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[keyIdx])
		if name == "" {
			continue
		}

		s := Syllable{Name: name}
		if strokesIdx >= 0 && strokesIdx < len(record) {
			s.Strokes = parseStrokes(record[strokesIdx])
		}
		if elementIdx >= 0 && elementIdx < len(record) {
			s.Element = strings.TrimSpace(record[elementIdx])
		}

		for i, k := range keys(name) {
			if _, exists := entries[k]; exists {
				// Secondary (folded) keys never displace an earlier row.
				if i > 0 {
					continue
				}
				collisions++
			}
			entries[k] = s
		}
	}

	if collisions > 0 {
		slog.Warn("key collisions after normalization", "table", m.ID, "collisions", collisions)
	}
	return entries, nil
}

// parseStrokes accepts "13" or spreadsheet floats like "13.0"; anything else is 0.
func parseStrokes(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(f)
	}
	return 0
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
