// CLAUDE:SUMMARY Import adapters for the syllable table: the dual-keyed JSON export and a plain CSV sheet, both stored as gob.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

func init() {
	Register(&syllablesJSONAdapter{base{
		id:      "syllables-json",
		tableID: "syllables",
		desc:    "Việt Danh Tính syllables (JSON export)",
		url:     "public/data/syllables.json",
		license: "proprietary",
		kind:    dict.KindSyllables,
	}})
	Register(&syllablesCSVAdapter{base{
		id:      "syllables-csv",
		tableID: "syllables",
		desc:    "Việt Danh Tính syllables (CSV sheet: name, strokes, element)",
		url:     "public/data/syllables.csv",
		license: "proprietary",
		kind:    dict.KindSyllables,
	}})
}

type syllablesJSONAdapter struct{ base }

func (a *syllablesJSONAdapter) Validate(data []byte) (Validation, error) {
	entries, err := decodeSyllablesJSON(data)
	if err != nil {
		return Validation{}, err
	}
	return Validation{Entries: len(entries)}, nil
}

func (a *syllablesJSONAdapter) Import(ctx context.Context, sourceURL, outputDir string) (int, error) {
	dlDir := filepath.Join(outputDir, "_download")
	defer os.RemoveAll(dlDir)

	data, err := readSource(ctx, sourceURL, dlDir)
	if err != nil {
		return 0, err
	}
	entries, err := decodeSyllablesJSON(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", sourceURL, err)
	}
	return len(entries), a.save(entries, sourceURL, outputDir)
}

func decodeSyllablesJSON(data []byte) (map[string]dict.Syllable, error) {
	var raw map[string]dict.Syllable
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode syllables: %w", err)
	}
	entries := addFoldedKeys(raw)
	if len(entries) == 0 {
		return nil, errors.New("no syllables")
	}
	return entries, nil
}

// addFoldedKeys keeps every source key and adds the folded lookup key of
// each syllable name when no entry holds it yet.
func addFoldedKeys(raw map[string]dict.Syllable) map[string]dict.Syllable {
	entries := make(map[string]dict.Syllable, len(raw)*2)
	for k, s := range raw {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if s.Name == "" {
			s.Name = k
		}
		s.Key = ""
		entries[k] = s
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s := raw[k]
		if s.Name == "" {
			continue
		}
		if folded := dict.NormalizeLookup(s.Name); folded != "" {
			if _, ok := entries[folded]; !ok {
				s.Key = ""
				entries[folded] = s
			}
		}
	}
	return entries
}

func (b *base) save(entries map[string]dict.Syllable, sourceURL, outputDir string) error {
	tableDir := filepath.Join(outputDir, b.tableID)
	if err := ensureDir(tableDir); err != nil {
		return err
	}
	if err := dict.SaveGob(entries, filepath.Join(tableDir, "data.gob")); err != nil {
		return fmt.Errorf("save gob: %w", err)
	}
	slog.Info("syllables imported", "adapter", b.id, "keys", len(entries))
	return writeManifest(tableDir, b.manifest(sourceURL, "data.gob"))
}

type syllablesCSVAdapter struct{ base }

// csvFormat is the expected sheet layout.
var csvFormat = dict.FormatSpec{
	Delimiter: ",",
	HasHeader: true,
	KeyColumn: "name",
	Normalize: "dual",
}

func (a *syllablesCSVAdapter) Validate(data []byte) (Validation, error) {
	tmp, err := os.MkdirTemp("", "vietdanh-csv-")
	if err != nil {
		return Validation{}, err
	}
	defer os.RemoveAll(tmp)

	if err := os.WriteFile(filepath.Join(tmp, "data.csv"), data, 0o644); err != nil {
		return Validation{}, err
	}
	d, err := a.loadCSV(tmp, "")
	if err != nil {
		return Validation{}, err
	}
	return Validation{Entries: d.Len()}, nil
}

func (a *syllablesCSVAdapter) Import(ctx context.Context, sourceURL, outputDir string) (int, error) {
	tableDir := filepath.Join(outputDir, a.tableID)
	if err := ensureDir(tableDir); err != nil {
		return 0, err
	}
	// A stale gob would shadow the new CSV while validating.
	if err := os.Remove(filepath.Join(tableDir, "data.gob")); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("remove stale gob: %w", err)
	}
	if err := fetchSource(ctx, sourceURL, filepath.Join(tableDir, "data.csv")); err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}

	d, err := a.loadCSV(tableDir, sourceURL)
	if err != nil {
		return 0, err
	}
	if err := dict.SaveGob(d.Entries(), filepath.Join(tableDir, "data.gob")); err != nil {
		return 0, fmt.Errorf("save gob: %w", err)
	}
	slog.Info("syllables imported", "adapter", a.id, "keys", d.Len())
	return d.Len(), nil
}

// loadCSV writes the sheet manifest next to tableDir/data.csv and loads it.
func (a *syllablesCSVAdapter) loadCSV(tableDir, sourceURL string) (*dict.SyllableDict, error) {
	m := a.manifest(sourceURL, "data.csv")
	m.Format = csvFormat
	m.Columns = []dict.FieldColumn{
		{Field: "strokes", Column: "strokes"},
		{Field: "element", Column: "element"},
	}
	if err := writeManifest(tableDir, m); err != nil {
		return nil, err
	}
	d, err := dict.LoadSyllableDir(tableDir)
	if err != nil {
		return nil, fmt.Errorf("validate csv: %w", err)
	}
	if d.Len() == 0 {
		return nil, errors.New("no syllables")
	}
	return d, nil
}
