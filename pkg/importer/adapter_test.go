package importer

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

const (
	srcSyllablesJSON = `{
  "NGUYỄN": {"name": "Nguyễn", "strokes": 13, "element": "Thủy"},
  "VĂN": {"name": "Văn", "strokes": 9, "element": "Mộc dương"},
  "AN": {"name": "An", "strokes": 7, "element": "Thổ"}
}`
	srcScoresJSON   = `{"1": {"number": 1, "name": "Thái Cực", "score": 10}, "0": {"score": 3}, "82": {"score": 3}}`
	srcMeaningsJSON = `{
  "1": {"number": 1, "name": "Thái Cực", "luck": "Cát", "alias": "Khởi đầu", "meaning": "Vạn vật khởi đầu"},
  "2": {"number": 2, "name": "Lưỡng Nghi", "luck": "Hung", "alias": "Phân ly", "meaning": "Hung ác, chia lìa"},
  "abc": {"name": "bad"}
}`
	srcDetailsJSON = `{"1": {"number": 1, "cuc_name": "Thái Cực", "description": "Tổng quan", "career": "Công danh"}}`
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runImport(t *testing.T, id, src, out string) int {
	t.Helper()
	a, err := Get(id)
	if err != nil {
		t.Fatalf("Get(%s): %v", id, err)
	}
	n, err := a.Import(context.Background(), src, out)
	if err != nil {
		t.Fatalf("Import(%s): %v", id, err)
	}
	return n
}

func TestRegisteredAdapters(t *testing.T) {
	want := map[string]dict.Kind{
		"syllables-json":     dict.KindSyllables,
		"syllables-csv":      dict.KindSyllables,
		"cuc-scores-json":    dict.KindCucScores,
		"cuc-scores-derived": dict.KindCucScores,
		"cuc-meanings-json":  dict.KindCucMeanings,
		"cuc-details-json":   dict.KindCucDetails,
	}
	all := All()
	if len(all) != len(want) {
		t.Fatalf("All() = %d adapters, want %d", len(all), len(want))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID() >= all[i].ID() {
			t.Errorf("All() not sorted: %s before %s", all[i-1].ID(), all[i].ID())
		}
	}
	for id, kind := range want {
		a, err := Get(id)
		if err != nil {
			t.Errorf("Get(%s): %v", id, err)
			continue
		}
		if a.Kind() != kind {
			t.Errorf("%s kind = %s, want %s", id, a.Kind(), kind)
		}
	}
	if _, err := Get("nope"); err == nil {
		t.Error("Get(nope) should fail")
	}
}

func TestSyllablesJSONImport(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	src := writeSource(t, in, "syllables.json", srcSyllablesJSON)
	if n := runImport(t, "syllables-json", src, out); n != 5 {
		t.Errorf("Import wrote %d entries, want 5", n)
	}

	d, err := dict.LoadSyllableDir(filepath.Join(out, "syllables"))
	if err != nil {
		t.Fatalf("LoadSyllableDir: %v", err)
	}
	// NGUYỄN, NGUYEN, VĂN, VAN, AN
	if d.Len() != 5 {
		t.Errorf("Len = %d, want 5", d.Len())
	}
	if s, ok := d.Lookup("van"); !ok || s.Strokes != 9 || s.Name != "Văn" {
		t.Errorf("Lookup(van) = %+v, %v", s, ok)
	}
	if _, err := os.Stat(filepath.Join(out, "_download")); !os.IsNotExist(err) {
		t.Error("download dir should be removed after import")
	}

	m, err := dict.LoadManifest(filepath.Join(out, "syllables", "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.DataFile != "data.gob" || m.SourceURL != src || m.Kind != dict.KindSyllables {
		t.Errorf("manifest = %+v", m)
	}
}

func TestSyllablesJSONImport_Invalid(t *testing.T) {
	in := t.TempDir()
	for name, content := range map[string]string{
		"broken.json": "{broken",
		"empty.json":  "{}",
	} {
		src := writeSource(t, in, name, content)
		a, _ := Get("syllables-json")
		if _, err := a.Import(context.Background(), src, t.TempDir()); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestSyllablesCSVImport(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	src := writeSource(t, in, "syllables.csv", "name,strokes,element\nNguyễn,13,Thủy\nLan,11.0,Mộc\n")
	runImport(t, "syllables-csv", src, out)

	tableDir := filepath.Join(out, "syllables")
	if _, err := os.Stat(filepath.Join(tableDir, "data.gob")); err != nil {
		t.Fatalf("data.gob not written: %v", err)
	}
	d, err := dict.LoadSyllableDir(tableDir)
	if err != nil {
		t.Fatalf("LoadSyllableDir: %v", err)
	}
	// NGUYỄN, NGUYEN, LAN
	if d.Len() != 3 {
		t.Errorf("Len = %d, want 3", d.Len())
	}
	if s, ok := d.Lookup("Lan"); !ok || s.Strokes != 11 || s.Element != "Mộc" {
		t.Errorf("Lookup(Lan) = %+v, %v", s, ok)
	}
}

func TestSyllablesCSVImport_ReplacesStaleGob(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	runImport(t, "syllables-json", writeSource(t, in, "s.json", srcSyllablesJSON), out)
	runImport(t, "syllables-csv", writeSource(t, in, "s.csv", "name,strokes,element\nLan,11,Mộc\n"), out)

	d, err := dict.LoadSyllableDir(filepath.Join(out, "syllables"))
	if err != nil {
		t.Fatalf("LoadSyllableDir: %v", err)
	}
	if _, ok := d.Lookup("Nguyễn"); ok {
		t.Error("entries from the previous import survived")
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
}

func TestCucTableImport_FiltersKeys(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	if n := runImport(t, "cuc-scores-json", writeSource(t, in, "scores.json", srcScoresJSON), out); n != 1 {
		t.Errorf("Import wrote %d rows, want 1", n)
	}

	data, err := os.ReadFile(filepath.Join(out, "cuc-scores", "data.json"))
	if err != nil {
		t.Fatalf("read data.json: %v", err)
	}
	var rows map[string]dict.CucScore
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 1 || rows["1"].Score != 10 {
		t.Errorf("rows = %+v, want only cục 1", rows)
	}
}

func TestCucTableImport_NoValidRows(t *testing.T) {
	src := writeSource(t, t.TempDir(), "scores.json", `{"0": {"score": 1}, "x": {}}`)
	a, _ := Get("cuc-scores-json")
	if _, err := a.Import(context.Background(), src, t.TempDir()); err == nil {
		t.Error("expected error when no key is in 1..81")
	}
}

func TestDerivedScoresImport(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	runImport(t, "cuc-scores-derived", writeSource(t, in, "meanings.json", srcMeaningsJSON), out)

	data, err := os.ReadFile(filepath.Join(out, "cuc-scores", "data.json"))
	if err != nil {
		t.Fatalf("read data.json: %v", err)
	}
	var rows map[string]dict.CucScore
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if r := rows["1"]; r.Number != 1 || r.Name != "Thái Cực" || r.Score != 10 {
		t.Errorf("row 1 = %+v", r)
	}
	if r := rows["2"]; r.Score != 1 {
		t.Errorf("row 2 score = %d, want 1", r.Score)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		adapter string
		data    string
		want    Validation
		wantErr bool
	}{
		{"syllables-json", srcSyllablesJSON, Validation{Entries: 5}, false},
		{"syllables-json", "[]", Validation{}, true},
		{"syllables-csv", "name,strokes,element\nNguyễn,13,Thủy\nLan,11,Mộc\n", Validation{Entries: 3}, false},
		{"syllables-csv", "name,strokes,element\n", Validation{}, true},
		{"syllables-csv", "ten,net\nLan,11\n", Validation{}, true},
		{"cuc-scores-json", srcScoresJSON, Validation{Entries: 1, Missing: 80}, false},
		{"cuc-meanings-json", srcMeaningsJSON, Validation{Entries: 2, Missing: 79}, false},
		{"cuc-scores-derived", srcMeaningsJSON, Validation{Entries: 2, Missing: 79}, false},
		{"cuc-details-json", `{"0": {}}`, Validation{}, true},
		{"cuc-details-json", srcSyllablesJSON, Validation{}, true},
	}
	for _, tt := range tests {
		a, err := Get(tt.adapter)
		if err != nil {
			t.Fatalf("Get(%s): %v", tt.adapter, err)
		}
		got, err := a.Validate([]byte(tt.data))
		if (err != nil) != tt.wantErr {
			t.Errorf("%s Validate(%.20q) err = %v, wantErr %v", tt.adapter, tt.data, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s Validate(%.20q) = %+v, want %+v", tt.adapter, tt.data, got, tt.want)
		}
	}
}

func TestDeriveScore(t *testing.T) {
	tests := []struct {
		luck, meaning string
		want          int
	}{
		{"Cát", "", 10},
		{"cat", "", 10},
		{"Hung", "", 2},
		{"Trong cát có hung", "", 5},
		{"Trong hung có cát", "", 5},
		{"Cát hung lẫn lộn", "", 5},
		{"Bán cát bán hung", "", 5},
		{"", "", 5},
		{"Hung", "Đại cát đại lợi", 10},
		{"Cát", "Hung sát, tai ương", 1},
		{"Hung", "Mọi việc thuận lợi", 9},
		{"Trong hung có cát", "gia đạo tốt đẹp", 9},
	}
	for _, tt := range tests {
		if got := DeriveScore(tt.luck, tt.meaning); got != tt.want {
			t.Errorf("DeriveScore(%q, %q) = %d, want %d", tt.luck, tt.meaning, got, tt.want)
		}
	}
}

func TestImportAll_LoadsRegistry(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	runImport(t, "syllables-json", writeSource(t, in, "syllables.json", srcSyllablesJSON), out)
	runImport(t, "cuc-scores-json", writeSource(t, in, "scores.json", srcScoresJSON), out)
	runImport(t, "cuc-meanings-json", writeSource(t, in, "meanings.json", srcMeaningsJSON), out)
	runImport(t, "cuc-details-json", writeSource(t, in, "details.json", srcDetailsJSON), out)

	reg := dict.NewRegistry(out)
	if err := reg.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	tables, err := reg.Tables()
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if m, ok := tables.Meaning(2); !ok || m.Luck != "Hung" {
		t.Errorf("Meaning(2) = %+v, %v", m, ok)
	}
	if d, ok := tables.Detail(1); !ok || d.Career != "Công danh" {
		t.Errorf("Detail(1) = %+v, %v", d, ok)
	}
	if len(reg.ListTables()) != 4 {
		t.Errorf("ListTables = %d, want 4", len(reg.ListTables()))
	}
}
