package dict

import (
	"path/filepath"
	"testing"
)

func loadTestSyllables(t *testing.T, dataFile, data, extra string) *SyllableDict {
	t.Helper()
	dir := writeTable(t, t.TempDir(), "syllables", KindSyllables, dataFile, data, extra)
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	d, err := loadSyllables(dir, m)
	if err != nil {
		t.Fatalf("loadSyllables: %v", err)
	}
	return d
}

func TestLookup_CaseAndDiacriticInsensitive(t *testing.T) {
	d := loadTestSyllables(t, "data.json", testSyllablesJSON, "")

	for _, q := range []string{"Nguyễn", "NGUYEN", "nguyễn", "  nguyen "} {
		s, ok := d.Lookup(q)
		if !ok {
			t.Errorf("Lookup(%q) not found", q)
			continue
		}
		if s.Key != "NGUYEN" || s.Strokes != 13 || s.Element != "Thủy" {
			t.Errorf("Lookup(%q) = %+v", q, s)
		}
	}
}

func TestLookup_PreservesOriginal(t *testing.T) {
	d := loadTestSyllables(t, "data.json", testSyllablesJSON, "")
	s, ok := d.Lookup("  nguyễn ")
	if !ok {
		t.Fatal("not found")
	}
	if s.Original != "nguyễn" {
		t.Errorf("Original = %q, want nguyễn", s.Original)
	}
	if s.Name != "Nguyễn" {
		t.Errorf("Name = %q, want Nguyễn", s.Name)
	}
}

func TestLookup_UppercaseOriginalFallback(t *testing.T) {
	// "VĂN" is stored only under its accented key.
	d := loadTestSyllables(t, "data.json", testSyllablesJSON, "")

	if s, ok := d.Lookup("văn"); !ok || s.Strokes != 9 {
		t.Errorf("Lookup(văn) = %+v, %v", s, ok)
	}
	if s, ok := d.Lookup("Văn"); !ok || s.Key != "VĂN" {
		t.Errorf("Lookup(Văn) = %+v, %v", s, ok)
	}
	// The folded form has no entry of its own.
	if _, ok := d.Lookup("VAN"); ok {
		t.Error("Lookup(VAN) should miss: only VĂN is stored")
	}
}

func TestLookup_NotFound(t *testing.T) {
	d := loadTestSyllables(t, "data.json", testSyllablesJSON, "")
	for _, q := range []string{"Xyzzy", "", "   ", "123", "!!"} {
		if _, ok := d.Lookup(q); ok {
			t.Errorf("Lookup(%q) should miss", q)
		}
	}
	var nilDict *SyllableDict
	if _, ok := nilDict.Lookup("An"); ok {
		t.Error("nil dict lookup should miss")
	}
}

func TestLoadSyllablesCSV_DualKeys(t *testing.T) {
	csv := "ten;so_net;ngu_hanh\nNguyễn;13;Thủy\nĐào;12.0;Hỏa\nĐÀO;3;Kim\nDao;7;Mộc\n;1;Kim\n"
	extra := `format:
  delimiter: ";"
  has_header: true
  key_column: ten
  normalize: dual
columns:
  - field: strokes
    column: so_net
  - field: element
    column: ngu_hanh
`
	d := loadTestSyllables(t, "data.csv", csv, extra)

	entries := d.Entries()
	// NGUYỄN, NGUYEN, ĐÀO, DAO
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4: %v", len(entries), entries)
	}
	if entries["NGUYEN"].Strokes != 13 || entries["NGUYỄN"].Strokes != 13 {
		t.Errorf("NGUYEN/NGUYỄN = %+v / %+v", entries["NGUYEN"], entries["NGUYỄN"])
	}
	// Later rows overwrite a primary key ...
	if entries["ĐÀO"].Strokes != 3 {
		t.Errorf("ĐÀO strokes = %d, want 3", entries["ĐÀO"].Strokes)
	}
	// ... but the folded key keeps the first syllable that claimed it,
	// until a row whose own uppercase spelling is that key.
	if entries["DAO"].Name != "Dao" || entries["DAO"].Strokes != 7 {
		t.Errorf("DAO = %+v, want Dao/7", entries["DAO"])
	}
}

func TestLoadSyllablesCSV_Transcoding(t *testing.T) {
	// ASCII bytes pass through the windows-1258 decoder unchanged.
	extra := `format:
  delimiter: ","
  encoding: windows-1258
  has_header: true
  key_column: name
  normalize: lookup
`
	d := loadTestSyllables(t, "data.csv", "name,strokes,element\nLan,11,Moc\n", extra)
	s, ok := d.Lookup("lan")
	if !ok || s.Strokes != 11 {
		t.Errorf("Lookup(lan) = %+v, %v", s, ok)
	}
}

func TestLoadSyllablesCSV_MissingKeyColumn(t *testing.T) {
	extra := `format:
  delimiter: ","
  has_header: true
  key_column: nonexistent
`
	dir := writeTable(t, t.TempDir(), "bad", KindSyllables, "data.csv", "name,strokes\nAn,7\n", extra)
	m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if _, err := loadSyllables(dir, m); err == nil {
		t.Error("expected error for missing key column")
	}
}

func TestByElement(t *testing.T) {
	d := NewSyllableDict(map[string]Syllable{
		"LAN":  {Name: "Lan", Strokes: 11, Element: "Mộc"},
		"LÂM":  {Name: "Lâm", Strokes: 12, Element: "Mộc dương"},
		"LAM":  {Name: "Lâm", Strokes: 12, Element: "Mộc dương"},
		"KIEN": {Name: "Kiên", Strokes: 10, Element: "Kim"},
		"BA":   {Name: "Ba", Strokes: 3},
	})

	got := d.ByElement("Mộc", 0)
	if len(got) != 2 {
		t.Fatalf("ByElement(Mộc) = %d, want 2 (dual keys deduplicated)", len(got))
	}
	if got[0].Name != "Lan" || got[1].Name != "Lâm" {
		t.Errorf("order = %q, %q", got[0].Name, got[1].Name)
	}
	if got := d.ByElement("Mộc", 1); len(got) != 1 {
		t.Errorf("limit 1 -> %d results", len(got))
	}
	if got := d.ByElement("", 10); got != nil {
		t.Errorf("empty element -> %v, want nil", got)
	}
	if got := d.ByElement("Hỏa", 10); len(got) != 0 {
		t.Errorf("ByElement(Hỏa) = %v, want none", got)
	}
}

func TestPrimaryElement(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Thủy", "Thủy"},
		{"Mộc dương", "Mộc"},
		{"  Hỏa  âm ", "Hỏa"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := PrimaryElement(tt.in); got != tt.want {
			t.Errorf("PrimaryElement(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
