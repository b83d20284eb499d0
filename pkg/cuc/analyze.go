// CLAUDE:SUMMARY Name analyzer: tokenizes họ/đệm/tên, looks up syllables, aggregates strokes and reduces the six cục formulas.
package cuc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

var (
	// ErrInvalidInput is returned when the surname or given name is empty.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidGender is returned for a gender outside male/female.
	ErrInvalidGender = errors.New("invalid gender")
	// ErrUnknownCuc is returned for a cục number outside 1..81.
	ErrUnknownCuc = errors.New("unknown cục number")
)

// Source hands out the current table snapshot. *dict.Registry and
// *dict.Tables both satisfy it.
type Source interface {
	Tables() (*dict.Tables, error)
}

// Gender selects the sign of the Tứ Túc modifier.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts male/female (any case) and the Vietnamese nam/nữ/nu.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "nam", "m":
		return Male, nil
	case "female", "nữ", "nu", "f":
		return Female, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidGender, s)
}

func (g Gender) modifier() (int, error) {
	switch g {
	case Male:
		return 1, nil
	case Female:
		return -1, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidGender, string(g))
}

// PartType is the name category a syllable belongs to.
type PartType string

const (
	Surname PartType = "Họ"
	Middle  PartType = "Đệm"
	Given   PartType = "Tên"
)

// NamePart is one whitespace-delimited token of the analyzed name.
type NamePart struct {
	Original string   `json:"original"`
	Name     string   `json:"name"`
	Strokes  int      `json:"strokes"`
	Element  string   `json:"element"`
	Type     PartType `json:"type"`
	Found    bool     `json:"found"`
}

// RawValues are the six accumulations before reduction.
type RawValues struct {
	TinhCuc int `json:"tinh_cuc"`
	DongCuc int `json:"dong_cuc"`
	TienVan int `json:"tien_van"`
	HauVan  int `json:"hau_van"`
	PhucDuc int `json:"phuc_duc"`
	TuTuc   int `json:"tu_tuc"`
}

// Result is the outcome of one full-name analysis.
type Result struct {
	Parts      []NamePart `json:"parts"`
	FullName   string     `json:"full_name"`
	Gender     Gender     `json:"gender"`
	TinhCuc    int        `json:"tinh_cuc"`
	DongCuc    int        `json:"dong_cuc"`
	TienVan    int        `json:"tien_van"`
	HauVan     int        `json:"hau_van"`
	PhucDuc    int        `json:"phuc_duc"`
	TuTuc      int        `json:"tu_tuc"`
	TotalScore int        `json:"total_score"`
	Raw        RawValues  `json:"raw"`
}

// Position names one of the six cục of a result.
type Position struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Positions lists the six cục in display order.
func (r *Result) Positions() []Position {
	return []Position{
		{"tinh_cuc", "Tĩnh Cục (Bản Mệnh)", r.TinhCuc},
		{"dong_cuc", "Động Cục", r.DongCuc},
		{"tien_van", "Tiền Vận", r.TienVan},
		{"hau_van", "Hậu Vận", r.HauVan},
		{"phuc_duc", "Phúc Đức", r.PhucDuc},
		{"tu_tuc", "Tứ Túc", r.TuTuc},
	}
}

// Analyzer runs analyses against the tables of a Source.
type Analyzer struct {
	src Source
}

// New creates an analyzer reading tables from src.
func New(src Source) *Analyzer {
	return &Analyzer{src: src}
}

// LookupSyllable resolves one syllable against the current dictionary.
func (a *Analyzer) LookupSyllable(text string) (dict.Syllable, bool, error) {
	t, err := a.src.Tables()
	if err != nil {
		return dict.Syllable{}, false, err
	}
	s, ok := t.Syllables.Lookup(text)
	return s, ok, nil
}

// AnalyzeFullName computes the six cục and total score of a name. Surname
// and given name are required; middle may be empty.
func (a *Analyzer) AnalyzeFullName(surname, middle, given string, g Gender) (*Result, error) {
	t, err := a.src.Tables()
	if err != nil {
		return nil, err
	}
	return analyze(t, surname, middle, given, g)
}

func analyze(t *dict.Tables, surname, middle, given string, g Gender) (*Result, error) {
	if strings.TrimSpace(surname) == "" || strings.TrimSpace(given) == "" {
		return nil, fmt.Errorf("%w: surname and given name are required", ErrInvalidInput)
	}
	mod, err := g.modifier()
	if err != nil {
		return nil, err
	}

	var parts []NamePart
	parts = appendParts(parts, t.Syllables, surname, Surname)
	parts = appendParts(parts, t.Syllables, middle, Middle)
	parts = appendParts(parts, t.Syllables, given, Given)

	total, last, first := map[PartType]int{}, map[PartType]int{}, map[PartType]int{}
	for _, p := range parts {
		total[p.Type] += p.Strokes
		last[p.Type] += LastCharStroke(p.Original)
		first[p.Type] += FirstCharStroke(p.Original)
	}

	raw := RawValues{
		TinhCuc: total[Surname] + total[Middle] + total[Given],
		DongCuc: last[Surname] + last[Middle] + total[Given],
		TienVan: last[Given] + last[Middle] + total[Surname],
		HauVan:  last[Middle] + total[Given] + total[Surname],
		PhucDuc: last[Surname] + last[Given] + total[Middle],
		TuTuc:   first[Surname] + first[Middle] + total[Given] + mod,
	}
	r := &Result{
		Parts:    parts,
		FullName: fullName(surname, middle, given),
		Gender:   g,
		TinhCuc:  Reduce(raw.TinhCuc),
		DongCuc:  Reduce(raw.DongCuc),
		TienVan:  Reduce(raw.TienVan),
		HauVan:   Reduce(raw.HauVan),
		PhucDuc:  Reduce(raw.PhucDuc),
		TuTuc:    Reduce(raw.TuTuc),
		Raw:      raw,
	}
	for _, p := range r.Positions() {
		s, _ := t.Score(p.Value)
		r.TotalScore += s.Score
	}
	return r, nil
}

func appendParts(parts []NamePart, d *dict.SyllableDict, text string, typ PartType) []NamePart {
	for _, tok := range strings.Fields(text) {
		s, ok := d.Lookup(tok)
		if !ok {
			parts = append(parts, NamePart{Original: tok, Name: tok, Type: typ})
			continue
		}
		name := s.Name
		if name == "" {
			name = tok
		}
		parts = append(parts, NamePart{
			Original: s.Original,
			Name:     name,
			Strokes:  s.Strokes,
			Element:  s.Element,
			Type:     typ,
			Found:    true,
		})
	}
	return parts
}

func fullName(fields ...string) string {
	var kept []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	return dict.Upper(strings.Join(kept, " "))
}

// PrimaryElements returns the distinct primary elements of the found parts,
// in order of first appearance.
func (r *Result) PrimaryElements() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.Parts {
		e := dict.PrimaryElement(p.Element)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
