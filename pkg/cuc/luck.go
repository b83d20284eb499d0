// CLAUDE:SUMMARY Luck classification of cục numbers and per-cục cards built from the three tables.
package cuc

import (
	"fmt"
	"strings"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

// Luck is the display label of a cục's luck text.
type Luck string

const (
	LuckDaiCat  Luck = "ĐẠI CÁT"
	LuckCat     Luck = "CÁT"
	LuckHung    Luck = "HUNG"
	LuckBinh    Luck = "BÌNH"
	LuckUnknown Luck = "---"
)

// ClassifyLuck maps free-form luck text to a label and a style class
// ("cat", "hung" or "mixed"). Text with both cát and hung is mixed.
func ClassifyLuck(luck string) (Luck, string) {
	if strings.TrimSpace(luck) == "" {
		return LuckUnknown, "mixed"
	}
	l := strings.ToLower(luck)
	cat := strings.Contains(l, "cát")
	hung := strings.Contains(l, "hung")

	class := "mixed"
	switch {
	case cat && !hung:
		class = "cat"
	case hung && !cat:
		class = "hung"
	}

	switch {
	case strings.Contains(l, "đại cát"):
		return LuckDaiCat, class
	case cat && !hung:
		return LuckCat, class
	case hung && !cat:
		return LuckHung, class
	}
	return LuckBinh, class
}

// CucCard is everything shown for one cục number.
type CucCard struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Alias       string `json:"alias"`
	Luck        Luck   `json:"luck"`
	LuckText    string `json:"luck_text"`
	LuckClass   string `json:"luck_class"`
	Score       int    `json:"score"`
	Palace      string `json:"palace,omitempty"`
	Description string `json:"description"`
	Career      string `json:"career"`
	Family      string `json:"family"`
	Health      string `json:"health"`
	HasDetail   bool   `json:"has_detail"`
}

// Card assembles the card for cục n from the three cục tables. Missing rows
// leave gaps; the name falls back to "Cục n".
func Card(t *dict.Tables, n int) CucCard {
	var (
		s dict.CucScore
		m dict.CucMeaning
		d dict.CucDetail
	)
	if t != nil {
		s, _ = t.Score(n)
		m, _ = t.Meaning(n)
		d, _ = t.Detail(n)
	}

	label, class := ClassifyLuck(m.Luck)
	c := CucCard{
		Number:      n,
		Name:        firstNonEmpty(m.Name, d.CucName, fmt.Sprintf("Cục %d", n)),
		Alias:       firstNonEmpty(m.Alias, d.Alias),
		Luck:        label,
		LuckText:    m.Luck,
		LuckClass:   class,
		Score:       s.Score,
		Palace:      m.Palace,
		Description: firstNonEmpty(d.Description, m.Meaning),
		Career:      firstNonEmpty(d.Career, m.Meaning),
		Family:      firstNonEmpty(d.Family, d.PhucDuc),
		Health:      firstNonEmpty(d.Health, "Bình thường"),
		HasDetail:   d.CucName != "",
	}
	return c
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
