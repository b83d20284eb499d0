// CLAUDE:SUMMARY Two normalization modes for Vietnamese syllables: lookup keys (lossy fold, Đ->D) and stroke calculation (marks stripped, Đ kept).
package dict

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticFold maps every accented uppercase Vietnamese vowel (and Đ) to its
// unaccented base letter. Đ -> D is lossy on purpose: dictionary keys do not
// distinguish the two.
var diacriticFold = map[rune]rune{
	'À': 'A', 'Á': 'A', 'Ả': 'A', 'Ã': 'A', 'Ạ': 'A',
	'Ă': 'A', 'Ằ': 'A', 'Ắ': 'A', 'Ẳ': 'A', 'Ẵ': 'A', 'Ặ': 'A',
	'Â': 'A', 'Ầ': 'A', 'Ấ': 'A', 'Ẩ': 'A', 'Ẫ': 'A', 'Ậ': 'A',
	'Đ': 'D',
	'È': 'E', 'É': 'E', 'Ẻ': 'E', 'Ẽ': 'E', 'Ẹ': 'E',
	'Ê': 'E', 'Ề': 'E', 'Ế': 'E', 'Ể': 'E', 'Ễ': 'E', 'Ệ': 'E',
	'Ì': 'I', 'Í': 'I', 'Ỉ': 'I', 'Ĩ': 'I', 'Ị': 'I',
	'Ò': 'O', 'Ó': 'O', 'Ỏ': 'O', 'Õ': 'O', 'Ọ': 'O',
	'Ô': 'O', 'Ồ': 'O', 'Ố': 'O', 'Ổ': 'O', 'Ỗ': 'O', 'Ộ': 'O',
	'Ơ': 'O', 'Ờ': 'O', 'Ớ': 'O', 'Ở': 'O', 'Ỡ': 'O', 'Ợ': 'O',
	'Ù': 'U', 'Ú': 'U', 'Ủ': 'U', 'Ũ': 'U', 'Ụ': 'U',
	'Ư': 'U', 'Ừ': 'U', 'Ứ': 'U', 'Ử': 'U', 'Ữ': 'U', 'Ự': 'U',
	'Ỳ': 'Y', 'Ý': 'Y', 'Ỷ': 'Y', 'Ỹ': 'Y', 'Ỵ': 'Y',
}

// dStrokePlaceholder stands in for Đ while marks are stripped.
const dStrokePlaceholder = '\uE000'

// stripMarks is rebuilt per call: transform.Chain keeps internal state.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Upper uppercases s with Vietnamese casing rules.
func Upper(s string) string {
	return cases.Upper(language.Vietnamese).String(s)
}

// NormalizeLookup builds a dictionary key: uppercase, fold diacritics,
// keep only A-Z (e.g. "Nguyễn" -> "NGUYEN", "Đức" -> "DUC").
func NormalizeLookup(s string) string {
	var b strings.Builder
	for _, r := range Upper(s) {
		if base, ok := diacriticFold[r]; ok {
			r = base
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeCalc strips tone and vowel marks but keeps Đ distinct from D,
// since the two letters carry different stroke values.
func NormalizeCalc(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == 'Đ' || r == 'đ' {
			return dStrokePlaceholder
		}
		return r
	}, s)
	s, _, _ = transform.String(stripMarks(), s)
	s = strings.ReplaceAll(s, string(dStrokePlaceholder), "Đ")
	return Upper(s)
}

// KeyMode derives the dictionary keys a syllable name is stored under.
type KeyMode func(name string) []string

// KeysLookup stores a name under its folded lookup key only.
func KeysLookup(name string) []string {
	if k := NormalizeLookup(name); k != "" {
		return []string{k}
	}
	return nil
}

// KeysUpper stores a name under its trimmed uppercase spelling.
func KeysUpper(name string) []string {
	if k := Upper(strings.TrimSpace(name)); k != "" {
		return []string{k}
	}
	return nil
}

// KeysDual stores a name under its uppercase spelling first, then under the
// folded key. Callers must not overwrite an existing folded key.
func KeysDual(name string) []string {
	up := Upper(strings.TrimSpace(name))
	if up == "" {
		return nil
	}
	folded := NormalizeLookup(name)
	if folded == "" || folded == up {
		return []string{up}
	}
	return []string{up, folded}
}

// GetKeyMode returns the key mode for a manifest normalize value.
// Default is dual.
func GetKeyMode(mode string) KeyMode {
	switch mode {
	case "lookup":
		return KeysLookup
	case "upper":
		return KeysUpper
	default:
		return KeysDual
	}
}
