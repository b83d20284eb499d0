// CLAUDE:SUMMARY Cao Từ Linh letter-stroke table and first/last letter stroke helpers over calc-normalized syllables.
package cuc

import (
	"unicode/utf8"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

// letterStrokes is the Cao Từ Linh table. Đ sits between D and E; F, J, W
// and Z are appended after Y.
var letterStrokes = map[rune]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'Đ': 5,
	'E': 6, 'G': 7, 'H': 8, 'I': 9, 'K': 10,
	'L': 11, 'M': 12, 'N': 13, 'O': 14, 'P': 15,
	'Q': 16, 'R': 17, 'S': 18, 'T': 19, 'U': 20,
	'V': 21, 'X': 22, 'Y': 23,
	'F': 24, 'J': 25, 'W': 26, 'Z': 27,
}

// LetterStroke returns the stroke value of a single character, 0 when the
// character is not a letter of the table.
func LetterStroke(char string) int {
	s := dict.NormalizeCalc(char)
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0
	}
	return letterStrokes[r]
}

// FirstCharStroke returns the stroke value of the first letter of syllable,
// taken as typed (with diacritics), never from the lookup key.
func FirstCharStroke(syllable string) int {
	s := dict.NormalizeCalc(syllable)
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return letterStrokes[r]
}

// LastCharStroke is FirstCharStroke for the last letter.
func LastCharStroke(syllable string) int {
	s := dict.NormalizeCalc(syllable)
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return letterStrokes[r]
}
