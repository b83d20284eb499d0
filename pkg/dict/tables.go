// CLAUDE:SUMMARY Loaded table snapshot: readiness check and cục score, meaning and detail accessors.
package dict

import "errors"

// ErrNotReady is returned while the four lookup tables have not all been loaded.
var ErrNotReady = errors.New("lookup tables not loaded")

// Tables is one immutable snapshot of the four lookup tables.
// Callers must treat it as read-only.
type Tables struct {
	Syllables *SyllableDict
	Scores    map[int]CucScore
	Meanings  map[int]CucMeaning
	Details   map[int]CucDetail
}

// Complete reports whether every table is present.
func (t *Tables) Complete() bool {
	return t != nil && t.Syllables != nil && t.Scores != nil && t.Meanings != nil && t.Details != nil
}

// Tables returns t itself, so a fixed snapshot can stand in for a Registry.
func (t *Tables) Tables() (*Tables, error) {
	if !t.Complete() {
		return nil, ErrNotReady
	}
	return t, nil
}

// Score returns the score row for cục n; the zero row when missing.
func (t *Tables) Score(n int) (CucScore, bool) {
	s, ok := t.Scores[n]
	return s, ok
}

// Meaning returns the meaning row for cục n; the zero row when missing.
func (t *Tables) Meaning(n int) (CucMeaning, bool) {
	m, ok := t.Meanings[n]
	return m, ok
}

// Detail returns the detail row for cục n; the zero row when missing.
func (t *Tables) Detail(n int) (CucDetail, bool) {
	d, ok := t.Details[n]
	return d, ok
}
