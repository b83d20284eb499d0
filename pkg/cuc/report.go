// CLAUDE:SUMMARY Analyzer entry points for the full report, single cục cards and element suggestions.
package cuc

import (
	"fmt"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

// Report bundles an analysis with everything derived from the same table
// snapshot.
type Report struct {
	Result  *Result   `json:"result"`
	Grading Grading   `json:"grading"`
	Advice  []Advice  `json:"advice"`
	Missing []string  `json:"missing_elements"`
	Cards   []CucCard `json:"cards"`
}

// Report analyzes a name and derives grading, advice and the six cards.
func (a *Analyzer) Report(surname, middle, given string, g Gender) (*Report, error) {
	t, err := a.src.Tables()
	if err != nil {
		return nil, err
	}
	r, err := analyze(t, surname, middle, given, g)
	if err != nil {
		return nil, err
	}
	return BuildReport(t, r), nil
}

// BuildReport derives grading, advice and cards for an existing result.
func BuildReport(t *dict.Tables, r *Result) *Report {
	rep := &Report{
		Result:  r,
		Grading: Grade(r.TotalScore),
		Advice:  Advise(t, r),
		Missing: MissingElements(r),
	}
	for _, p := range r.Positions() {
		rep.Cards = append(rep.Cards, Card(t, p.Value))
	}
	return rep
}

// Card returns the card for cục n from the current snapshot.
func (a *Analyzer) Card(n int) (CucCard, error) {
	if !Valid(n) {
		return CucCard{}, fmt.Errorf("%w: %d outside 1..%d", ErrUnknownCuc, n, MaxCuc)
	}
	t, err := a.src.Tables()
	if err != nil {
		return CucCard{}, err
	}
	return Card(t, n), nil
}

// Suggest lists syllables whose element label contains element.
func (a *Analyzer) Suggest(element string, limit int) ([]dict.Syllable, error) {
	t, err := a.src.Tables()
	if err != nil {
		return nil, err
	}
	return t.Syllables.ByElement(element, limit), nil
}
