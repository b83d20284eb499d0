// CLAUDE:SUMMARY Import adapters for the three cục tables (scores, meanings, details) from JSON exports, plus scores derived from luck text.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hazyhaar/vietdanh/pkg/cuc"
	"github.com/hazyhaar/vietdanh/pkg/dict"
)

func init() {
	Register(&cucTableAdapter[dict.CucScore]{base{
		id:      "cuc-scores-json",
		tableID: "cuc-scores",
		desc:    "Việt Danh Tính cục scores (JSON export)",
		url:     "public/data/cuc_scores.json",
		license: "proprietary",
		kind:    dict.KindCucScores,
	}})
	Register(&cucTableAdapter[dict.CucMeaning]{base{
		id:      "cuc-meanings-json",
		tableID: "cuc-meanings",
		desc:    "Việt Danh Tính cục meanings (JSON export)",
		url:     "public/data/cuc_meanings.json",
		license: "proprietary",
		kind:    dict.KindCucMeanings,
	}})
	Register(&cucTableAdapter[dict.CucDetail]{base{
		id:      "cuc-details-json",
		tableID: "cuc-details",
		desc:    "Việt Danh Tính 81 cục details (JSON export)",
		url:     "public/data/cuc_details.json",
		license: "proprietary",
		kind:    dict.KindCucDetails,
	}})
	Register(&derivedScoresAdapter{base{
		id:      "cuc-scores-derived",
		tableID: "cuc-scores",
		desc:    "Cục scores derived from the luck and meaning text of the meanings export",
		url:     "public/data/cuc_meanings.json",
		license: "proprietary",
		kind:    dict.KindCucScores,
	}})
}

// cucTableAdapter imports a {"1": {...}, ...} export keyed by cục number.
type cucTableAdapter[T any] struct{ base }

func (a *cucTableAdapter[T]) Validate(data []byte) (Validation, error) {
	rows, err := decodeCucRows[T](data)
	if err != nil {
		return Validation{}, fmt.Errorf("%s: %w", a.kind, err)
	}
	return cucValidation(len(rows)), nil
}

func (a *cucTableAdapter[T]) Import(ctx context.Context, sourceURL, outputDir string) (int, error) {
	dlDir := filepath.Join(outputDir, "_download")
	defer os.RemoveAll(dlDir)

	data, err := readSource(ctx, sourceURL, dlDir)
	if err != nil {
		return 0, err
	}
	rows, err := decodeCucRows[T](data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", a.kind, err)
	}
	return len(rows), a.writeRows(rows, sourceURL, outputDir)
}

func cucValidation(rows int) Validation {
	return Validation{Entries: rows, Missing: cuc.MaxCuc - rows}
}

// decodeCucRows keeps the rows whose key is a cục number in 1..81.
func decodeCucRows[T any](data []byte) (map[string]T, error) {
	var raw map[string]T
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	rows := make(map[string]T, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || !cuc.Valid(n) {
			continue
		}
		rows[strconv.Itoa(n)] = v
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows keyed 1..%d", cuc.MaxCuc)
	}
	if skipped := len(raw) - len(rows); skipped > 0 {
		slog.Warn("skipped rows outside 1..81", "skipped", skipped)
	}
	return rows, nil
}

func (b *base) writeRows(rows any, sourceURL, outputDir string) error {
	tableDir := filepath.Join(outputDir, b.tableID)
	if err := ensureDir(tableDir); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tableDir, "data.json"), rows); err != nil {
		return err
	}
	slog.Info("table imported", "adapter", b.id, "table", b.tableID)
	return writeManifest(tableDir, b.manifest(sourceURL, "data.json"))
}

// derivedScoresAdapter builds the score table from the meanings export when
// no score sheet is available.
type derivedScoresAdapter struct{ base }

func (a *derivedScoresAdapter) Validate(data []byte) (Validation, error) {
	meanings, err := decodeCucRows[dict.CucMeaning](data)
	if err != nil {
		return Validation{}, fmt.Errorf("%s: %w", dict.KindCucMeanings, err)
	}
	return cucValidation(len(meanings)), nil
}

func (a *derivedScoresAdapter) Import(ctx context.Context, sourceURL, outputDir string) (int, error) {
	dlDir := filepath.Join(outputDir, "_download")
	defer os.RemoveAll(dlDir)

	data, err := readSource(ctx, sourceURL, dlDir)
	if err != nil {
		return 0, err
	}
	meanings, err := decodeCucRows[dict.CucMeaning](data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", dict.KindCucMeanings, err)
	}

	scores := make(map[string]dict.CucScore, len(meanings))
	for k, m := range meanings {
		n, _ := strconv.Atoi(k)
		scores[k] = dict.CucScore{
			Number: n,
			Name:   m.Name,
			Score:  DeriveScore(m.Luck, m.Meaning),
		}
	}
	return len(scores), a.writeRows(scores, sourceURL, outputDir)
}

// DeriveScore rates a cục from its luck label, then lets strong wording in
// the meaning text override the rating. Only the plain "cát" and "hung"
// labels move away from 5; mixed labels such as "trong cát có hung" stay 5.
func DeriveScore(luck, meaning string) int {
	l := strings.ToLower(strings.TrimSpace(luck))
	m := strings.ToLower(meaning)

	score := 5
	switch l {
	case "cát", "cat":
		score = 10
	case "hung":
		score = 2
	}

	switch {
	case strings.Contains(m, "đại cát"):
		score = 10
	case strings.Contains(m, "hung ác"), strings.Contains(m, "hung sát"):
		score = 1
	case strings.Contains(m, "thuận lợi"), strings.Contains(m, "tốt đẹp"):
		score = 9
	}
	return score
}
