// CLAUDE:SUMMARY Row types and generic JSON loader for the three cục tables keyed 1..81.
package dict

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CucScore is one row of the cục score table.
type CucScore struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// CucMeaning is one row of the cục meaning table.
type CucMeaning struct {
	Number  int    `json:"number"`
	Name    string `json:"name"`
	Luck    string `json:"luck"`
	Alias   string `json:"alias"`
	Palace  string `json:"palace,omitempty"`
	Meaning string `json:"meaning"`
}

// CucDetail is the long-form interpretation of a cục.
type CucDetail struct {
	Number       int    `json:"number"`
	CucName      string `json:"cuc_name"`
	Alias        string `json:"alias"`
	Description  string `json:"description"`
	Family       string `json:"family"`
	TinhDanhDien string `json:"tinh_danh_dien,omitempty"`
	Health       string `json:"health"`
	Career       string `json:"career"`
	TinhDanhPhan string `json:"tinh_danh_phan,omitempty"`
	TinhDanhBat  string `json:"tinh_danh_bat,omitempty"`
	PhucDuc      string `json:"phuc_duc,omitempty"`
}

// loadCucTable decodes a {"1": {...}, "2": {...}} file into a map keyed by
// cục number. Non-numeric keys are skipped and counted.
func loadCucTable[T any](dir string, m *Manifest) (map[int]T, error) {
	data, err := os.ReadFile(filepath.Join(dir, m.DataFile))
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	var raw map[string]T
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s json: %w", m.Kind, err)
	}

	out := make(map[int]T, len(raw))
	var skipped int
	for k, v := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || n <= 0 {
			skipped++
			continue
		}
		out[n] = v
	}
	if skipped > 0 {
		slog.Warn("skipped rows with invalid cục number", "table", m.ID, "skipped", skipped)
	}
	return out, nil
}
