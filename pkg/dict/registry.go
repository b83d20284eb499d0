// CLAUDE:SUMMARY Table registry: loads one table directory per kind and swaps the snapshot under a lock on reload.
package dict

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry loads the table directories under dataDir and hands out the
// current snapshot. A snapshot is only published once all four kinds loaded.
type Registry struct {
	mu      sync.RWMutex
	tables  *Tables
	infos   []TableInfo
	dataDir string
}

// NewRegistry creates an empty (not ready) registry for the given directory.
func NewRegistry(dataDir string) *Registry {
	return &Registry{dataDir: dataDir}
}

// TableInfo is the public metadata for a loaded table.
type TableInfo struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Version   string `json:"version"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url,omitempty"`
	License   string `json:"license"`
	Entries   int    `json:"entries"`
}

// Load scans the data directory and loads every table. On error the
// previously published snapshot, if any, stays in place.
func (r *Registry) Load() error {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		return fmt.Errorf("read data dir %s: %w", r.dataDir, err)
	}

	next := &Tables{}
	var infos []TableInfo
	owner := make(map[Kind]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.dataDir, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yaml")); err != nil {
			continue
		}
		m, err := LoadManifest(filepath.Join(dir, "manifest.yaml"))
		if err != nil {
			return err
		}
		if prev, dup := owner[m.Kind]; dup {
			return fmt.Errorf("table %s: kind %s already provided by %s", m.ID, m.Kind, prev)
		}
		owner[m.Kind] = m.ID

		n, err := loadTable(dir, m, next)
		if err != nil {
			return fmt.Errorf("table %s: %w", m.ID, err)
		}
		infos = append(infos, TableInfo{
			ID:        m.ID,
			Kind:      m.Kind,
			Version:   m.Version,
			Source:    m.Source,
			SourceURL: m.SourceURL,
			License:   m.License,
			Entries:   n,
		})
	}

	var missing []string
	for _, k := range Kinds {
		if _, ok := owner[k]; !ok {
			missing = append(missing, string(k))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s in %s", ErrNotReady, strings.Join(missing, ", "), r.dataDir)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })

	r.mu.Lock()
	r.tables = next
	r.infos = infos
	r.mu.Unlock()
	return nil
}

// Reload reloads all tables from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

func loadTable(dir string, m *Manifest, into *Tables) (int, error) {
	switch m.Kind {
	case KindSyllables:
		d, err := loadSyllables(dir, m)
		if err != nil {
			return 0, err
		}
		into.Syllables = d
		return d.Len(), nil
	case KindCucScores:
		t, err := loadCucTable[CucScore](dir, m)
		if err != nil {
			return 0, err
		}
		into.Scores = t
		return len(t), nil
	case KindCucMeanings:
		t, err := loadCucTable[CucMeaning](dir, m)
		if err != nil {
			return 0, err
		}
		into.Meanings = t
		return len(t), nil
	case KindCucDetails:
		t, err := loadCucTable[CucDetail](dir, m)
		if err != nil {
			return 0, err
		}
		into.Details = t
		return len(t), nil
	}
	return 0, fmt.Errorf("unknown kind %q", m.Kind)
}

// Tables returns the current snapshot, or ErrNotReady before the first
// successful Load.
func (r *Registry) Tables() (*Tables, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.tables.Complete() {
		return nil, ErrNotReady
	}
	return r.tables, nil
}

// Ready reports whether a complete snapshot has been published.
func (r *Registry) Ready() bool {
	_, err := r.Tables()
	return err == nil
}

// ListTables returns metadata for all loaded tables, sorted by ID.
func (r *Registry) ListTables() []TableInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TableInfo, len(r.infos))
	copy(out, r.infos)
	return out
}

// SyllableCount returns the number of syllable keys in the current snapshot.
func (r *Registry) SyllableCount() int {
	t, err := r.Tables()
	if err != nil {
		return 0
	}
	return t.Syllables.Len()
}
