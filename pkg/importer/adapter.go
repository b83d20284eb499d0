// CLAUDE:SUMMARY Adapter contract (validate, import) and the global registry of table import adapters.
package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

// Adapter defines a data source importer that fetches, validates and writes
// one lookup table directory.
type Adapter interface {
	// ID returns the unique identifier of this adapter (e.g. "syllables-json").
	ID() string
	// TableID returns the target table directory (e.g. "syllables").
	TableID() string
	// Kind returns the table kind the adapter produces.
	Kind() dict.Kind
	// Description returns a human-readable description.
	Description() string
	// DefaultURL returns the default source URL or path used for seeding the database.
	DefaultURL() string
	// License returns the license identifier for this source.
	License() string
	// Validate checks fetched source content against the table kind
	// without writing anything.
	Validate(data []byte) (Validation, error)
	// Import fetches the source from sourceURL (http(s) URL or local path),
	// validates it, and writes the data file + manifest.yaml into a
	// subdirectory of outputDir named after TableID(). It returns the
	// number of entries written.
	Import(ctx context.Context, sourceURL, outputDir string) (int, error)
}

// Validation summarizes what a source would import.
type Validation struct {
	Entries int
	// Missing counts cục numbers absent from a cục table source.
	Missing int
}

var (
	registryMu sync.RWMutex
	adapters   = make(map[string]Adapter)
)

// Register adds an adapter to the global registry.
func Register(a Adapter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	adapters[a.ID()] = a
}

// Get returns a registered adapter by ID, or an error if not found.
func Get(id string) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := adapters[id]
	if !ok {
		return nil, fmt.Errorf("unknown import source: %q", id)
	}
	return a, nil
}

// All returns all registered adapters sorted by ID.
func All() []Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// base carries the static metadata shared by every adapter.
type base struct {
	id, tableID, desc, url, license string
	kind                            dict.Kind
}

func (b *base) ID() string          { return b.id }
func (b *base) TableID() string     { return b.tableID }
func (b *base) Kind() dict.Kind     { return b.kind }
func (b *base) Description() string { return b.desc }
func (b *base) DefaultURL() string  { return b.url }
func (b *base) License() string     { return b.license }

func (b *base) manifest(sourceURL, dataFile string) *dict.Manifest {
	return &dict.Manifest{
		ID:        b.tableID,
		Version:   importVersion(),
		Kind:      b.kind,
		Source:    b.desc,
		SourceURL: sourceURL,
		License:   b.license,
		DataFile:  dataFile,
	}
}
