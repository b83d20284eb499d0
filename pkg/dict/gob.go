// CLAUDE:SUMMARY Gob serialization of syllable tables, preferred over JSON/CSV at load time.
package dict

import (
	"encoding/gob"
	"fmt"
	"os"
)

// loadGob deserializes a syllable table from a gob-encoded file.
func loadGob(path string) (map[string]Syllable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gob file: %w", err)
	}
	defer f.Close()

	entries := make(map[string]Syllable)
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode gob: %w", err)
	}
	return entries, nil
}

// SaveGob serializes a syllable table to a gob-encoded file at path.
func SaveGob(entries map[string]Syllable, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gob file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(entries); err != nil {
		f.Close()
		return fmt.Errorf("encode gob: %w", err)
	}
	return f.Close()
}
