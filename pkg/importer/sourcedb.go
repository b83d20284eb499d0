// CLAUDE:SUMMARY SQLite ledger of table sources: the table and kind each adapter feeds, operator URL overrides, the last content check and the last import run.
package importer

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/vietdanh/pkg/dict"
)

// ErrUnknownSource is returned for an adapter id with no ledger row.
var ErrUnknownSource = errors.New("unknown source")

// Source is one ledger row.
type Source struct {
	AdapterID   string
	TableID     string
	Kind        dict.Kind
	Description string
	URL         string
	DefaultURL  string
	License     string
	UpdatedAt   time.Time

	// Check is nil until the source has been checked.
	Check *Check
	// LastImport is nil until the source has been imported.
	LastImport *ImportRun
}

// Overridden reports whether the operator replaced the adapter's default URL.
func (s Source) Overridden() bool {
	return s.URL != s.DefaultURL
}

// Check is the outcome of fetching a source and validating it against its
// table kind.
type Check struct {
	At     time.Time
	Status int
	// Entries is the number of rows the source would import.
	Entries int
	// Missing counts cục numbers in 1..81 absent from a cục table source.
	Missing int
	Err     string
}

// OK reports whether the source was reachable and valid for its kind.
func (c *Check) OK() bool {
	return c != nil && c.Status == http.StatusOK && c.Err == ""
}

// ImportRun records one `import` of a source.
type ImportRun struct {
	At      time.Time
	Entries int
	Err     string
}

// SourceDB is the source ledger.
type SourceDB struct {
	db *sql.DB
}

const sourcesDDL = `CREATE TABLE IF NOT EXISTS table_sources (
	adapter_id     TEXT PRIMARY KEY,
	table_id       TEXT NOT NULL,
	kind           TEXT NOT NULL,
	description    TEXT NOT NULL,
	source_url     TEXT NOT NULL,
	default_url    TEXT NOT NULL,
	license        TEXT NOT NULL DEFAULT '',
	updated_at     INTEGER NOT NULL,
	checked_at     INTEGER,
	check_status   INTEGER,
	check_entries  INTEGER,
	check_missing  INTEGER,
	check_error    TEXT,
	imported_at    INTEGER,
	import_entries INTEGER,
	import_error   TEXT
)`

// OpenSourceDB opens (or creates) the ledger at path.
func OpenSourceDB(path string) (*SourceDB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open source db: %w", err)
	}
	if _, err := db.Exec(sourcesDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table_sources: %w", err)
	}
	return &SourceDB{db: db}, nil
}

// Close closes the database.
func (s *SourceDB) Close() error {
	return s.db.Close()
}

// Seed upserts one row per adapter. Adapter metadata is refreshed on every
// call; an overridden source_url is kept, a default one follows the adapter.
func (s *SourceDB) Seed(adapters []Adapter) error {
	const q = `INSERT INTO table_sources
		(adapter_id, table_id, kind, description, source_url, default_url, license, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(adapter_id) DO UPDATE SET
			table_id    = excluded.table_id,
			kind        = excluded.kind,
			description = excluded.description,
			license     = excluded.license,
			source_url  = CASE WHEN table_sources.source_url = table_sources.default_url
			                   THEN excluded.source_url ELSE table_sources.source_url END,
			default_url = excluded.default_url`

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, a := range adapters {
		if _, err := tx.Exec(q, a.ID(), a.TableID(), string(a.Kind()), a.Description(),
			a.DefaultURL(), a.DefaultURL(), a.License(), now); err != nil {
			return fmt.Errorf("seed %s: %w", a.ID(), err)
		}
	}
	return tx.Commit()
}

// SetURL points a source at url. The previous check no longer applies and
// is cleared.
func (s *SourceDB) SetURL(adapterID, url string) error {
	return s.exec(adapterID, `UPDATE table_sources SET source_url = ?, updated_at = ?,
		checked_at = NULL, check_status = NULL, check_entries = NULL, check_missing = NULL, check_error = NULL
		WHERE adapter_id = ?`, url, time.Now().Unix(), adapterID)
}

// ResetURL restores the adapter's default URL.
func (s *SourceDB) ResetURL(adapterID string) error {
	src, err := s.Source(adapterID)
	if err != nil {
		return err
	}
	return s.SetURL(adapterID, src.DefaultURL)
}

// RecordCheck stores the outcome of a content check.
func (s *SourceDB) RecordCheck(adapterID string, c Check) error {
	return s.exec(adapterID, `UPDATE table_sources SET checked_at = ?, check_status = ?,
		check_entries = ?, check_missing = ?, check_error = ? WHERE adapter_id = ?`,
		c.At.Unix(), c.Status, c.Entries, c.Missing, nullString(c.Err), adapterID)
}

// RecordImport stores an import run. A failed run keeps the entry count of
// the last successful one, since the table on disk is unchanged.
func (s *SourceDB) RecordImport(adapterID string, run ImportRun) error {
	if run.Err != "" {
		return s.exec(adapterID, `UPDATE table_sources SET imported_at = ?, import_error = ?
			WHERE adapter_id = ?`, run.At.Unix(), run.Err, adapterID)
	}
	return s.exec(adapterID, `UPDATE table_sources SET imported_at = ?, import_entries = ?,
		import_error = NULL WHERE adapter_id = ?`, run.At.Unix(), run.Entries, adapterID)
}

func (s *SourceDB) exec(adapterID, q string, args ...any) error {
	res, err := s.db.Exec(q, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", adapterID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSource, adapterID)
	}
	return nil
}

const sourceColumns = `adapter_id, table_id, kind, description, source_url, default_url, license,
	updated_at, checked_at, check_status, check_entries, check_missing, check_error,
	imported_at, import_entries, import_error`

// Source returns the row of one adapter.
func (s *SourceDB) Source(adapterID string) (Source, error) {
	row := s.db.QueryRow(`SELECT `+sourceColumns+` FROM table_sources WHERE adapter_id = ?`, adapterID)
	src, err := scanSource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Source{}, fmt.Errorf("%w: %s", ErrUnknownSource, adapterID)
	}
	return src, err
}

// List returns every row ordered by table, then adapter.
func (s *SourceDB) List() ([]Source, error) {
	rows, err := s.db.Query(`SELECT ` + sourceColumns + ` FROM table_sources ORDER BY table_id, adapter_id`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSource(r scanner) (Source, error) {
	var (
		src                                 Source
		kind                                string
		updated                             int64
		checkedAt, status, entries, missing sql.NullInt64
		checkErr                            sql.NullString
		importedAt, importEntries           sql.NullInt64
		importErr                           sql.NullString
	)
	if err := r.Scan(&src.AdapterID, &src.TableID, &kind, &src.Description, &src.URL, &src.DefaultURL,
		&src.License, &updated, &checkedAt, &status, &entries, &missing, &checkErr,
		&importedAt, &importEntries, &importErr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Source{}, err
		}
		return Source{}, fmt.Errorf("scan source: %w", err)
	}
	src.Kind = dict.Kind(kind)
	src.UpdatedAt = time.Unix(updated, 0)
	if checkedAt.Valid {
		src.Check = &Check{
			At:      time.Unix(checkedAt.Int64, 0),
			Status:  int(status.Int64),
			Entries: int(entries.Int64),
			Missing: int(missing.Int64),
			Err:     checkErr.String,
		}
	}
	if importedAt.Valid {
		src.LastImport = &ImportRun{
			At:      time.Unix(importedAt.Int64, 0),
			Entries: int(importEntries.Int64),
			Err:     importErr.String,
		}
	}
	return src, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
