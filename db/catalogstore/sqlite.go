package catalogstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"bike-config/core/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS parts (
	seq               INTEGER PRIMARY KEY AUTOINCREMENT,
	reference         TEXT NOT NULL,
	component         TEXT NOT NULL DEFAULT '',
	name              TEXT NOT NULL DEFAULT '',
	price             TEXT NOT NULL DEFAULT '',
	link              TEXT NOT NULL DEFAULT '',
	date_last_updated TEXT NOT NULL DEFAULT '',
	up_to_date        INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS parts_reference ON parts(reference);
CREATE TABLE IF NOT EXISTS imports (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	hash        TEXT NOT NULL,
	parts       INTEGER NOT NULL,
	imported_at TEXT NOT NULL
);`

// fixed width so imported_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ImportRecord describes one catalog replacement
type ImportRecord struct {
	ID         uuid.UUID `json:"id"`
	Source     string    `json:"source"`
	Hash       string    `json:"hash"`
	Parts      int       `json:"parts"`
	ImportedAt time.Time `json:"imported_at"`

	// Unchanged is set when the content matched the latest import and
	// nothing was written
	Unchanged bool `json:"unchanged"`
}

// SQLiteStore keeps the catalog in a SQLite database. Reference keys are
// not unique in the table; entries keep their insertion order.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "catalog.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create catalog tables: %w", err)
	}
	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

// Name implements catalog.Store
func (s *SQLiteStore) Name() string {
	return "sqlite:" + s.path
}

// Load implements catalog.Store
func (s *SQLiteStore) Load(ctx context.Context) ([]types.Part, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT reference, component, name, price, link, date_last_updated, up_to_date FROM parts ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("select parts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var parts []types.Part
	for rows.Next() {
		var p types.Part
		var ref string
		if err := rows.Scan(&ref, &p.Component, &p.Name, &p.Price, &p.Link, &p.DateLastUpdated, &p.UpToDate); err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		p.Reference = types.ReferenceKey(ref)
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parts: %w", err)
	}
	return parts, nil
}

// Replace swaps the whole catalog for parts in one transaction. If hash
// equals the latest import nothing is written.
func (s *SQLiteStore) Replace(ctx context.Context, source, hash string, parts []types.Part) (rec ImportRecord, retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest, found, err := s.latestImport(ctx)
	if err != nil {
		return ImportRecord{}, err
	}
	if found && latest.Hash == hash {
		latest.Unchanged = true
		return latest, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM parts`); err != nil {
		return ImportRecord{}, fmt.Errorf("clear parts: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO parts(reference, component, name, price, link, date_last_updated, up_to_date) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for _, p := range parts {
		if _, err := stmt.ExecContext(ctx, string(p.Reference), p.Component, p.Name, p.Price, p.Link, p.DateLastUpdated, p.UpToDate); err != nil {
			return ImportRecord{}, fmt.Errorf("insert %s: %w", p.Reference, err)
		}
	}

	rec = ImportRecord{
		ID:         uuid.New(),
		Source:     source,
		Hash:       hash,
		Parts:      len(parts),
		ImportedAt: s.now().UTC(),
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO imports(id, source, hash, parts, imported_at) VALUES(?,?,?,?,?)`,
		rec.ID.String(), rec.Source, rec.Hash, rec.Parts, rec.ImportedAt.Format(timeLayout)); err != nil {
		return ImportRecord{}, fmt.Errorf("record import: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ImportRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// Imports lists past imports, newest first
func (s *SQLiteStore) Imports(ctx context.Context) ([]ImportRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, source, hash, parts, imported_at FROM imports ORDER BY imported_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("select imports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ImportRecord
	for rows.Next() {
		rec, err := scanImport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) latestImport(ctx context.Context) (ImportRecord, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, source, hash, parts, imported_at FROM imports ORDER BY imported_at DESC, rowid DESC LIMIT 1`)
	if err != nil {
		return ImportRecord{}, false, fmt.Errorf("select latest import: %w", err)
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return ImportRecord{}, false, rows.Err()
	}
	rec, err := scanImport(rows)
	return rec, err == nil, err
}

func scanImport(rows *sql.Rows) (ImportRecord, error) {
	var rec ImportRecord
	var id, at string
	if err := rows.Scan(&id, &rec.Source, &rec.Hash, &rec.Parts, &at); err != nil {
		return ImportRecord{}, fmt.Errorf("scan import: %w", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("import id %q: %w", id, err)
	}
	rec.ID = parsed
	if rec.ImportedAt, err = time.Parse(timeLayout, at); err != nil {
		return ImportRecord{}, fmt.Errorf("import time %q: %w", at, err)
	}
	return rec, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database path
func (s *SQLiteStore) Path() string {
	return s.path
}
