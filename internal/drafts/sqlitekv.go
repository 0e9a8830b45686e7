package drafts

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS draft_scopes (
    scope TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// SQLiteKV persists draft collections in a local SQLite database, one row per
// scope.
type SQLiteKV struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the draft database at path.
func OpenSQLite(path string) (*SQLiteKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create draft db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create draft schema: %w", err)
	}

	return &SQLiteKV{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *SQLiteKV) Path() string {
	return s.path
}

// Close releases the database handle.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}

func (s *SQLiteKV) Get(key string) (string, bool) {
	var payload string
	err := s.db.QueryRow("SELECT payload FROM draft_scopes WHERE scope = ?", key).Scan(&payload)
	if err != nil {
		// Missing and unreadable rows both degrade to an empty collection.
		return "", false
	}
	return payload, true
}

func (s *SQLiteKV) Set(key, value string) error {
	_, err := s.db.Exec(`
INSERT INTO draft_scopes (scope, payload, updated_at)
VALUES (?, ?, datetime('now'))
ON CONFLICT(scope) DO UPDATE SET
    payload = excluded.payload,
    updated_at = excluded.updated_at`, key, value)
	if err != nil {
		return fmt.Errorf("write draft scope %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteKV) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM draft_scopes WHERE scope = ?", key); err != nil {
		return fmt.Errorf("delete draft scope %q: %w", key, err)
	}
	return nil
}
