package kv

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLite persists keys in a single `kv` table, partitioned by origin.
type SQLite struct {
	db     *sql.DB
	origin string
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path, origin string) (*SQLite, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve kv db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure kv db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open kv db: %w", err)
	}
	// Single writer: SQLite serializes writes anyway and this avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db, origin: origin}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS kv (
	origin TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (origin, key)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create kv schema: %w", err)
	}
	return nil
}

func (s *SQLite) Get(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE origin = ? AND key = ?", s.origin, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		log.Printf("ERROR: kv/sqlite: get '%s': %v", key, err)
		return "", false
	}
	return value, true
}

func (s *SQLite) Set(key, value string) {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO kv (origin, key, value)
		VALUES (?, ?, ?)
	`, s.origin, key, value)
	if err != nil {
		log.Printf("ERROR: kv/sqlite: set '%s': %v", key, err)
	}
}

func (s *SQLite) Remove(key string) {
	if _, err := s.db.Exec("DELETE FROM kv WHERE origin = ? AND key = ?", s.origin, key); err != nil {
		log.Printf("ERROR: kv/sqlite: remove '%s': %v", key, err)
	}
}

func (s *SQLite) Keys() []string {
	rows, err := s.db.Query("SELECT key FROM kv WHERE origin = ? ORDER BY key", s.origin)
	if err != nil {
		log.Printf("ERROR: kv/sqlite: list keys: %v", err)
		return nil
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			log.Printf("ERROR: kv/sqlite: scan key: %v", err)
			return keys
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		log.Printf("ERROR: kv/sqlite: iterate keys: %v", err)
	}
	return keys
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
