package kvstore

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/arthur-debert/glyphs/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
	grp   TEXT NOT NULL,
	name  TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (grp, name)
)`

// SQLite is a Store backed by a sqlite database
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
// ":memory:" gives a private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New(errors.ErrInvalidInput, "sqlite store needs a path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrStoreOpen, "failed to create %s", filepath.Dir(path))
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreOpen, "failed to open %s", path)
	}
	// one connection keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrStoreOpen, "failed to create schema").
			WithDetail("path", path)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(group, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE grp = ? AND name = ?`, group, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrStoreRead, "failed to read value").
			WithDetail("group", group).
			WithDetail("key", key)
	}
	return value, true, nil
}

func (s *SQLite) Set(group, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (grp, name, value) VALUES (?, ?, ?)
		 ON CONFLICT (grp, name) DO UPDATE SET value = excluded.value`,
		group, key, value,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to write value").
			WithDetail("group", group).
			WithDetail("key", key)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
