package blob

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"organ-go/internal/blob/migrations"
)

// SQLiteStore is an embedded-database implementation of the Store
// interface. Snapshots live as blobs in a `projects` table; the metadata
// keyspace is a plain `kv` table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a sqlite snapshot store at the given
// path. ":memory:" gives an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps the in-memory database alive and sidesteps
	// SQLite writer contention.
	db.SetMaxOpenConns(1)

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Put(id string, data []byte, meta Metadata) error {
	_, err := s.db.Exec(`
		INSERT INTO projects (id, kind, name, data, created_ms, updated_ms)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			name = excluded.name,
			data = excluded.data,
			created_ms = excluded.created_ms,
			updated_ms = excluded.updated_ms`,
		id, meta.Kind, meta.Name, data, meta.CreatedMS, meta.UpdatedMS)
	if err != nil {
		return fmt.Errorf("storing snapshot %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) Get(id string) ([]byte, *Metadata, error) {
	var data []byte
	meta := Metadata{ID: id}
	err := s.db.QueryRow(
		`SELECT kind, name, data, created_ms, updated_ms FROM projects WHERE id = ?`, id).
		Scan(&meta.Kind, &meta.Name, &data, &meta.CreatedMS, &meta.UpdatedMS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading snapshot %s: %w", id, err)
	}
	return data, &meta, nil
}

func (s *SQLiteStore) ListKeys() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning snapshot id: %w", err)
		}
		keys = append(keys, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return keys, nil
}

func (s *SQLiteStore) PutMeta(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("storing meta key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) GetMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading meta key %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteStore implements the Store interface
var _ Store = (*SQLiteStore)(nil)
