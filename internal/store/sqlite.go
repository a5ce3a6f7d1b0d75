// Package store provides SQLite-based persistence for Lensa.
// It manages the artwork catalog and the per-artwork feature descriptor blobs.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store represents the SQLite database store
type Store struct {
	db *sql.DB
}

// New creates a new store connection
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

const currentSchemaVersion = 1

// Initialize creates the database schema
func (s *Store) Initialize() error {
	schema := `
	-- Artwork catalog (owned by the Met pipeline)
	CREATE TABLE IF NOT EXISTS artworks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		met_object_id INTEGER UNIQUE,
		title TEXT NOT NULL,
		artist TEXT,
		date TEXT,
		medium TEXT,
		department TEXT,
		image_url TEXT,
		audio_file_path TEXT
	);

	-- Feature descriptor blobs, at most one current row per (artwork, kind)
	CREATE TABLE IF NOT EXISTS artwork_features (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		artwork_id INTEGER NOT NULL,
		feature_kind TEXT NOT NULL DEFAULT 'orb',
		descriptor BLOB NOT NULL,
		descriptor_count INTEGER NOT NULL,
		descriptor_width INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(artwork_id, feature_kind),
		FOREIGN KEY (artwork_id) REFERENCES artworks(id)
	);

	-- Config (last build time, etc.)
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT
	);

	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS lensa_schema_version (
		version INTEGER PRIMARY KEY
	);

	-- Indexes
	CREATE INDEX IF NOT EXISTS idx_features_kind ON artwork_features(feature_kind);
	CREATE INDEX IF NOT EXISTS idx_artworks_met_id ON artworks(met_object_id);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	_, err = s.db.Exec("INSERT OR REPLACE INTO lensa_schema_version (version) VALUES (?)", currentSchemaVersion)
	if err != nil {
		return fmt.Errorf("failed to set schema version: %w", err)
	}

	return nil
}

// DB returns the underlying database connection for advanced queries
func (s *Store) DB() *sql.DB {
	return s.db
}

// GetValue gets a value from the key-value store
func (s *Store) GetValue(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetValue sets a value in the key-value store
func (s *Store) SetValue(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = ?",
		key, value, value,
	)
	return err
}
