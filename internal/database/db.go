package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB is a key-value blob store backed by a single SQLite table
type DB struct {
	conn *sql.DB
}

// New opens the database and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// one writer; serializing on a single connection avoids SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	PRAGMA journal_mode = WAL;
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// Get returns the value stored under key, or nil if the key is unset
func (db *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := db.conn.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying key %s: %w", key, err)
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Set replaces the value stored under key
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	updatedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := db.conn.ExecContext(ctx, query, key, value, updatedAt); err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

// UpdatedAt returns when key was last written
func (db *DB) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var updatedAt string
	err := db.conn.QueryRowContext(ctx, `SELECT updated_at FROM kv_store WHERE key = ?`, key).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("querying key %s: %w", key, err)
	}

	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing updated_at: %w", err)
	}
	return t, true, nil
}
