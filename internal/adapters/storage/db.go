package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the local cache database schema. The remote record
// store owns all person and check-in data; SQLite holds only process-local
// caches.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS translation (
		id TEXT PRIMARY KEY,
		locale TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		cached_at TEXT NOT NULL,
		UNIQUE (locale, key)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
