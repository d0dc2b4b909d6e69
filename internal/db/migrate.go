package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all SQLite schema migrations. Statements are idempotent so
// the whole list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS menus (
		id                 TEXT PRIMARY KEY,
		title              TEXT NOT NULL,
		description        TEXT NOT NULL DEFAULT '',
		total_time         INTEGER NOT NULL,
		intensity          TEXT NOT NULL DEFAULT '',
		requested_duration INTEGER NOT NULL CHECK(requested_duration > 0),
		load_levels        TEXT NOT NULL,
		notes              TEXT NOT NULL DEFAULT '',
		provider           TEXT NOT NULL,
		menu_json          TEXT NOT NULL,
		created_at         TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS menu_embeddings (
		menu_id    TEXT PRIMARY KEY REFERENCES menus(id) ON DELETE CASCADE,
		dimensions INTEGER NOT NULL,
		vector     BLOB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menus_created ON menus(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_menus_total_time ON menus(total_time)`,
}
