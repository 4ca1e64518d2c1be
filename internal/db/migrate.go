package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent, so it runs on
// each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS preferences (
		page_key   TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		saved_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS drop_events (
		id             TEXT PRIMARY KEY,
		page           TEXT NOT NULL,
		session_id     TEXT NOT NULL DEFAULT '',
		bar_id         INTEGER NOT NULL,
		entity_type    TEXT NOT NULL,
		entity_id      INTEGER NOT NULL DEFAULT 0,
		initial_row_id INTEGER NOT NULL,
		final_row_id   INTEGER NOT NULL,
		offset_minutes INTEGER NOT NULL,
		recorded_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_drop_events_page ON drop_events(page, recorded_at)`,
}
