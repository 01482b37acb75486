package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent and
// valid on both SQLite and Postgres.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS estimates (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		project_ref TEXT NOT NULL DEFAULT '',
		client_ref  TEXT NOT NULL DEFAULT '',
		issue_date  TEXT,
		status      TEXT NOT NULL DEFAULT 'draft'
		            CHECK(status IN ('draft','pending','approved','rejected')),
		notes       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	// Decimals are stored as canonical strings so no backend rounds them.
	`CREATE TABLE IF NOT EXISTS estimate_nodes (
		estimate_id TEXT NOT NULL REFERENCES estimates(id) ON DELETE CASCADE,
		id          TEXT NOT NULL,
		parent_id   TEXT,
		kind        TEXT NOT NULL
		            CHECK(kind IN ('group','section','subsection')),
		code        TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		quantity    TEXT NOT NULL DEFAULT '0',
		unit        TEXT NOT NULL DEFAULT '',
		rate        TEXT NOT NULL DEFAULT '0',
		amount      TEXT NOT NULL DEFAULT '0',
		notes       TEXT NOT NULL DEFAULT '[]',
		order_index INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (estimate_id, id),
		FOREIGN KEY (estimate_id, parent_id) REFERENCES estimate_nodes(estimate_id, id) ON DELETE CASCADE
	)`,

	`CREATE INDEX IF NOT EXISTS idx_estimates_status ON estimates(status)`,
	`CREATE INDEX IF NOT EXISTS idx_estimate_nodes_parent ON estimate_nodes(estimate_id, parent_id)`,
}
