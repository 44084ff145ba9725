package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id              TEXT PRIMARY KEY,
	source          TEXT NOT NULL DEFAULT 'chat',
	player          TEXT NOT NULL,
	original        TEXT NOT NULL,
	translated      TEXT NOT NULL,
	source_language TEXT NOT NULL DEFAULT '',
	team_chat       BOOLEAN NOT NULL DEFAULT 0,
	team            TEXT NOT NULL DEFAULT '',
	created_at      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_created ON entries(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_entries_player ON entries(player, created_at DESC);
`

// Migrate applies the schema. It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
