package postgres

import (
	"context"
	"database/sql"
)

// schema mirrors the SQLite schema with native types.
const schema = `
CREATE TABLE IF NOT EXISTS emergency_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS households (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    member_count INTEGER NOT NULL DEFAULT 0 CHECK (member_count >= 0),
    emergency_group_id TEXT REFERENCES emergency_groups(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    unit TEXT NOT NULL,
    calories_per_unit BIGINT NOT NULL DEFAULT 0 CHECK (calories_per_unit >= 0),
    type TEXT NOT NULL CHECK (type IN ('FOOD', 'DRINK', 'ACCESSORIES'))
);

CREATE TABLE IF NOT EXISTS storage_items (
    id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL REFERENCES items(id),
    household_id TEXT NOT NULL REFERENCES households(id) ON DELETE CASCADE,
    quantity NUMERIC NOT NULL CHECK (quantity >= 0),
    expiration_date BIGINT,
    is_shared BOOLEAN NOT NULL DEFAULT FALSE,
    version BIGINT NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_households_group_id ON households(emergency_group_id);
CREATE INDEX IF NOT EXISTS idx_storage_items_household_id ON storage_items(household_id);
CREATE INDEX IF NOT EXISTS idx_storage_items_expiration ON storage_items(household_id, expiration_date);
`

func runMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}
