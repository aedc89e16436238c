package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Quantities are stored as decimal text, expiration dates as unix seconds.
const schema = `
CREATE TABLE IF NOT EXISTS emergency_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS households (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    member_count INTEGER NOT NULL DEFAULT 0 CHECK (member_count >= 0),
    emergency_group_id TEXT,
    FOREIGN KEY (emergency_group_id) REFERENCES emergency_groups(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    unit TEXT NOT NULL,
    calories_per_unit INTEGER NOT NULL DEFAULT 0 CHECK (calories_per_unit >= 0),
    type TEXT NOT NULL CHECK (type IN ('FOOD', 'DRINK', 'ACCESSORIES'))
);

CREATE TABLE IF NOT EXISTS storage_items (
    id TEXT PRIMARY KEY,
    item_id TEXT NOT NULL,
    household_id TEXT NOT NULL,
    quantity TEXT NOT NULL,
    expiration_date INTEGER,
    is_shared INTEGER NOT NULL DEFAULT 0,
    version INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (item_id) REFERENCES items(id),
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_households_group_id ON households(emergency_group_id);
CREATE INDEX IF NOT EXISTS idx_storage_items_household_id ON storage_items(household_id);
CREATE INDEX IF NOT EXISTS idx_storage_items_expiration ON storage_items(household_id, expiration_date);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
