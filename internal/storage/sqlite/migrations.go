package sqlite

import "database/sql"

// schema contains the SQL statements to set up the ledger catalog.
// These run on startup to ensure tables exist.
// Dates are stored as YYYY-MM-DD text; a NULL end_exclusive means the
// residency is ongoing. Amounts are stored as decimal text, never REAL.
const schema = `
CREATE TABLE IF NOT EXISTS houses (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    min_people INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS people (
    id TEXT PRIMARY KEY,
    house_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    UNIQUE (house_id, name),
    FOREIGN KEY (house_id) REFERENCES houses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS residencies (
    person_id TEXT NOT NULL,
    start TEXT NOT NULL,
    end_exclusive TEXT,
    FOREIGN KEY (person_id) REFERENCES people(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    house_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('bill', 'shared_cost', 'payment')),
    description TEXT NOT NULL DEFAULT '',
    paid_by TEXT NOT NULL,
    payee TEXT,
    on_date TEXT,
    start TEXT,
    end_exclusive TEXT,
    amount TEXT NOT NULL,
    UNIQUE (house_id, seq),
    FOREIGN KEY (house_id) REFERENCES houses(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS entry_participants (
    entry_id TEXT NOT NULL,
    name TEXT NOT NULL,
    PRIMARY KEY (entry_id, name),
    FOREIGN KEY (entry_id) REFERENCES entries(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_people_house_id ON people(house_id);
CREATE INDEX IF NOT EXISTS idx_residencies_person_id ON residencies(person_id);
CREATE INDEX IF NOT EXISTS idx_entries_house_id ON entries(house_id);
CREATE INDEX IF NOT EXISTS idx_entry_participants_entry_id ON entry_participants(entry_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
