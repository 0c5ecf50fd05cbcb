package sqlstore

import "database/sql"

// schema sets up the sheet tables. It is valid for both SQLite and PostgreSQL.
// The sheets table must be created BEFORE sheet_rows due to the foreign key.
const schema = `
CREATE TABLE IF NOT EXISTS sheets (
    name TEXT PRIMARY KEY,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS sheet_rows (
    sheet TEXT NOT NULL,
    row_index INTEGER NOT NULL,
    cells TEXT NOT NULL,
    updated_at BIGINT NOT NULL,
    PRIMARY KEY (sheet, row_index),
    FOREIGN KEY (sheet) REFERENCES sheets(name) ON DELETE CASCADE
);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
