package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// The logging task is the only steady writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA synchronous = NORMAL;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaRoasts = `
CREATE TABLE IF NOT EXISTS roasts (
    id TEXT PRIMARY KEY,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    deadband REAL NOT NULL,
    anchors TEXT NOT NULL
);
`

const schemaRoastSamples = `
CREATE TABLE IF NOT EXISTS roast_samples (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    roast_id TEXT NOT NULL REFERENCES roasts(id),
    recorded_at TIMESTAMP NOT NULL,
    elapsed_s REAL NOT NULL,
    measured_c REAL NOT NULL,
    setpoint_c REAL NOT NULL,
    heater_on BOOLEAN NOT NULL,
    phase TEXT
);
`

const schemaRoastSamplesIndex = `
CREATE INDEX IF NOT EXISTS idx_roast_samples_roast ON roast_samples(roast_id, elapsed_s);
`

const schemaRoastEvents = `
CREATE TABLE IF NOT EXISTS roast_events (
    id TEXT PRIMARY KEY,
    roast_id TEXT NOT NULL REFERENCES roasts(id),
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaRoasts,
		schemaRoastSamples,
		schemaRoastSamplesIndex,
		schemaRoastEvents,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
