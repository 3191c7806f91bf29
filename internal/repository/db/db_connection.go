package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates the roast log database and ensures tables exist.
// ":memory:" gives a throwaway database.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection: the poller and HTTP handlers share a single writer,
	// and ":memory:" databases exist per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec("PRAGMA " + p + ";"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set PRAGMA %s: %w", p, err)
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

var pragmas = []string{
	"journal_mode = WAL",
	"busy_timeout = 5000",
	"synchronous = NORMAL",
}

const schemaRoastEvents = `
CREATE TABLE IF NOT EXISTS roast_events (
    id TEXT PRIMARY KEY,
    session_id TEXT,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const indexRoastEvents = `
CREATE INDEX IF NOT EXISTS idx_roast_events_session ON roast_events (session_id, occurred_at);
`

const schemaSensorReadings = `
CREATE TABLE IF NOT EXISTS sensor_readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    taken_at TIMESTAMP NOT NULL,
    bean_c REAL NOT NULL,
    chamber_c REAL NOT NULL,
    fan_pct INTEGER NOT NULL,
    heat_pct INTEGER NOT NULL
);
`

const indexSensorReadings = `
CREATE INDEX IF NOT EXISTS idx_sensor_readings_session ON sensor_readings (session_id, taken_at);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaRoastEvents,
		indexRoastEvents,
		schemaSensorReadings,
		indexSensorReadings,
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
