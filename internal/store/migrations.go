package store

import (
	"database/sql"
	"fmt"
	"time"

	"modofoco/internal/logging"
)

// Schema versions:
// v1: tasks, finance_accounts, finance_transactions, study_sessions
// v2: routines and routine_checkins; tasks.source, finance_transactions.source
// v3: study_sessions.pomodoro, tasks.completed_at
const CurrentSchemaVersion = 3

// Migration adds a column that older databases lack.
type Migration struct {
	Table  string
	Column string
	Def    string
}

// pendingMigrations lists all column additions. Tables created fresh by
// initialize already have every column, so these only touch old files.
var pendingMigrations = []Migration{
	{"tasks", "source", "TEXT"},
	{"finance_transactions", "source", "TEXT"},
	{"study_sessions", "pomodoro", "INTEGER"},
	{"tasks", "completed_at", "TEXT"},
}

// RunMigrations applies schema migrations for existing databases.
func RunMigrations(db *sql.DB) error {
	timer := logging.StartTimer(logging.CategoryStore, "RunMigrations")
	defer timer.Stop()

	if _, err := db.Exec(schemaVersionsTable); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}
	version, err := schemaVersion(db)
	if err != nil {
		return err
	}
	if version >= CurrentSchemaVersion {
		logging.StoreDebug("Schema already at version %d", version)
		return nil
	}

	columns := make(map[string]map[string]bool)
	applied := 0
	for _, m := range pendingMigrations {
		cols, ok := columns[m.Table]
		if !ok {
			if cols, err = tableColumns(db, m.Table); err != nil {
				return err
			}
			columns[m.Table] = cols
		}
		// An empty set means the table does not exist yet.
		if len(cols) == 0 || cols[m.Column] {
			continue
		}
		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", m.Table, m.Column, m.Def)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("migration %s.%s: %w", m.Table, m.Column, err)
		}
		cols[m.Column] = true
		logging.Store("Migration applied: added %s.%s", m.Table, m.Column)
		applied++
	}

	if _, err := db.Exec(`INSERT OR IGNORE INTO schema_versions (version, applied_at) VALUES (?, ?)`,
		CurrentSchemaVersion, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("record schema version %d: %w", CurrentSchemaVersion, err)
	}
	logging.Store("Schema at version %d: applied=%d", CurrentSchemaVersion, applied)
	return nil
}

const schemaVersionsTable = `CREATE TABLE IF NOT EXISTS schema_versions (
	version INTEGER PRIMARY KEY,
	applied_at TEXT NOT NULL
)`

// schemaVersion returns the highest recorded version, 0 for a new file.
func schemaVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_versions`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// tableColumns returns the column names of table.
func tableColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("table info %s: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
