// Package store provides the record-store backends for the assistant.
//
// LocalStore keeps every collection in its own SQLite table; MemoryStore
// keeps them in process memory. Both share one schema description, so a
// record round-trips through either with the same fields and Go types.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"modofoco/internal/logging"
	"modofoco/internal/types"

	_ "modernc.org/sqlite"
)

// LocalStore implements types.RecordStore and types.Incrementer on SQLite.
type LocalStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	now    func() time.Time
}

// NewLocalStore initializes the SQLite database at the given path.
// ":memory:" opens a private in-memory database.
func NewLocalStore(path string) (*LocalStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "NewLocalStore")
	defer timer.Stop()

	logging.Store("Initializing LocalStore at path: %s", path)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
		}
	}

	store := &LocalStore{db: db, dbPath: path, now: time.Now}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("LocalStore ready (%d collections)", len(tableSpecs))
	return store, nil
}

// initialize creates the required tables.
func (s *LocalStore) initialize() error {
	for _, c := range types.Collections {
		t, err := specFor(c)
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(t.createSQL()); err != nil {
			return fmt.Errorf("failed to create table %s: %w", c, err)
		}
	}
	return nil
}

// Close closes the database.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the database path.
func (s *LocalStore) Path() string {
	return s.dbPath
}
