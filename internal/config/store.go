package config

import "fmt"

// Store drivers.
const (
	StoreDriverSQLite = "sqlite"
	StoreDriverMemory = "memory"
)

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver       string `yaml:"driver"`        // sqlite, memory
	DatabasePath string `yaml:"database_path"` // sqlite file
}

func (s StoreConfig) validate() error {
	switch s.Driver {
	case StoreDriverSQLite:
		if s.DatabasePath == "" {
			return fmt.Errorf("%w: store.database_path is required for sqlite", ErrInvalidConfig)
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("%w: unknown store driver %q (valid: sqlite, memory)", ErrInvalidConfig, s.Driver)
	}
	return nil
}
