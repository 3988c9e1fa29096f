package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultPath is where the CLI looks for configuration.
const DefaultPath = ".modofoco/config.yaml"

// Config holds all ModoFoco configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Identity the assistant acts for
	User UserConfig `yaml:"user"`

	// Record store backend
	Store StoreConfig `yaml:"store"`

	// Gamification credits and ledger
	Points PointsConfig `yaml:"points"`

	// Finance defaults used when the assistant creates records
	Finance FinanceConfig `yaml:"finance"`

	// Command execution behavior
	Falcon FalconConfig `yaml:"falcon"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// UserConfig identifies the user commands are executed for.
type UserConfig struct {
	ID string `yaml:"id"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "ModoFoco",
		Version: "1.0.0",

		User: UserConfig{ID: "local"},

		Store: StoreConfig{
			Driver:       StoreDriverSQLite,
			DatabasePath: ".modofoco/modofoco.db",
		},

		Points: PointsConfig{
			LedgerPath: ".modofoco/points.json",
			Credits:    DefaultCredits(),
		},

		Finance: FinanceConfig{
			DefaultAccountName: "Carteira",
			IncomeCategory:     "Salário",
			ExpenseCategory:    "Outros",
			Currency:           "BRL",
		},

		Falcon: FalconConfig{
			AtomicBalance:    true,
			SerializeFinance: true,
			AwardTimeout:     "5s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if the file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("MODOFOCO_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if driver := os.Getenv("MODOFOCO_STORE_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}
	if id := os.Getenv("MODOFOCO_USER_ID"); id != "" {
		c.User.ID = id
	}
	if level := os.Getenv("MODOFOCO_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
		c.Logging.DebugMode = true
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.User.ID == "" {
		return fmt.Errorf("%w: user.id is empty (set MODOFOCO_USER_ID or --user)", ErrInvalidConfig)
	}
	if err := c.Store.validate(); err != nil {
		return err
	}
	if err := c.Points.Credits.validate(); err != nil {
		return err
	}
	if _, err := time.ParseDuration(c.Falcon.AwardTimeout); c.Falcon.AwardTimeout != "" && err != nil {
		return fmt.Errorf("%w: falcon.award_timeout %q: %v", ErrInvalidConfig, c.Falcon.AwardTimeout, err)
	}
	return nil
}
