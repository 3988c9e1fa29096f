package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MODOFOCO_DB", "MODOFOCO_STORE_DRIVER", "MODOFOCO_USER_ID", "MODOFOCO_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "ModoFoco", cfg.Name)
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "Salário", cfg.Finance.IncomeCategory)
	assert.Equal(t, "Outros", cfg.Finance.ExpenseCategory)
	assert.True(t, cfg.Falcon.AtomicBalance)
	assert.Positive(t, cfg.Points.Credits.TaskCreated)
	require.NoError(t, cfg.Validate())
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.User.ID = "ana"
	cfg.Points.Credits.Run = 40
	cfg.Falcon.AtomicBalance = false
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ana", loaded.User.ID)
	assert.Equal(t, 40, loaded.Points.Credits.Run)
	assert.False(t, loaded.Falcon.AtomicBalance)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: memory\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, ".modofoco/modofoco.db", cfg.Store.DatabasePath)
	assert.Equal(t, DefaultCredits(), cfg.Points.Credits)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [unterminated"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODOFOCO_DB", "/tmp/x.db")
	t.Setenv("MODOFOCO_USER_ID", "bia")
	t.Setenv("MODOFOCO_STORE_DRIVER", "memory")
	t.Setenv("MODOFOCO_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "/tmp/x.db", cfg.Store.DatabasePath)
	assert.Equal(t, "bia", cfg.User.ID)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.DebugMode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty user", func(c *Config) { c.User.ID = "" }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Store.DatabasePath = "" }},
		{"negative credit", func(c *Config) { c.Points.Credits.Study = -1 }},
		{"bad timeout", func(c *Config) { c.Falcon.AwardTimeout = "soon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoggingConfig(t *testing.T) {
	lc := LoggingConfig{DebugMode: true, Categories: map[string]bool{"store": false}}
	assert.False(t, lc.IsCategoryEnabled("store"))
	assert.True(t, lc.IsCategoryEnabled("falcon"))

	lc.DebugMode = false
	assert.False(t, lc.IsCategoryEnabled("falcon"))

	lc = LoggingConfig{Level: "warn", File: "x.log", DebugMode: true}
	opts := lc.Options()
	assert.Equal(t, "warn", opts.Level)
	assert.Equal(t, "x.log", opts.OutputPath)
}

func TestFalconConfig_AwardTimeout(t *testing.T) {
	assert.Zero(t, FalconConfig{}.GetAwardTimeout())
	assert.Equal(t, "2s", FalconConfig{AwardTimeout: "2s"}.GetAwardTimeout().String())
}
