package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetBase(zap.New(core))
	t.Cleanup(func() {
		mu.Lock()
		categories = nil
		mu.Unlock()
		SetBase(nil)
	})
	return logs
}

func TestGet_NoopWithoutBase(t *testing.T) {
	SetBase(nil)
	assert.False(t, IsCategoryEnabled(CategoryFalcon))
	// Must not panic.
	Get(CategoryFalcon).Info("dropped %d", 1)
	Falcon("dropped")
}

func TestGet_WritesNamedEntries(t *testing.T) {
	logs := observe(t)

	Store("opened %s", "db")
	PerceptionDebug("matched %s", "create_task")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "store", entries[0].LoggerName)
	assert.Equal(t, "opened db", entries[0].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "perception", entries[1].LoggerName)
}

func TestGet_CategoryFilter(t *testing.T) {
	logs := observe(t)
	mu.Lock()
	categories = map[string]bool{"store": false}
	mu.Unlock()
	SetBase(Base()) // reset cached loggers

	Store("hidden")
	Points("visible")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "points", logs.All()[0].LoggerName)
}

func TestInitialize_DebugModeOff(t *testing.T) {
	require.NoError(t, Initialize(Options{DebugMode: false}))
	assert.False(t, IsCategoryEnabled(CategoryBoot))
}

func TestInitialize_BadLevel(t *testing.T) {
	err := Initialize(Options{DebugMode: true, Level: "loud"})
	assert.Error(t, err)
	SetBase(nil)
}

func TestAudit_StructuredFields(t *testing.T) {
	logs := observe(t)

	Audit(AuditEvent{Type: AuditCommandFailed, UserID: "u1", Intent: "create_task", Partial: true, Err: errors.New("boom")})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	ctx := entry.ContextMap()
	assert.Equal(t, "command_failed", ctx["event"])
	assert.Equal(t, "u1", ctx["user_id"])
	assert.Equal(t, true, ctx["partial_write"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestTimer(t *testing.T) {
	logs := observe(t)
	StartTimer(CategoryStore, "insert").Stop()
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "insert completed in")
}
