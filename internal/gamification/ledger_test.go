package gamification

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_AwardAggregatesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.json")
	ledger, err := NewLedger(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, ledger.AwardPoints(ctx, "u1", 5, ReasonTaskCreated))
	require.NoError(t, ledger.AwardPoints(ctx, "u1", 20, ReasonWorkout))
	require.NoError(t, ledger.AwardPoints(ctx, "u1", 5, ReasonTaskCreated))
	require.NoError(t, ledger.AwardPoints(ctx, "u2", 10, ReasonRoutine))

	stats := ledger.Stats("u1")
	assert.Equal(t, 30, stats.Total)
	assert.Equal(t, 10, stats.ByReason[ReasonTaskCreated])
	assert.Equal(t, 20, stats.ByReason[ReasonWorkout])
	assert.Len(t, stats.Recent, 3)
	assert.Equal(t, 10, ledger.Stats("u2").Total)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var persisted LedgerData
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, 30, persisted.Users["u1"].Total)

	reopened, err := NewLedger(path)
	require.NoError(t, err)
	assert.Equal(t, 30, reopened.Stats("u1").Total)
}

func TestLedger_RejectsNonPositive(t *testing.T) {
	ledger, err := NewLedger("")
	require.NoError(t, err)

	assert.ErrorIs(t, ledger.AwardPoints(context.Background(), "u1", 0, ReasonStudy), ErrInvalidAmount)
	assert.ErrorIs(t, ledger.AwardPoints(context.Background(), "u1", -3, ReasonStudy), ErrInvalidAmount)
	assert.Equal(t, 0, ledger.Stats("u1").Total)
}

func TestLedger_CancelledContext(t *testing.T) {
	ledger, err := NewLedger("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ledger.AwardPoints(ctx, "u1", 5, ReasonStudy), context.Canceled)
	assert.Equal(t, 0, ledger.Stats("u1").Total)
}

func TestLedger_SaveFailureRevertsCredit(t *testing.T) {
	dir := t.TempDir()
	ledger, err := NewLedger(filepath.Join(dir, "points.json"))
	require.NoError(t, err)
	require.NoError(t, ledger.AwardPoints(context.Background(), "u1", 5, ReasonStudy))

	// A directory at the temp path makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "points.json.tmp"), 0755))

	err = ledger.AwardPoints(context.Background(), "u1", 15, ReasonStudy)
	require.Error(t, err)
	stats := ledger.Stats("u1")
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 5, stats.ByReason[ReasonStudy])
	assert.Len(t, stats.Recent, 1)
}

func TestLedger_RecentIsBounded(t *testing.T) {
	ledger, err := NewLedger("")
	require.NoError(t, err)
	for i := 0; i < maxRecentEvents+10; i++ {
		require.NoError(t, ledger.AwardPoints(context.Background(), "u1", 1, ReasonTaskCreated))
	}
	stats := ledger.Stats("u1")
	assert.Len(t, stats.Recent, maxRecentEvents)
	assert.Equal(t, maxRecentEvents+10, stats.Total)
}

func TestLedger_ConcurrentAwards(t *testing.T) {
	ledger, err := NewLedger(filepath.Join(t.TempDir(), "points.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ledger.AwardPoints(context.Background(), "u1", 2, ReasonRun))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, ledger.Stats("u1").Total)
}

func TestLedger_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
	_, err := NewLedger(path)
	assert.Error(t, err)
}

func TestLevels(t *testing.T) {
	tests := []struct {
		total int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{299, 2},
		{300, 3},
		{600, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.level, LevelFor(tt.total), "total=%d", tt.total)
	}
	assert.Equal(t, 100, NextLevelAt(1))
	assert.Equal(t, 300, NextLevelAt(2))

	stats := (&Ledger{data: LedgerData{Users: map[string]*UserPoints{}}}).Stats("nobody")
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 100, stats.NextLevelAt)
}
