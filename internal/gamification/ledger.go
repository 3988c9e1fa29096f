// Package gamification keeps the per-user points ledger credited by the
// assistant when a command completes.
package gamification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"modofoco/internal/logging"
)

// ErrInvalidAmount is returned for non-positive awards.
var ErrInvalidAmount = errors.New("points amount must be positive")

// Ledger records points and persists them to a JSON file. It implements
// types.PointsAwarder.
type Ledger struct {
	mu       sync.Mutex
	data     LedgerData
	filePath string
	now      func() time.Time
}

// NewLedger opens the ledger at path. An empty path keeps the ledger in
// memory only. A missing file starts an empty ledger.
func NewLedger(path string) (*Ledger, error) {
	l := &Ledger{
		filePath: path,
		now:      time.Now,
		data: LedgerData{
			Version: "1.0",
			Users:   make(map[string]*UserPoints),
		},
	}
	if path == "" {
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger dir: %w", err)
	}
	if err := l.Load(); err != nil {
		return nil, fmt.Errorf("failed to load ledger %s: %w", path, err)
	}
	return l, nil
}

// Load reads the ledger from disk.
func (l *Ledger) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.filePath == "" {
		return nil
	}
	data, err := os.ReadFile(l.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	var loaded LedgerData
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded.Users == nil {
		loaded.Users = make(map[string]*UserPoints)
	}
	for _, u := range loaded.Users {
		if u.ByReason == nil {
			u.ByReason = make(map[string]int)
		}
	}
	l.data = loaded
	logging.PointsDebug("Ledger loaded: %d users", len(loaded.Users))
	return nil
}

// Save writes the ledger to disk.
func (l *Ledger) Save() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saveLocked()
}

func (l *Ledger) saveLocked() error {
	if l.filePath == "" {
		return nil
	}
	data, err := json.MarshalIndent(l.data, "", "  ")
	if err != nil {
		return err
	}
	tmp := l.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, l.filePath)
}

// AwardPoints credits amount points to userID. The award is persisted
// before returning; on a save failure the in-memory credit is reverted.
func (l *Ledger) AwardPoints(ctx context.Context, userID string, amount int, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if userID == "" {
		return errors.New("award points: empty user id")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.data.Users[userID]
	if !ok {
		u = &UserPoints{ByReason: make(map[string]int)}
		l.data.Users[userID] = u
	}
	prevLevel := LevelFor(u.Total)
	prev := *u
	prevRecent := u.Recent

	u.Total += amount
	u.ByReason[reason] += amount
	u.Recent = append(u.Recent, AwardEvent{Timestamp: l.now().UTC(), Amount: amount, Reason: reason})
	if len(u.Recent) > maxRecentEvents {
		u.Recent = u.Recent[len(u.Recent)-maxRecentEvents:]
	}

	if err := l.saveLocked(); err != nil {
		u.Total = prev.Total
		u.ByReason[reason] -= amount
		if u.ByReason[reason] == 0 {
			delete(u.ByReason, reason)
		}
		u.Recent = prevRecent
		return fmt.Errorf("persist ledger: %w", err)
	}

	logging.Points("Awarded %d points to %s (%s), total=%d", amount, userID, reason, u.Total)
	if level := LevelFor(u.Total); level > prevLevel {
		logging.Points("User %s reached level %d", userID, level)
	}
	return nil
}

// Stats returns a copy of userID's points. Unknown users have zero points
// at level 1.
func (l *Ledger) Stats(userID string) Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Stats{UserID: userID, ByReason: map[string]int{}}
	if u, ok := l.data.Users[userID]; ok {
		s.Total = u.Total
		for k, v := range u.ByReason {
			s.ByReason[k] = v
		}
		s.Recent = append([]AwardEvent(nil), u.Recent...)
	}
	s.Level = LevelFor(s.Total)
	s.NextLevelAt = NextLevelAt(s.Level)
	return s
}
