package gamification

import "time"

// Award reasons recorded with each credit.
const (
	ReasonTaskCreated   = "task_created"
	ReasonTaskCompleted = "task_completed"
	ReasonWorkout       = "workout"
	ReasonRun           = "run"
	ReasonStudy         = "study"
	ReasonFinanceEntry  = "finance_entry"
	ReasonRoutine       = "routine"
)

// maxRecentEvents bounds the per-user event history kept in the ledger.
const maxRecentEvents = 50

// LedgerData is the root structure stored in the ledger file.
type LedgerData struct {
	Version string                 `json:"version"`
	Users   map[string]*UserPoints `json:"users"`
}

// UserPoints holds one user's accumulated points.
type UserPoints struct {
	Total    int            `json:"total"`
	ByReason map[string]int `json:"by_reason"`
	Recent   []AwardEvent   `json:"recent,omitempty"`
}

// AwardEvent is a single credit.
type AwardEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Amount    int       `json:"amount"`
	Reason    string    `json:"reason"`
}

// Stats is a read-only snapshot of a user's points.
type Stats struct {
	UserID      string
	Total       int
	Level       int
	NextLevelAt int
	ByReason    map[string]int
	Recent      []AwardEvent
}

// LevelFor returns the level reached with total points. Level n starts at
// 100*n*(n-1)/2 points, so level 2 is at 100, level 3 at 300, level 4 at 600.
func LevelFor(total int) int {
	level := 1
	for NextLevelAt(level) <= total {
		level++
	}
	return level
}

// NextLevelAt returns the points needed to reach level+1.
func NextLevelAt(level int) int {
	return 100 * (level + 1) * level / 2
}
