package config

import "fmt"

// PointsConfig configures gamification.
type PointsConfig struct {
	// JSON ledger file; empty keeps points in memory only
	LedgerPath string `yaml:"ledger_path"`

	Credits Credits `yaml:"credits"`
}

// Credits is the fixed point value per completed action.
type Credits struct {
	TaskCreated   int `yaml:"task_created"`
	TaskCompleted int `yaml:"task_completed"`
	Workout       int `yaml:"workout"`
	Run           int `yaml:"run"`
	Study         int `yaml:"study"`
	FinanceEntry  int `yaml:"finance_entry"`
	Routine       int `yaml:"routine"`
}

// DefaultCredits returns the stock point table.
func DefaultCredits() Credits {
	return Credits{
		TaskCreated:   5,
		TaskCompleted: 10,
		Workout:       20,
		Run:           25,
		Study:         15,
		FinanceEntry:  5,
		Routine:       10,
	}
}

func (c Credits) validate() error {
	for name, v := range map[string]int{
		"task_created":   c.TaskCreated,
		"task_completed": c.TaskCompleted,
		"workout":        c.Workout,
		"run":            c.Run,
		"study":          c.Study,
		"finance_entry":  c.FinanceEntry,
		"routine":        c.Routine,
	} {
		if v < 0 {
			return fmt.Errorf("%w: points.credits.%s must not be negative (got %d)", ErrInvalidConfig, name, v)
		}
	}
	return nil
}
