package main

import (
	"fmt"

	"modofoco/internal/config"
	"modofoco/internal/falcon"
	"modofoco/internal/gamification"
	"modofoco/internal/store"
	"modofoco/internal/types"

	"go.uber.org/zap"
)

// app bundles the collaborators behind one Brain.
type app struct {
	brain  *falcon.Brain
	ledger *gamification.Ledger
	closer func() error
}

// Close releases the record store.
func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

// sessionSummary reports the points earned in a chat session against the
// user's ledger total.
func (a *app) sessionSummary(sessionPoints int) string {
	stats := a.ledger.Stats(a.brain.UserID())
	return fmt.Sprintf("Sessão encerrada: +%d FP (total %d FP, nível %d)", sessionPoints, stats.Total, stats.Level)
}

// openStore builds the record store selected by the config.
func openStore(c *config.Config) (types.RecordStore, func() error, error) {
	switch c.Store.Driver {
	case config.StoreDriverMemory:
		return store.NewMemoryStore(), nil, nil
	case config.StoreDriverSQLite:
		local, err := store.NewLocalStore(c.Store.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open store: %w", err)
		}
		return local, local.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown store driver %q", config.ErrInvalidConfig, c.Store.Driver)
	}
}

// buildApp wires store, ledger, executor and brain from the config.
func buildApp(c *config.Config) (*app, error) {
	rs, closer, err := openStore(c)
	if err != nil {
		return nil, err
	}
	ledger, err := gamification.NewLedger(c.Points.LedgerPath)
	if err != nil {
		if closer != nil {
			closer()
		}
		return nil, err
	}

	executor := falcon.NewExecutor(rs, ledger, c)
	brain := falcon.NewBrain(c.User.ID, nil, executor)
	if logger != nil {
		logger.Debug("brain ready", zap.String("user", c.User.ID), zap.String("store", c.Store.Driver))
	}
	return &app{brain: brain, ledger: ledger, closer: closer}, nil
}
