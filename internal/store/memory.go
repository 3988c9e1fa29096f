package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"modofoco/internal/types"

	"github.com/shopspring/decimal"
)

// MemoryStore implements types.RecordStore and types.Incrementer in process
// memory. Rows are kept in insertion order per collection.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[types.Collection][]types.Record
	now  func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[types.Collection][]types.Record),
		now:  time.Now,
	}
}

// Insert stores a copy of rec.
func (m *MemoryStore) Insert(_ context.Context, collection types.Collection, rec types.Record) (types.Record, error) {
	t, err := specFor(collection)
	if err != nil {
		return nil, err
	}
	row, err := t.prepareInsert(rec, m.now())
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows[collection] {
		if existing.ID() == row.ID() {
			return nil, fmt.Errorf("insert %s: duplicate id %s", collection, row.ID())
		}
	}
	m.rows[collection] = append(m.rows[collection], row)
	return row.Clone(), nil
}

// FindOne returns a copy of the first matching row, or nil.
func (m *MemoryStore) FindOne(_ context.Context, collection types.Collection, filter types.Filter) (types.Record, error) {
	t, err := specFor(collection)
	if err != nil {
		return nil, err
	}

	exact := make(map[string]interface{}, len(filter))
	folds := map[string]types.FoldEqual{}
	for name, v := range filter {
		col, ok := t.column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, collection, name)
		}
		if fold, ok := v.(types.FoldEqual); ok {
			folds[name] = fold
			continue
		}
		nv, err := col.normalize(v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", collection, name, err)
		}
		exact[name] = nv
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.rows[collection] {
		if m.matches(t, row, exact) && matchesFolds(row, folds) {
			return row.Clone(), nil
		}
	}
	return nil, nil
}

func (m *MemoryStore) matches(t tableSpec, row types.Record, exact map[string]interface{}) bool {
	for name, want := range exact {
		col, _ := t.column(name)
		if !col.equal(row[name], want) {
			return false
		}
	}
	return true
}

// Update merges patch into the row with id.
func (m *MemoryStore) Update(_ context.Context, collection types.Collection, id string, patch types.Record) (types.Record, error) {
	t, err := specFor(collection)
	if err != nil {
		return nil, err
	}
	if _, ok := patch[types.FieldID]; ok {
		return nil, fmt.Errorf("%w: id cannot be patched", ErrInvalidValue)
	}
	norm, err := t.normalize(patch)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.findLocked(collection, id)
	if row == nil {
		return nil, fmt.Errorf("update %s %s: %w", collection, id, ErrNotFound)
	}
	for k, v := range norm {
		if v == nil {
			delete(row, k)
			continue
		}
		row[k] = v
	}
	return row.Clone(), nil
}

// Increment adds delta to a numeric field under the store lock.
func (m *MemoryStore) Increment(_ context.Context, collection types.Collection, id, field string, delta decimal.Decimal) (types.Record, error) {
	t, err := specFor(collection)
	if err != nil {
		return nil, err
	}
	col, ok := t.column(field)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, collection, field)
	}
	if col.kind != kindDecimal && col.kind != kindInt {
		return nil, fmt.Errorf("%w: %s.%s is not numeric", ErrInvalidValue, collection, field)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	row := m.findLocked(collection, id)
	if row == nil {
		return nil, fmt.Errorf("increment %s %s: %w", collection, id, ErrNotFound)
	}
	current, _ := types.ExtractDecimal(row[field])
	next, err := col.normalize(current.Add(delta))
	if err != nil {
		return nil, err
	}
	row[field] = next
	return row.Clone(), nil
}

// Count returns the number of rows in collection. Used by tests and the CLI.
func (m *MemoryStore) Count(collection types.Collection) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows[collection])
}

func (m *MemoryStore) findLocked(collection types.Collection, id string) types.Record {
	for _, row := range m.rows[collection] {
		if row.ID() == id {
			return row
		}
	}
	return nil
}
