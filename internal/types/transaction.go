package types

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceWriter adds a signed delta to a numeric field. When the store
// implements Incrementer and atomic mode is on, the change is a single
// store-side increment. Otherwise it re-reads the record and writes back
// the new value, which can lose updates under concurrent writers.
//
// Usage:
//
//	w := types.NewBalanceWriter(store, true)
//	rec, err := w.Add(ctx, types.CollectionAccounts, accountID, "balance", delta)
type BalanceWriter struct {
	store RecordStore
	inc   Incrementer // nil when the store lacks atomic increments or atomic mode is off
}

// NewBalanceWriter creates a writer over store. atomic selects the
// Incrementer path when available.
func NewBalanceWriter(store RecordStore, atomic bool) *BalanceWriter {
	w := &BalanceWriter{store: store}
	if atomic {
		if inc, ok := store.(Incrementer); ok {
			w.inc = inc
		}
	}
	return w
}

// Atomic reports whether Add uses the store's atomic increment.
func (w *BalanceWriter) Atomic() bool {
	return w.inc != nil
}

// Add applies delta to field on the record id and returns the stored record.
func (w *BalanceWriter) Add(ctx context.Context, collection Collection, id, field string, delta decimal.Decimal) (Record, error) {
	if w.inc != nil {
		return w.inc.Increment(ctx, collection, id, field, delta)
	}

	current, err := w.store.FindOne(ctx, collection, Filter{FieldID: id})
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", collection, id, err)
	}
	if current == nil {
		return nil, fmt.Errorf("read %s %s: record vanished", collection, id)
	}
	balance, _ := ExtractDecimal(current[field])
	return w.store.Update(ctx, collection, id, Record{field: balance.Add(delta)})
}
