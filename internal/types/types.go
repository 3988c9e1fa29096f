package types

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Collection names the record-store collections the assistant writes to.
type Collection string

const (
	CollectionTasks           Collection = "tasks"
	CollectionAccounts        Collection = "finance_accounts"
	CollectionTransactions    Collection = "finance_transactions"
	CollectionStudySessions   Collection = "study_sessions"
	CollectionRoutines        Collection = "routines"
	CollectionRoutineCheckins Collection = "routine_checkins"
)

// Collections lists every collection a store must be able to serve.
var Collections = []Collection{
	CollectionTasks,
	CollectionAccounts,
	CollectionTransactions,
	CollectionStudySessions,
	CollectionRoutines,
	CollectionRoutineCheckins,
}

// Valid reports whether c is one of the known collections.
func (c Collection) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

// Common field names shared across collections.
const (
	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldCreatedAt = "created_at"
)

// Record is a single row of a collection, keyed by field name.
//
// Values are plain Go types: string, int, bool, time.Time and
// decimal.Decimal. Use the Extract helpers to read them back safely.
type Record map[string]interface{}

// ID returns the record id, or "" when unset.
func (r Record) ID() string {
	return ExtractString(r[FieldID])
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Filter selects records by field equality. All entries must match.
// A FoldEqual value matches case-insensitively instead of exactly.
type Filter map[string]interface{}

// FoldEqual is a filter value that matches text fields ignoring case.
type FoldEqual string

// FoldKey normalizes s for case-insensitive comparison. Both sides are
// NFC-normalized first so composed and decomposed accents compare equal.
func FoldKey(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// Matches reports whether the candidate text equals f ignoring case.
func (f FoldEqual) Matches(candidate string) bool {
	return FoldKey(string(f)) == FoldKey(candidate)
}
