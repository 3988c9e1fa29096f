package store

import (
	"fmt"
	"strings"
	"time"

	"modofoco/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type columnKind int

const (
	kindText columnKind = iota
	kindInt
	kindBool
	kindDecimal
	kindTime
)

func (k columnKind) sqlType() string {
	switch k {
	case kindInt, kindBool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

type column struct {
	name    string
	kind    columnKind
	notNull bool
}

// tableSpec describes one collection. Both stores share it so they accept
// and return exactly the same fields and Go types.
type tableSpec struct {
	collection types.Collection
	columns    []column
}

func spec(c types.Collection, extra ...column) tableSpec {
	cols := []column{
		{name: types.FieldID, kind: kindText, notNull: true},
		{name: types.FieldUserID, kind: kindText, notNull: true},
		{name: types.FieldCreatedAt, kind: kindTime, notNull: true},
	}
	return tableSpec{collection: c, columns: append(cols, extra...)}
}

var tableSpecs = map[types.Collection]tableSpec{
	types.CollectionTasks: spec(types.CollectionTasks,
		column{name: "title", kind: kindText, notNull: true},
		column{name: "priority", kind: kindText},
		column{name: "completed", kind: kindBool},
		column{name: "completed_at", kind: kindTime},
		column{name: "source", kind: kindText},
	),
	types.CollectionAccounts: spec(types.CollectionAccounts,
		column{name: "name", kind: kindText, notNull: true},
		column{name: "balance", kind: kindDecimal, notNull: true},
		column{name: "currency", kind: kindText},
	),
	types.CollectionTransactions: spec(types.CollectionTransactions,
		column{name: "account_id", kind: kindText, notNull: true},
		column{name: "type", kind: kindText, notNull: true},
		column{name: "amount", kind: kindDecimal, notNull: true},
		column{name: "description", kind: kindText},
		column{name: "category", kind: kindText},
		column{name: "confirmed", kind: kindBool},
		column{name: "occurred_at", kind: kindTime},
		column{name: "source", kind: kindText},
	),
	types.CollectionStudySessions: spec(types.CollectionStudySessions,
		column{name: "duration_minutes", kind: kindInt, notNull: true},
		column{name: "notes", kind: kindText},
		column{name: "pomodoro", kind: kindBool},
		column{name: "studied_at", kind: kindTime},
	),
	types.CollectionRoutines: spec(types.CollectionRoutines,
		column{name: "name", kind: kindText, notNull: true},
		column{name: "active", kind: kindBool},
	),
	types.CollectionRoutineCheckins: spec(types.CollectionRoutineCheckins,
		column{name: "routine_id", kind: kindText, notNull: true},
		column{name: "checked_at", kind: kindTime},
		column{name: "source", kind: kindText},
	),
}

func specFor(c types.Collection) (tableSpec, error) {
	s, ok := tableSpecs[c]
	if !ok {
		return tableSpec{}, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	return s, nil
}

func (t tableSpec) column(name string) (column, bool) {
	for _, c := range t.columns {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

func (t tableSpec) createSQL() string {
	defs := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		def := c.name + " " + c.kind.sqlType()
		if c.name == types.FieldID {
			def += " PRIMARY KEY"
		} else if c.notNull {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	table := string(t.collection)
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		%s
	);
	CREATE INDEX IF NOT EXISTS idx_%s_user ON %s(user_id);
	`, table, strings.Join(defs, ",\n\t\t"), table, table)
}

// prepareInsert fills generated fields and normalizes values.
func (t tableSpec) prepareInsert(rec types.Record, now time.Time) (types.Record, error) {
	row, err := t.normalize(rec)
	if err != nil {
		return nil, err
	}
	for name, v := range row {
		if v == nil {
			delete(row, name)
		}
	}
	if row.ID() == "" {
		row[types.FieldID] = uuid.NewString()
	}
	if _, ok := row[types.FieldCreatedAt]; !ok {
		row[types.FieldCreatedAt] = now.UTC()
	}
	if types.ExtractString(row[types.FieldUserID]) == "" {
		return nil, fmt.Errorf("%w: %s requires user_id", ErrInvalidValue, t.collection)
	}
	for _, c := range t.columns {
		if _, ok := row[c.name]; !ok && c.notNull && c.kind == kindDecimal {
			row[c.name] = decimal.Zero
		}
	}
	return row, nil
}

// normalize converts every value of rec to its column's Go type. nil
// values are kept as nil.
func (t tableSpec) normalize(rec types.Record) (types.Record, error) {
	out := make(types.Record, len(rec))
	for name, v := range rec {
		col, ok := t.column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, t.collection, name)
		}
		nv, err := col.normalize(v)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.collection, name, err)
		}
		out[name] = nv
	}
	return out, nil
}

func (c column) normalize(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch c.kind {
	case kindText:
		return types.ExtractString(v), nil
	case kindInt:
		if n, ok := types.ExtractInt(v); ok {
			return n, nil
		}
	case kindBool:
		if b, ok := types.ExtractBool(v); ok {
			return b, nil
		}
	case kindDecimal:
		if d, ok := types.ExtractDecimal(v); ok {
			return d, nil
		}
	case kindTime:
		if ts, ok := types.ExtractTime(v); ok {
			return ts.UTC(), nil
		}
	}
	return nil, fmt.Errorf("%w: %v (%T)", ErrInvalidValue, v, v)
}

// encode converts a normalized value to its SQL argument.
func (c column) encode(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch c.kind {
	case kindInt:
		n, _ := v.(int)
		return int64(n)
	case kindBool:
		if b, _ := v.(bool); b {
			return int64(1)
		}
		return int64(0)
	case kindDecimal:
		return v.(decimal.Decimal).String()
	case kindTime:
		return v.(time.Time).Format(time.RFC3339Nano)
	default:
		return v
	}
}

// equal compares two normalized values of this column.
func (c column) equal(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch c.kind {
	case kindDecimal:
		return a.(decimal.Decimal).Equal(b.(decimal.Decimal))
	case kindTime:
		return a.(time.Time).Equal(b.(time.Time))
	default:
		return a == b
	}
}
