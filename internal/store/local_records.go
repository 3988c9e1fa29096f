package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"modofoco/internal/logging"
	"modofoco/internal/types"

	"github.com/shopspring/decimal"
)

// Insert stores rec and returns the stored row.
func (s *LocalStore) Insert(ctx context.Context, collection types.Collection, rec types.Record) (types.Record, error) {
	t, err := specFor(collection)
	if err != nil {
		return nil, err
	}
	row, err := t.prepareInsert(rec, s.now())
	if err != nil {
		return nil, err
	}

	cols := make([]string, 0, len(row))
	marks := make([]string, 0, len(row))
	args := make([]interface{}, 0, len(row))
	for _, c := range t.columns {
		v, ok := row[c.name]
		if !ok {
			continue
		}
		cols = append(cols, c.name)
		marks = append(marks, "?")
		args = append(args, c.encode(v))
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", collection, strings.Join(cols, ", "), strings.Join(marks, ", "))

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("insert %s: %w", collection, err)
	}
	logging.StoreDebug("inserted %s %s", collection, row.ID())
	return s.findByID(ctx, s.db, t, row.ID())
}

// FindOne returns the first matching row in insertion order, or nil.
func (s *LocalStore) FindOne(ctx context.Context, collection types.Collection, filter types.Filter) (types.Record, error) {
	t, err := specFor(collection)
	if err != nil {
		return nil, err
	}

	var (
		where []string
		args  []interface{}
		folds = map[string]types.FoldEqual{}
	)
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
		if nv == nil {
			where = append(where, name+" IS NULL")
			continue
		}
		where = append(where, name+" = ?")
		args = append(args, col.encode(nv))
	}

	query := "SELECT " + t.selectList() + " FROM " + string(collection)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY rowid"
	if len(folds) == 0 {
		query += " LIMIT 1"
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		if matchesFolds(rec, folds) {
			return rec, nil
		}
	}
	return nil, rows.Err()
}

// Update applies patch to the row with id and returns the updated row.
func (s *LocalStore) Update(ctx context.Context, collection types.Collection, id string, patch types.Record) (types.Record, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(norm) > 0 {
		sets := make([]string, 0, len(norm))
		args := make([]interface{}, 0, len(norm)+1)
		for _, c := range t.columns {
			v, ok := norm[c.name]
			if !ok {
				continue
			}
			sets = append(sets, c.name+" = ?")
			args = append(args, c.encode(v))
		}
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", collection, strings.Join(sets, ", ")), args...)
		if err != nil {
			return nil, fmt.Errorf("update %s %s: %w", collection, id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, fmt.Errorf("update %s %s: %w", collection, id, ErrNotFound)
		}
	}

	rec, err := s.findByID(ctx, s.db, t, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("update %s %s: %w", collection, id, ErrNotFound)
	}
	return rec, nil
}

// Increment adds delta to a numeric field inside one SQLite transaction.
func (s *LocalStore) Increment(ctx context.Context, collection types.Collection, id, field string, delta decimal.Decimal) (types.Record, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin increment: %w", err)
	}
	defer tx.Rollback()

	var raw sql.NullString
	err = tx.QueryRowContext(ctx, fmt.Sprintf("SELECT CAST(%s AS TEXT) FROM %s WHERE id = ?", field, collection), id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("increment %s %s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("increment %s %s: %w", collection, id, err)
	}
	current, _ := types.ExtractDecimal(raw.String)
	next, err := col.normalize(current.Add(delta))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", collection, field), col.encode(next), id); err != nil {
		return nil, fmt.Errorf("increment %s %s: %w", collection, id, err)
	}
	rec, err := s.findByID(ctx, tx, t, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit increment: %w", err)
	}
	return rec, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (s *LocalStore) findByID(ctx context.Context, q querier, t tableSpec, id string) (types.Record, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+t.selectList()+" FROM "+string(t.collection)+" WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", t.collection, id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return t.scan(rows)
}

func (t tableSpec) selectList() string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return strings.Join(names, ", ")
}

// scan decodes the current row into a record. NULL columns are omitted.
func (t tableSpec) scan(rows *sql.Rows) (types.Record, error) {
	dest := make([]interface{}, len(t.columns))
	for i, c := range t.columns {
		switch c.kind {
		case kindInt, kindBool:
			dest[i] = new(sql.NullInt64)
		default:
			dest[i] = new(sql.NullString)
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan %s: %w", t.collection, err)
	}

	rec := make(types.Record, len(t.columns))
	for i, c := range t.columns {
		switch d := dest[i].(type) {
		case *sql.NullInt64:
			if !d.Valid {
				continue
			}
			if c.kind == kindBool {
				rec[c.name] = d.Int64 != 0
			} else {
				rec[c.name] = int(d.Int64)
			}
		case *sql.NullString:
			if !d.Valid {
				continue
			}
			switch c.kind {
			case kindDecimal:
				v, err := decimal.NewFromString(d.String)
				if err != nil {
					return nil, fmt.Errorf("decode %s.%s: %w", t.collection, c.name, err)
				}
				rec[c.name] = v
			case kindTime:
				v, err := time.Parse(time.RFC3339Nano, d.String)
				if err != nil {
					return nil, fmt.Errorf("decode %s.%s: %w", t.collection, c.name, err)
				}
				rec[c.name] = v.UTC()
			default:
				rec[c.name] = d.String
			}
		}
	}
	return rec, nil
}

func matchesFolds(rec types.Record, folds map[string]types.FoldEqual) bool {
	for name, fold := range folds {
		if !fold.Matches(types.ExtractString(rec[name])) {
			return false
		}
	}
	return true
}
