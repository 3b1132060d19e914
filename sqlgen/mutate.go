package sqlgen

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/beandb/mysqlstore/filter"
	"github.com/beandb/mysqlstore/naming"
)

// Mutation assembly failures. Divergent batch rows are a caller error, never
// silently padded.
var (
	ErrNoRows        = errors.New("no rows to insert")
	ErrDivergentRows = errors.New("batch rows carry divergent column sets")
)

// InsertStatement is an assembled single-row INSERT. WantGeneratedKey reports
// that the key field was absent or nil, was left off the column list, and the
// backend is expected to auto-generate it.
type InsertStatement struct {
	Statement
	WantGeneratedKey bool
}

// sortedKeys returns the row's field names in a deterministic order. Go map
// iteration order is not stable, so the column list is always built over
// sorted keys.
func sortedKeys(row map[string]any) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Insert assembles a single-row INSERT. Columns come from the row's own field
// names, not a fixed schema. When the key field is absent or nil it is omitted
// so the backend can generate it.
func Insert(table string, row map[string]any, keyField string, conv naming.Conversion) (*InsertStatement, error) {
	conv = conversion(conv)

	wantKey := false
	if v, ok := row[keyField]; !ok || v == nil {
		wantKey = true
	}

	var cols []string
	var placeholders []string
	var args []any
	for _, k := range sortedKeys(row) {
		if wantKey && k == keyField {
			continue
		}
		cols = append(cols, quote(conv.ToSQL(k)))
		placeholders = append(placeholders, "?")
		args = append(args, row[k])
	}
	if len(cols) == 0 {
		return nil, ErrNoRows
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(conv.ToSQL(table)), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return &InsertStatement{
		Statement:        Statement{SQL: sql, Args: args},
		WantGeneratedKey: wantKey,
	}, nil
}

// InsertBatch assembles one multi-row INSERT. The first row's field names are
// the authoritative column set; a row with a divergent key set is rejected.
func InsertBatch(table string, rows []map[string]any, conv naming.Conversion) (*Statement, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	conv = conversion(conv)

	keys := sortedKeys(rows[0])
	cols := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = quote(conv.ToSQL(k))
	}
	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ") + ")"

	var tuples []string
	var args []any
	for i, row := range rows {
		if len(row) != len(keys) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDivergentRows, i, len(row), len(keys))
		}
		for _, k := range keys {
			v, ok := row[k]
			if !ok {
				return nil, fmt.Errorf("%w: row %d is missing %q", ErrDivergentRows, i, k)
			}
			args = append(args, v)
		}
		tuples = append(tuples, rowPlaceholder)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quote(conv.ToSQL(table)), strings.Join(cols, ", "), strings.Join(tuples, ", "))
	return &Statement{SQL: sql, Args: args}, nil
}

// setClause builds the SET list over the payload's sorted field names.
func setClause(changes map[string]any, conv naming.Conversion) (string, []any) {
	var parts []string
	var args []any
	for _, k := range sortedKeys(changes) {
		parts = append(parts, quote(conv.ToSQL(k))+" = ?")
		args = append(args, changes[k])
	}
	return strings.Join(parts, ", "), args
}

// UpdateByKey assembles an UPDATE of a single row addressed by its key.
func UpdateByKey(table string, changes map[string]any, keyField string, key any, conv naming.Conversion) (*Statement, error) {
	if len(changes) == 0 {
		return nil, ErrNoRows
	}
	conv = conversion(conv)

	set, args := setClause(changes, conv)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quote(conv.ToSQL(table)), set, quote(conv.ToSQL(keyField)))
	return &Statement{SQL: sql, Args: append(args, key)}, nil
}

// Update assembles a bulk UPDATE scoped by a general filter. An empty filter
// leaves the statement unrestricted.
func Update(table string, changes map[string]any, where filter.Node, conv naming.Conversion) (*Statement, error) {
	if len(changes) == 0 {
		return nil, ErrNoRows
	}
	conv = conversion(conv)

	set, args := setClause(changes, conv)
	sql := fmt.Sprintf("UPDATE %s SET %s", quote(conv.ToSQL(table)), set)

	cond, err := filter.Compile(where, conv.ToSQL)
	if err != nil {
		return nil, err
	}
	if cond.Query != "" {
		sql += " WHERE " + cond.Query
		args = append(args, cond.Values...)
	}
	return &Statement{SQL: sql, Args: args}, nil
}

// DeleteByKey assembles a DELETE of a single row addressed by its key.
func DeleteByKey(table, keyField string, key any, conv naming.Conversion) (*Statement, error) {
	conv = conversion(conv)
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = ?",
		quote(conv.ToSQL(table)), quote(conv.ToSQL(keyField)))
	return &Statement{SQL: sql, Args: []any{key}}, nil
}

// Delete assembles a bulk DELETE scoped by a general filter. An empty filter
// means no restriction: the statement deletes every row in the table.
func Delete(table string, where filter.Node, conv naming.Conversion) (*Statement, error) {
	conv = conversion(conv)

	sql := fmt.Sprintf("DELETE FROM %s", quote(conv.ToSQL(table)))
	var args []any
	cond, err := filter.Compile(where, conv.ToSQL)
	if err != nil {
		return nil, err
	}
	if cond.Query != "" {
		sql += " WHERE " + cond.Query
		args = append(args, cond.Values...)
	}
	return &Statement{SQL: sql, Args: args}, nil
}

// Increment assembles an atomic field = field + delta update for a single row.
// The arithmetic happens server-side; there is no read-modify-write on the
// caller.
func Increment(table, field string, delta any, keyField string, key any, conv naming.Conversion) (*Statement, error) {
	conv = conversion(conv)
	col := quote(conv.ToSQL(field))
	sql := fmt.Sprintf("UPDATE %s SET %s = %s + ? WHERE %s = ?",
		quote(conv.ToSQL(table)), col, col, quote(conv.ToSQL(keyField)))
	return &Statement{SQL: sql, Args: []any{delta, key}}, nil
}
