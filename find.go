package mysqlstore

import (
	"context"
	"database/sql"

	"github.com/beandb/mysqlstore/filter"
	"github.com/beandb/mysqlstore/naming"
	"github.com/beandb/mysqlstore/sqlgen"
	"github.com/beandb/mysqlstore/stream"
)

// Sort names a single ordering field and direction.
type Sort = sqlgen.Sort

// Asc sorts ascending by field.
func Asc(field string) *Sort { return sqlgen.Asc(field) }

// Desc sorts descending by field.
func Desc(field string) *Sort { return sqlgen.Desc(field) }

// FindOptions are optional sideband directives for row-returning operations.
// They influence statement assembly but never appear in the filter tree.
type FindOptions struct {
	// Columns projects the result to exactly these fields, in this order.
	// Empty means every column.
	Columns []string
	// Sort orders the result. Nil omits ORDER BY entirely; the storage
	// engine's default ordering applies and is not guaranteed by this layer.
	Sort *Sort
	// Limit and Skip paginate. Nil or negative omits the clause.
	Limit *int
	Skip  *int
	// IndexHint names an index to force. Pass-through; no planning happens
	// here.
	IndexHint string
}

// Int is a convenience for FindOptions.Limit and FindOptions.Skip.
func Int(v int) *int { return &v }

func (o *FindOptions) selectOptions(where filter.Node) sqlgen.SelectOptions {
	if o == nil {
		return sqlgen.SelectOptions{Where: where}
	}
	return sqlgen.SelectOptions{
		Columns:   o.Columns,
		Where:     where,
		Sort:      o.Sort,
		Limit:     o.Limit,
		Offset:    o.Skip,
		IndexHint: o.IndexHint,
	}
}

// Find returns every row matching the filter, field names converted back to
// the application side.
func (ds *DataSource) Find(ctx context.Context, table string, where filter.Node, opts *FindOptions) ([]map[string]any, error) {
	stmt, err := sqlgen.Select(table, opts.selectOptions(where), ds.conv)
	if err != nil {
		return nil, err
	}
	rows, err := ds.query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return naming.ParseRows(ds.conv, out), nil
}

// FindByKey returns the single row addressed by its key, or nil without error
// when no such row exists.
func (ds *DataSource) FindByKey(ctx context.Context, table string, key any) (map[string]any, error) {
	rows, err := ds.Find(ctx, table, filter.Equals(ds.keyField, key), &FindOptions{Limit: Int(1)})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Count returns the number of rows matching the filter. Only the index hint is
// honored from opts.
func (ds *DataSource) Count(ctx context.Context, table string, where filter.Node, opts *FindOptions) (int64, error) {
	hint := ""
	if opts != nil {
		hint = opts.IndexHint
	}
	stmt, err := sqlgen.Count(table, where, hint, ds.conv)
	if err != nil {
		return 0, err
	}
	return ds.queryScalarInt(ctx, stmt)
}

// Sum returns the numeric sum of field over the matching rows. An empty or
// all-NULL result is 0, never an error.
func (ds *DataSource) Sum(ctx context.Context, table, field string, where filter.Node) (float64, error) {
	stmt, err := sqlgen.Sum(table, field, where, ds.conv)
	if err != nil {
		return 0, err
	}
	rows, err := ds.query(ctx, stmt)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var sum sql.NullFloat64
	if rows.Next() {
		if err := rows.Scan(&sum); err != nil {
			return 0, err
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if !sum.Valid {
		return 0, nil
	}
	return sum.Float64, nil
}

func (ds *DataSource) queryScalarInt(ctx context.Context, stmt *sqlgen.Statement) (int64, error) {
	rows, err := ds.query(ctx, stmt)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	var n sql.NullInt64
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if !n.Valid {
		return 0, nil
	}
	return n.Int64, nil
}

// FindStream delivers matching rows one at a time to handle, pausing the
// underlying source while each handler is in flight. Handler and source
// failures terminate the stream early; see the stream package for the exact
// guarantees.
func (ds *DataSource) FindStream(ctx context.Context, table string, where filter.Node, opts *FindOptions, handle stream.Handler) error {
	src, err := ds.openStream(ctx, table, where, opts)
	if err != nil {
		return err
	}
	return stream.Run(ctx, src, handle)
}

// FindStreamSync is FindStream without the per-row backpressure goroutine; the
// handler is expected to return promptly.
func (ds *DataSource) FindStreamSync(ctx context.Context, table string, where filter.Node, opts *FindOptions, handle stream.Handler) error {
	src, err := ds.openStream(ctx, table, where, opts)
	if err != nil {
		return err
	}
	return stream.RunSync(src, handle)
}

func (ds *DataSource) openStream(ctx context.Context, table string, where filter.Node, opts *FindOptions) (stream.Source, error) {
	stmt, err := sqlgen.Select(table, opts.selectOptions(where), ds.conv)
	if err != nil {
		return nil, err
	}
	rows, err := ds.query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return newRowSource(rows, ds.conv)
}

// CustomQuery is the raw escape hatch: it runs an arbitrary parameterized
// statement and materializes the result, keys converted like every other read.
func (ds *DataSource) CustomQuery(ctx context.Context, query string, values ...any) ([]map[string]any, error) {
	stmt := &sqlgen.Statement{SQL: query, Args: values}
	rows, err := ds.query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return naming.ParseRows(ds.conv, out), nil
}
