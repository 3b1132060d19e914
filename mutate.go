package mysqlstore

import (
	"context"

	"github.com/beandb/mysqlstore/filter"
	"github.com/beandb/mysqlstore/sqlgen"
)

// InsertResult reports the outcome of a single-row insert. GeneratedKey is set
// exactly when the row's key field was absent or nil and the backend
// generated one.
type InsertResult struct {
	GeneratedKey *int64
}

// Insert stores one row. Columns come from the row's own field names. When the
// key field is absent or nil it is omitted from the column list and the
// generated key is returned.
func (ds *DataSource) Insert(ctx context.Context, table string, row map[string]any) (*InsertResult, error) {
	stmt, err := sqlgen.Insert(table, row, ds.keyField, ds.conv)
	if err != nil {
		return nil, err
	}
	res, err := ds.exec(ctx, &stmt.Statement)
	if err != nil {
		return nil, err
	}
	out := &InsertResult{}
	if stmt.WantGeneratedKey {
		if id, err := res.LastInsertId(); err == nil {
			out.GeneratedKey = &id
		}
	}
	return out, nil
}

// BatchInsert stores every row with one multi-row statement. All rows must
// share the first row's column set. An empty input completes immediately
// without touching the database.
func (ds *DataSource) BatchInsert(ctx context.Context, table string, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := sqlgen.InsertBatch(table, rows, ds.conv)
	if err != nil {
		return err
	}
	_, err = ds.exec(ctx, stmt)
	return err
}

// Update sets every field present in changes on the row addressed by its key.
// An empty payload completes immediately without issuing a statement.
func (ds *DataSource) Update(ctx context.Context, table string, key any, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	stmt, err := sqlgen.UpdateByKey(table, changes, ds.keyField, key, ds.conv)
	if err != nil {
		return err
	}
	_, err = ds.exec(ctx, stmt)
	return err
}

// UpdateMany applies changes to every row matching the filter and returns the
// affected-row count. An empty filter updates the whole table; an empty
// payload completes immediately with zero.
func (ds *DataSource) UpdateMany(ctx context.Context, table string, where filter.Node, changes map[string]any) (int64, error) {
	if len(changes) == 0 {
		return 0, nil
	}
	stmt, err := sqlgen.Update(table, changes, where, ds.conv)
	if err != nil {
		return 0, err
	}
	res, err := ds.exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes the row addressed by its key and reports whether exactly that
// row existed.
func (ds *DataSource) Delete(ctx context.Context, table string, key any) (bool, error) {
	stmt, err := sqlgen.DeleteByKey(table, ds.keyField, key, ds.conv)
	if err != nil {
		return false, err
	}
	res, err := ds.exec(ctx, stmt)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// DeleteMany removes every row matching the filter and returns the affected
// count. An empty filter means no restriction: the whole table is cleared.
func (ds *DataSource) DeleteMany(ctx context.Context, table string, where filter.Node) (int64, error) {
	stmt, err := sqlgen.Delete(table, where, ds.conv)
	if err != nil {
		return 0, err
	}
	res, err := ds.exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Increment atomically adds delta to field on the row addressed by its key.
// The arithmetic runs server-side; there is no read-modify-write race on the
// caller.
func (ds *DataSource) Increment(ctx context.Context, table string, key any, field string, delta any) error {
	stmt, err := sqlgen.Increment(table, field, delta, ds.keyField, key, ds.conv)
	if err != nil {
		return err
	}
	_, err = ds.exec(ctx, stmt)
	return err
}
