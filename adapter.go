package mysqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/beandb/mysqlstore/sqlgen"
)

// exec issues one mutating statement exactly once. Driver failures are wrapped
// as *ExecutionError and propagated; there is no retry.
func (ds *DataSource) exec(ctx context.Context, stmt *sqlgen.Statement) (sql.Result, error) {
	ds.debug(formatStatement(stmt.SQL, stmt.Args))
	res, err := ds.db.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, &ExecutionError{SQL: stmt.SQL, Err: err}
	}
	return res, nil
}

// query issues one row-returning statement exactly once.
func (ds *DataSource) query(ctx context.Context, stmt *sqlgen.Statement) (*sql.Rows, error) {
	ds.debug(formatStatement(stmt.SQL, stmt.Args))
	rows, err := ds.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, &ExecutionError{SQL: stmt.SQL, Err: err}
	}
	return rows, nil
}

// formatStatement renders the value-substituted statement text for the debug
// sink. Rendering is for observability only; execution always binds the
// parameterized form.
func formatStatement(query string, args []any) string {
	if len(args) == 0 {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16*len(args))
	next := 0
	for _, r := range query {
		if r == '?' && next < len(args) {
			b.WriteString(formatValue(args[next]))
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(x), "'", "''") + "'"
	case time.Time:
		return "'" + x.Format("2006-01-02 15:04:05") + "'"
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", x)
	}
}

// ColorDebug returns a debug sink that prints each statement to stderr in
// cyan. Suitable as Options.Debug during development.
func ColorDebug() func(string) {
	c := color.New(color.FgCyan)
	return func(stmt string) {
		c.Fprintln(os.Stderr, stmt)
	}
}
