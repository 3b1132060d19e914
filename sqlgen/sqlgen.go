// Package sqlgen assembles parameterized MySQL statements from generic query
// descriptions. Identifiers are backtick-quoted and passed through the active
// naming conversion; values are always bound positionally. The only literals
// ever written into statement text are caller-supplied non-negative LIMIT and
// OFFSET counts.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/beandb/mysqlstore/filter"
	"github.com/beandb/mysqlstore/naming"
)

// maxLimit is emitted when an OFFSET is requested without a LIMIT; MySQL
// refuses OFFSET on its own.
const maxLimit = "18446744073709551615"

// Statement is an assembled SQL statement with its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Sort names a single ordering field and direction.
type Sort struct {
	Field string
	Desc  bool
}

// Asc sorts ascending by field.
func Asc(field string) *Sort { return &Sort{Field: field} }

// Desc sorts descending by field.
func Desc(field string) *Sort { return &Sort{Field: field, Desc: true} }

// SelectOptions shape a SELECT beyond its filter. Nil pointer fields and
// negative counts omit the corresponding clause.
type SelectOptions struct {
	Columns   []string
	Where     filter.Node
	Sort      *Sort
	Limit     *int
	Offset    *int
	IndexHint string
}

func quote(name string) string {
	return "`" + name + "`"
}

func conversion(conv naming.Conversion) naming.Conversion {
	if conv == nil {
		return naming.Identity{}
	}
	return conv
}

// Select assembles
//
//	SELECT <projection> FROM <table> [FORCE INDEX] [WHERE] [ORDER BY] [LIMIT] [OFFSET]
func Select(table string, opts SelectOptions, conv naming.Conversion) (*Statement, error) {
	conv = conversion(conv)

	projection := "*"
	if len(opts.Columns) > 0 {
		cols := make([]string, len(opts.Columns))
		for i, col := range opts.Columns {
			cols[i] = quote(conv.ToSQL(col))
		}
		projection = strings.Join(cols, ", ")
	}

	parts := []string{fmt.Sprintf("SELECT %s FROM %s", projection, quote(conv.ToSQL(table)))}
	if opts.IndexHint != "" {
		parts = append(parts, fmt.Sprintf("FORCE INDEX (%s)", quote(opts.IndexHint)))
	}

	var args []any
	cond, err := filter.Compile(opts.Where, conv.ToSQL)
	if err != nil {
		return nil, err
	}
	if cond.Query != "" {
		parts = append(parts, "WHERE "+cond.Query)
		args = append(args, cond.Values...)
	}

	if opts.Sort != nil {
		direction := "ASC"
		if opts.Sort.Desc {
			direction = "DESC"
		}
		parts = append(parts, fmt.Sprintf("ORDER BY %s %s", quote(conv.ToSQL(opts.Sort.Field)), direction))
	}

	if opts.Limit != nil && *opts.Limit >= 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %d", *opts.Limit))
	} else if opts.Offset != nil && *opts.Offset >= 0 {
		parts = append(parts, "LIMIT "+maxLimit)
	}
	if opts.Offset != nil && *opts.Offset >= 0 {
		parts = append(parts, fmt.Sprintf("OFFSET %d", *opts.Offset))
	}

	return &Statement{SQL: strings.Join(parts, " "), Args: args}, nil
}

// Count assembles SELECT COUNT(*) with the same WHERE and index-hint handling
// as Select.
func Count(table string, where filter.Node, indexHint string, conv naming.Conversion) (*Statement, error) {
	conv = conversion(conv)

	parts := []string{fmt.Sprintf("SELECT COUNT(*) AS %s FROM %s", quote("c"), quote(conv.ToSQL(table)))}
	if indexHint != "" {
		parts = append(parts, fmt.Sprintf("FORCE INDEX (%s)", quote(indexHint)))
	}

	var args []any
	cond, err := filter.Compile(where, conv.ToSQL)
	if err != nil {
		return nil, err
	}
	if cond.Query != "" {
		parts = append(parts, "WHERE "+cond.Query)
		args = append(args, cond.Values...)
	}

	return &Statement{SQL: strings.Join(parts, " "), Args: args}, nil
}

// Sum assembles SELECT SUM(field) under a filter.
func Sum(table, field string, where filter.Node, conv naming.Conversion) (*Statement, error) {
	conv = conversion(conv)

	parts := []string{fmt.Sprintf("SELECT SUM(%s) AS %s FROM %s",
		quote(conv.ToSQL(field)), quote("s"), quote(conv.ToSQL(table)))}

	var args []any
	cond, err := filter.Compile(where, conv.ToSQL)
	if err != nil {
		return nil, err
	}
	if cond.Query != "" {
		parts = append(parts, "WHERE "+cond.Query)
		args = append(args, cond.Values...)
	}

	return &Statement{SQL: strings.Join(parts, " "), Args: args}, nil
}
