package mysqlstore

import (
	"database/sql"
	"io"

	"github.com/beandb/mysqlstore/naming"
)

// scanRow reads the current row into a map keyed by storage-side column name.
// Text and blob columns arrive from the driver as []byte; text is normalized
// to string so callers see plain scalars.
func scanRow(rows *sql.Rows, columns []string) (map[string]any, error) {
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	row := make(map[string]any, len(columns))
	for i, col := range columns {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[col] = v
	}
	return row, nil
}

// scanRows materializes the whole result set, storage-side names intact.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		row, err := scanRow(rows, columns)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowSource adapts *sql.Rows to stream.Source, converting each row's keys to
// application-side names before hand-off. Name conversion results are cached
// per source since every row shares the same column set.
type rowSource struct {
	rows    *sql.Rows
	conv    naming.Conversion
	columns []string
	beans   []string
}

func newRowSource(rows *sql.Rows, conv naming.Conversion) (*rowSource, error) {
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	beans := make([]string, len(columns))
	for i, col := range columns {
		beans[i] = conv.ToBean(col)
	}
	return &rowSource{rows: rows, conv: conv, columns: columns, beans: beans}, nil
}

func (s *rowSource) Next() (map[string]any, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	raw, err := scanRow(s.rows, s.columns)
	if err != nil {
		return nil, err
	}
	row := make(map[string]any, len(raw))
	for i, col := range s.columns {
		row[s.beans[i]] = raw[col]
	}
	return row, nil
}

func (s *rowSource) Close() error {
	return s.rows.Close()
}
