// Package mysqlstore is a translation layer between a storage-agnostic query
// model and MySQL. It compiles generic filter trees into parameterized SQL,
// assembles full statements, executes them over a bounded connection pool, and
// converts identifiers between the application's camelCase names and the
// schema's snake_case names in both directions.
package mysqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/beandb/mysqlstore/naming"
)

// DataSource is the ORM-facing handle for one database. It is safe for
// concurrent use; the underlying pool serializes physical connections.
type DataSource struct {
	db       *sql.DB
	conv     naming.Conversion
	keyField string
	debug    func(string)
}

// Connect opens a pooled connection to the configured database and verifies
// it with a ping.
func Connect(ctx context.Context, opts Options) (*DataSource, error) {
	opts = opts.withDefaults()

	cfg := mysql.NewConfig()
	cfg.User = opts.User
	cfg.Passwd = opts.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", opts.Host, opts.Port)
	cfg.DBName = opts.Database
	cfg.ParseTime = true

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open datasource: %w", err)
	}
	db.SetMaxOpenConns(opts.Connections)
	db.SetMaxIdleConns(opts.Connections)

	ds := NewFromDB(db, opts)
	if err := ds.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return ds, nil
}

// NewFromDB wraps an already-open pool. Host, port, and credential options are
// ignored; conversion, key-field, and debug options apply.
func NewFromDB(db *sql.DB, opts Options) *DataSource {
	opts = opts.withDefaults()
	return &DataSource{
		db:       db,
		conv:     opts.conversion(),
		keyField: opts.KeyField,
		debug:    opts.Debug,
	}
}

// Ping verifies the datasource is reachable.
func (ds *DataSource) Ping(ctx context.Context) error {
	if err := ds.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping datasource: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (ds *DataSource) Close() error {
	return ds.db.Close()
}

// DB exposes the underlying pool.
func (ds *DataSource) DB() *sql.DB {
	return ds.db
}
