// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour spoken by the underlying driver
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Querier is satisfied by both *DB and *Conn
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Dialect() Dialect
}

// DB is the connection provider. Queries are written with ? placeholders
// and rebound for the active dialect.
type DB struct {
	sql     *sql.DB
	dialect Dialect
}

// Open connects to the database. For SQLite, dsn is a file path (or a
// file: URI) and busyTimeout bounds how long a statement waits on a lock.
func Open(dialect Dialect, dsn string, busyTimeout time.Duration) (*DB, error) {
	driver := string(dialect)
	switch dialect {
	case SQLite:
		dsn = sqliteDSN(dsn, busyTimeout)
	case Postgres:
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Connections live for a single request and are never parked for reuse
	conn.SetMaxIdleConns(0)

	return New(conn, dialect), nil
}

// New wraps an already opened *sql.DB
func New(conn *sql.DB, dialect Dialect) *DB {
	return &DB{sql: conn, dialect: dialect}
}

func (d *DB) Dialect() Dialect {
	return d.dialect
}

func (d *DB) PingContext(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.sql.Close()
}

// Acquire hands out a dedicated connection. The caller must Close it.
func (d *DB) Acquire(ctx context.Context) (*Conn, error) {
	c, err := d.sql.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Conn{conn: c, dialect: d.dialect}, nil
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.sql.ExecContext(ctx, Rebind(d.dialect, query), args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return d.sql.QueryContext(ctx, Rebind(d.dialect, query), args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.sql.QueryRowContext(ctx, Rebind(d.dialect, query), args...)
}

// Conn is a single request-scoped connection
type Conn struct {
	conn    *sql.Conn
	dialect Dialect
}

func (c *Conn) Dialect() Dialect {
	return c.dialect
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

func (c *Conn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.conn.ExecContext(ctx, Rebind(c.dialect, query), args...)
}

func (c *Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.conn.QueryContext(ctx, Rebind(c.dialect, query), args...)
}

func (c *Conn) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return c.conn.QueryRowContext(ctx, Rebind(c.dialect, query), args...)
}

// Rebind converts ? placeholders to $1, $2, ... for PostgreSQL.
// Queries must not contain literal question marks.
func Rebind(dialect Dialect, query string) string {
	if dialect != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// sqliteDSN turns a file path into a modernc URI with the pragmas every
// connection needs: a lock wait, enforced foreign keys and a sortable
// time format.
func sqliteDSN(path string, busyTimeout time.Duration) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_time_format=sqlite",
		path, sep, busyTimeout.Milliseconds())
}
