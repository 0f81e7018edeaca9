package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// DB is a handle factory for the read-only course database.
// Connections are scoped to a single operation and closed unconditionally;
// there is no pooling or reuse across calls.
type DB struct {
	path string
}

// New creates a DB for the SQLite file at path
func New(path string) *DB {
	return &DB{path: path}
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

// open returns a read-only connection. query_only enforces read-only at the
// SQLite level on top of the ro open mode; busy_timeout bounds lock waits.
func (d *DB) open(ctx context.Context) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", d.path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA query_only=ON",
		"PRAGMA busy_timeout=2000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	return conn, nil
}

// QueryScalar executes a query with named parameters and returns the first
// column of the first row. ok is false when the query yields no row.
func (d *DB) QueryScalar(ctx context.Context, query string, params map[string]any) (value any, ok bool, err error) {
	conn, err := d.open(ctx)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = conn.Close() }()

	args := make([]any, 0, len(params))
	for name, v := range params {
		args = append(args, sql.Named(name, v))
	}

	row := conn.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("execute metric query: %w", err)
	}
	return value, true, nil
}

// Schema returns a one-table-per-line description of the database
// (table name followed by "column (TYPE)" pairs), suitable for prompt context.
func (d *DB) Schema(ctx context.Context) (string, error) {
	conn, err := d.open(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = conn.Close() }()

	rows, err := conn.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return "", fmt.Errorf("list tables: %w", err)
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return "", fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return "", fmt.Errorf("list tables: %w", err)
	}
	_ = rows.Close()
	sort.Strings(tables)

	var lines []string
	for _, table := range tables {
		cols, err := tableColumns(ctx, conn, table)
		if err != nil {
			return "", err
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", table, strings.Join(cols, ", ")))
	}
	return strings.Join(lines, "\n"), nil
}

func tableColumns(ctx context.Context, conn *sql.DB, table string) ([]string, error) {
	rows, err := conn.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan column info: %w", err)
		}
		cols = append(cols, fmt.Sprintf("%s (%s)", name, colType))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}
	return cols, nil
}
