// Package repository holds the generic SQL helpers shared by the
// database-backed domain repositories.
package repository

import (
	"context"
	"database/sql"
)

// DB is the subset of *sql.DB the query helpers need. *sql.Tx and
// *sql.Conn satisfy it as well.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Scanner abstracts sql.Row and sql.Rows for scan functions.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc reads one row into a typed value. Each domain package
// supplies its own for its entity type.
type ScanFunc[T any] func(Scanner) (T, error)

// QueryOne runs a query that must return exactly one row and scans it.
func QueryOne[T any](ctx context.Context, db DB, query string, args []any, scan ScanFunc[T]) (T, error) {
	return scan(db.QueryRowContext(ctx, query, args...))
}

// QueryMany runs a query and scans every row. A query with no matches
// yields an empty slice, not nil.
func QueryMany[T any](ctx context.Context, db DB, query string, args []any, scan ScanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Count runs a COUNT(*) style query returning a single integer.
func Count(ctx context.Context, db DB, query string, args []any) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
