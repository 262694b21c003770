// Package sql provides sequence sources and sinks over database/sql.
package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lguimbarda/min-seq/seq/core"
)

// Scanner is a function that scans a row into a value.
type Scanner[T any] func(*sql.Rows) (T, error)

// Query creates a sequence of the rows returned by query, converted by
// scanner. The query runs when the sequence is evaluated, with the
// evaluation context. The first query, scan or iteration error ends the
// sequence and is returned by the terminal operation.
func Query[T any](db *sql.DB, query string, scanner Scanner[T], args ...any) *core.Sequence[T] {
	return core.FromFunc(func(ctx context.Context, yield func(T) bool) error {
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("sql: query: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			value, err := scanner(rows)
			if err != nil {
				return fmt.Errorf("sql: scan: %w", err)
			}
			if !yield(value) {
				return nil
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("sql: rows: %w", err)
		}
		return nil
	})
}

// QueryMaps creates a sequence of rows as maps keyed by column name.
func QueryMaps(db *sql.DB, query string, args ...any) *core.Sequence[map[string]any] {
	return Query(db, query, func(rows *sql.Rows) (map[string]any, error) {
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		return row, nil
	}, args...)
}

// ExecEach drains s, executing query once per element with the arguments
// returned by binder, inside a single transaction. It returns the total
// number of affected rows. Any failure rolls the transaction back.
func ExecEach[T any](ctx context.Context, db *sql.DB, s *core.Sequence[T], query string, binder func(T) []any) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sql: begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("sql: prepare: %w", err)
	}
	defer stmt.Close()

	var affected int64
	for v, err := range s.All(ctx) {
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		res, err := stmt.ExecContext(ctx, binder(v)...)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("sql: exec: %w", err)
		}
		n, _ := res.RowsAffected()
		affected += n
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sql: commit: %w", err)
	}
	return affected, nil
}
