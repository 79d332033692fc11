package store

import (
	"context"
	"errors"

	perr "pushverify/internal/platform/errors"
)

// One maps the first row of a query with scan; ErrNotFound when the result is empty
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	defer rs.Close()
	if !rs.Next() {
		if err := rs.Err(); err != nil {
			return zero, err
		}
		return zero, perr.ErrNotFound
	}
	item, err := scan(rs)
	if err != nil {
		return zero, err
	}
	return item, nil
}

// IsNotFound reports whether err is the empty result sentinel
func IsNotFound(err error) bool { return errors.Is(err, perr.ErrNotFound) }
