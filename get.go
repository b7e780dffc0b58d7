package xrow

import (
	"context"
	"database/sql"
)

// Get executes the SQL query and decodes the first row with b.
//
// It returns [sql.ErrNoRows] if the query yields no rows and does not enforce
// "exactly one row" beyond the first; if more rows exist, they are ignored.
// Use LIMIT 1 (or an equivalent WHERE clause) when you require at-most-one
// row.
//
// Example:
//
//	type User struct {
//	    ID    int64  `db:"id"`
//	    Email string `db:"email"`
//	}
//
//	byCol, err := xrow.ByColumn[User]()
//	if err != nil {
//	    return err
//	}
//	u, err := xrow.Get(ctx, db, byCol, `SELECT id, email FROM users WHERE id = $1`, 42)
//	if errors.Is(err, sql.ErrNoRows) {
//	    // handle not found
//	}
func Get[T any](ctx context.Context, q Querier, b RowBuilder[T], query string, args ...any) (out T, err error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return out, err
	}
	// Ensure Close error is propagated if no earlier error occurred.
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rs, err := newResultSet(rows)
	if err != nil {
		return out, err
	}
	m := getMapper()
	if err := checkWidth(m, b, rs.width()); err != nil {
		return out, err
	}
	if !rows.Next() {
		if ne := rows.Err(); ne != nil {
			return out, ne
		}
		return out, sql.ErrNoRows
	}
	return buildRow(m, b, rs, 0)
}
