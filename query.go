package xrow

import (
	"context"
)

// Query executes the SQL query and decodes every result row with b.
//
// Each row is presented to b as a NamedRow backed by the Driver backend, so
// both static builders (positional) and named builders work. Decoding stops
// at the first failing row; its error is wrapped with the zero-based row
// number and no partial slice is returned.
//
// When the package mapper was configured WithStrictWidth and b is
// StaticallySized, a result set of a different width fails with *WidthError
// before any row is decoded.
//
// Example:
//
//	type User struct {
//	    ID   int64
//	    Name string
//	}
//
//	users := xrow.Identity(xrow.Col(xrow.Col(xrow.NewComposite[User](),
//	    xrow.Int64, func(u *User) *int64 { return &u.ID }),
//	    xrow.String, func(u *User) *string { return &u.Name }))
//
//	got, err := xrow.Query(ctx, db, users, `SELECT id, name FROM users ORDER BY id`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Query[T any](ctx context.Context, q Querier, b RowBuilder[T], query string, args ...any) (out []T, err error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	// Propagate rows.Close() error if nothing else failed.
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rs, err := newResultSet(rows)
	if err != nil {
		return nil, err
	}
	m := getMapper()
	if err := checkWidth(m, b, rs.width()); err != nil {
		return nil, err
	}
	for n := 0; rows.Next(); n++ {
		v, buildErr := buildRow(m, b, rs, n)
		if buildErr != nil {
			return nil, buildErr
		}
		out = append(out, v)
	}
	if ne := rows.Err(); ne != nil {
		return nil, ne
	}
	return out, nil
}
