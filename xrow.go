package xrow

import (
	"context"
	"database/sql"
)

// Querier is implemented by *sql.DB, *sql.Tx, *sql.Conn, and any wrapper
// that can execute a query returning rows.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Field is one column of a row. Value reports false for SQL NULL.
type Field interface {
	Name() string
	Value() (RawValue, bool)
}

// Row is a positional, zero-based view over one result row. Get reports
// false when i is out of range.
type Row interface {
	Len() int
	Get(i int) (Field, bool)
}

// NamedRow is a Row whose fields can also be looked up by exact column name.
type NamedRow interface {
	Row
	GetByName(name string) (Field, bool)
}
