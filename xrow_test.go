package xrow

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
)

// fakeResult is what a fake query returns: column names, rows of driver
// values, and optional errors surfaced at Next and Close.
type fakeResult struct {
	cols     []string
	data     [][]driver.Value
	nextErr  error
	closeErr error
}

type fakeHandler func(query string, args []driver.NamedValue) (fakeResult, error)

type fakeConnector struct{ h fakeHandler }

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) { return &fakeConn{h: c.h}, nil }
func (c *fakeConnector) Driver() driver.Driver                        { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("fakeDriver.Open should not be called; use sql.OpenDB with a connector")
}

type fakeConn struct{ h fakeHandler }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, driver.ErrSkip }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return nil, driver.ErrSkip }

func (c *fakeConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	res, err := c.h(query, args)
	if err != nil {
		return nil, err
	}
	return &fakeRows{res: res}, nil
}

type fakeRows struct {
	res fakeResult
	i   int
}

func (r *fakeRows) Columns() []string { return append([]string(nil), r.res.cols...) }
func (r *fakeRows) Close() error      { return r.res.closeErr }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.res.nextErr != nil {
		return r.res.nextErr
	}
	if r.i >= len(r.res.data) {
		return io.EOF
	}
	row := r.res.data[r.i]
	for i := range dest {
		dest[i] = nil
		if i < len(row) {
			dest[i] = row[i]
		}
	}
	r.i++
	return nil
}

// newFakeDB returns a *sql.DB whose every query is answered by h.
func newFakeDB(t *testing.T, h fakeHandler) *sql.DB {
	t.Helper()
	db := sql.OpenDB(&fakeConnector{h: h})
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// staticDB answers every query with the same columns and rows.
func staticDB(t *testing.T, cols []string, data ...[]driver.Value) *sql.DB {
	t.Helper()
	return newFakeDB(t, func(string, []driver.NamedValue) (fakeResult, error) {
		return fakeResult{cols: cols, data: data}, nil
	})
}

// textRecord builds a named Record with the text backend or fails the test.
func textRecord(t *testing.T, names []string, values ...any) *Record {
	t.Helper()
	r, err := NewRecord(Text, names, values...)
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	return r
}

// useMapper installs m as the package mapper for the duration of the test.
func useMapper(t *testing.T, m *Mapper) {
	t.Helper()
	prev := getMapper()
	SetDefault(m)
	t.Cleanup(func() { SetDefault(prev) })
}
