package xrow

import (
	"database/sql"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// resultSet adapts the current row of *sql.Rows into Records that share one
// column index.
type resultSet struct {
	rows *sql.Rows
	cols *columnSet
	vals []any
	ptrs []any
}

func newResultSet(rows *sql.Rows) (*resultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errors.New("xrow: query returned zero columns")
	}
	rs := &resultSet{
		rows: rows,
		cols: newColumnSet(cols),
		vals: make([]any, len(cols)),
		ptrs: make([]any, len(cols)),
	}
	for i := range rs.vals {
		rs.ptrs[i] = &rs.vals[i]
	}
	return rs, nil
}

func (rs *resultSet) width() int { return len(rs.cols.names) }

// record scans the current row. Scanning into *any hands back the driver
// value with []byte copied, so the Record stays valid after Next.
func (rs *resultSet) record() (*Record, error) {
	if err := rs.rows.Scan(rs.ptrs...); err != nil {
		return nil, err
	}
	r := &Record{cols: rs.cols, fields: make([]field, len(rs.vals))}
	for i, v := range rs.vals {
		r.fields[i] = field{name: rs.cols.names[i], raw: DriverValue(v), null: v == nil}
		rs.vals[i] = nil
	}
	return r, nil
}

// checkWidth applies the mapper's strict-width policy to b.
func checkWidth[T any](m *Mapper, b RowBuilder[T], width int) error {
	if !m.strict {
		return nil
	}
	ss, ok := b.(StaticallySized)
	if !ok {
		return nil
	}
	if err := CheckWidth[T](ss, width); err != nil {
		m.log.WithFields(logrus.Fields{"type": typeName[T](), "width": width}).Debug("xrow: result width mismatch")
		return err
	}
	return nil
}

func buildRow[T any](m *Mapper, b RowBuilder[T], rs *resultSet, n int) (T, error) {
	var zero T
	rec, err := rs.record()
	if err != nil {
		return zero, err
	}
	v, err := b.BuildFromRow(rec)
	if err != nil {
		m.log.WithFields(logrus.Fields{"type": typeName[T](), "row": n}).WithError(err).Debug("xrow: row decode failed")
		return zero, errors.Wrapf(err, "xrow: row %d", n)
	}
	return v, nil
}

// Scan decodes the row rows is currently positioned on (after Next returned
// true) using b. It is for callers that drive *sql.Rows themselves.
func Scan[T any](rows *sql.Rows, b RowBuilder[T]) (T, error) {
	var zero T
	rs, err := newResultSet(rows)
	if err != nil {
		return zero, err
	}
	m := getMapper()
	if err := checkWidth(m, b, rs.width()); err != nil {
		return zero, err
	}
	return buildRow(m, b, rs, 0)
}
