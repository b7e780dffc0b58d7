package xrow

import (
	"github.com/pkg/errors"
)

// Record is an in-memory NamedRow. Query helpers produce one per fetched row;
// tests and callers with their own transport can build them with NewRecord.
type Record struct {
	cols   *columnSet
	fields []field
}

type field struct {
	name string
	raw  RawValue
	null bool
}

func (f field) Name() string { return f.name }

func (f field) Value() (RawValue, bool) {
	if f.null {
		return RawValue{}, false
	}
	return f.raw, true
}

// NewRecord encodes values with backend b. A nil value becomes NULL and a
// RawValue is used as-is. names may be nil for an unnamed row; otherwise it
// must have one entry per value.
func NewRecord(b Backend, names []string, values ...any) (*Record, error) {
	if names != nil && len(names) != len(values) {
		return nil, errors.Errorf("xrow: record has %d names for %d values", len(names), len(values))
	}
	cols := newColumnSet(names)
	r := &Record{cols: cols, fields: make([]field, len(values))}
	for i, v := range values {
		f := field{name: cols.name(i)}
		switch x := v.(type) {
		case nil:
			f.null = true
		case RawValue:
			f.raw = x
		default:
			raw, err := b.Encode(v)
			if err != nil {
				return nil, errors.Wrapf(err, "value %d", i)
			}
			f.raw = raw
		}
		r.fields[i] = f
	}
	return r, nil
}

func (r *Record) Len() int { return len(r.fields) }

func (r *Record) Get(i int) (Field, bool) {
	if i < 0 || i >= len(r.fields) {
		return nil, false
	}
	return r.fields[i], true
}

func (r *Record) GetByName(name string) (Field, bool) {
	i, ok := r.cols.index[name]
	if !ok || i >= len(r.fields) {
		return nil, false
	}
	return r.fields[i], true
}

// Columns returns the column names in result order.
func (r *Record) Columns() []string {
	return append([]string(nil), r.cols.names...)
}

// columnSet is shared by every row of one result set.
type columnSet struct {
	names []string
	index map[string]int // exact name -> first position
}

func newColumnSet(names []string) *columnSet {
	cs := &columnSet{names: names, index: make(map[string]int, len(names))}
	for i, n := range names {
		if _, seen := cs.index[n]; !seen {
			cs.index[n] = i
		}
	}
	return cs
}

func (cs *columnSet) name(i int) string {
	if i < len(cs.names) {
		return cs.names[i]
	}
	return ""
}

// subRow is the window a composite slot decodes from.
type subRow struct {
	parent Row
	offset int
	width  int
}

func (s subRow) Len() int {
	n := s.parent.Len() - s.offset
	if n < 0 {
		return 0
	}
	return min(n, s.width)
}

func (s subRow) Get(i int) (Field, bool) {
	if i < 0 || i >= s.width {
		return nil, false
	}
	return s.parent.Get(s.offset + i)
}

// absPosition maps position i of row back to the outermost row.
func absPosition(row Row, i int) int {
	for {
		s, ok := row.(subRow)
		if !ok {
			return i
		}
		i += s.offset
		row = s.parent
	}
}
