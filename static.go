package xrow

// StaticRow decodes a row whose width and per-field logical types are known
// before decoding starts. Decoder[T] is the single-value case; Composite is
// the multi-value case.
type StaticRow[T any] interface {
	SQLType() SQLType
	DecodeRow(row Row) (T, error)
}

// Composite decodes a fixed sequence of slots, left to right, into a T.
// Each slot consumes the field count of its own shape, so tuples and nested
// composites share this one algorithm whatever their width.
//
// A Composite must be fully built before it is shared; after that it is
// read-only and safe for concurrent use.
type Composite[T any] struct {
	slots []slot[T]
	width int
}

type slot[T any] struct {
	typ    SQLType
	width  int
	decode func(row Row, dst *T) error
}

// NewComposite starts an empty composite for T.
func NewComposite[T any]() *Composite[T] { return &Composite[T]{} }

// Slot appends a slot decoded by r and stored through at.
func Slot[T, A any](c *Composite[T], r StaticRow[A], at func(*T) *A) *Composite[T] {
	typ := r.SQLType()
	c.slots = append(c.slots, slot[T]{
		typ:   typ,
		width: typ.FieldCount(),
		decode: func(row Row, dst *T) error {
			v, err := r.DecodeRow(row)
			if err != nil {
				return err
			}
			*at(dst) = v
			return nil
		},
	})
	c.width += typ.FieldCount()
	return c
}

// Col appends a single-field slot.
func Col[T, A any](c *Composite[T], d Decoder[A], at func(*T) *A) *Composite[T] {
	return Slot(c, StaticRow[A](d), at)
}

func (c *Composite[T]) SQLType() SQLType {
	ts := make([]SQLType, len(c.slots))
	for i, s := range c.slots {
		ts[i] = s.typ
	}
	return SQLRecord(ts...)
}

// FieldCount is the number of leading row fields DecodeRow consumes.
func (c *Composite[T]) FieldCount() int { return c.width }

// DecodeRow decodes positions [0, FieldCount) of row. Fields past that are
// ignored. On failure it returns the zero T, never a partial value.
func (c *Composite[T]) DecodeRow(row Row) (T, error) {
	var out, zero T
	off := 0
	for _, s := range c.slots {
		if err := s.decode(subRow{parent: row, offset: off, width: s.width}, &out); err != nil {
			return zero, err
		}
		off += s.width
	}
	return out, nil
}
