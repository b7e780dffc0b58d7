package xrow

// RowBuilder is what the query helpers call once per fetched row. A builder
// is obtained from exactly one of two paths, chosen when it is constructed:
//
//   - static: a StaticRow intermediate adapted into T (NewQueryable,
//     Identity, Static, Positional);
//   - named: fields looked up by column name (Columns, ByName, Named,
//     ByColumn).
//
// There is no runtime fallback between the two.
type RowBuilder[T any] interface {
	BuildFromRow(row NamedRow) (T, error)
}

// StaticallySized is implemented by builders on the static path. FieldCount
// is fixed at construction.
type StaticallySized interface {
	FieldCount() int
}

// CheckWidth reports a *WidthError naming T when a result set of n fields
// cannot feed s exactly.
func CheckWidth[T any](s StaticallySized, n int) error {
	if want := s.FieldCount(); want != n {
		return &WidthError{Type: typeName[T](), Want: want, Got: n}
	}
	return nil
}

// Queryable adapts the intermediate value of a static row into T. The
// adapter function must not fail; anything fallible belongs in the decoders
// that produce I.
type Queryable[I, T any] struct {
	row   StaticRow[I]
	build func(I) T
}

// NewQueryable pairs a static row shape with an adapter into T.
func NewQueryable[I, T any](row StaticRow[I], build func(I) T) *Queryable[I, T] {
	return &Queryable[I, T]{row: row, build: build}
}

// Identity is the adapter for a static row that already produces T, e.g. a
// Composite whose slots store straight into T's fields.
func Identity[T any](row StaticRow[T]) *Queryable[T, T] {
	return NewQueryable(row, func(v T) T { return v })
}

func (q *Queryable[I, T]) SQLType() SQLType { return q.row.SQLType() }

func (q *Queryable[I, T]) FieldCount() int { return q.row.SQLType().FieldCount() }

// DecodeRow makes a Queryable usable as a slot of a larger composite.
func (q *Queryable[I, T]) DecodeRow(row Row) (T, error) {
	in, err := q.row.DecodeRow(row)
	if err != nil {
		var zero T
		return zero, err
	}
	return q.build(in), nil
}

func (q *Queryable[I, T]) BuildFromRow(row NamedRow) (T, error) {
	return q.DecodeRow(row)
}

// StaticLoader is declared by a target type (on its pointer) that is built
// from a static intermediate I. Shape must not depend on the receiver's
// contents; it is called once on a zero value.
type StaticLoader[I any] interface {
	Shape() StaticRow[I]
	Load(in I)
}

// Static returns the static-path builder a type declares via StaticLoader.
func Static[T, I any, PT interface {
	*T
	StaticLoader[I]
}]() *Queryable[I, T] {
	shape := PT(new(T)).Shape()
	return NewQueryable(shape, func(in I) T {
		var out T
		PT(&out).Load(in)
		return out
	})
}
