package xrow

// NamedLoader is declared by a target type (on its pointer) that reads its
// fields by column name. Column order in the row does not matter.
type NamedLoader interface {
	LoadNamed(row NamedRow) error
}

// Named returns the named-path builder a type declares via NamedLoader.
func Named[T any, PT interface {
	*T
	NamedLoader
}]() RowBuilder[T] {
	return ByName(func(row NamedRow) (T, error) {
		var out, zero T
		if err := PT(&out).LoadNamed(row); err != nil {
			return zero, err
		}
		return out, nil
	})
}

// NamedFunc is a named-path builder backed by a plain function.
type NamedFunc[T any] func(row NamedRow) (T, error)

func (f NamedFunc[T]) BuildFromRow(row NamedRow) (T, error) { return f(row) }

// ByName adapts fn into a RowBuilder.
func ByName[T any](fn func(row NamedRow) (T, error)) RowBuilder[T] {
	return NamedFunc[T](fn)
}

// DecodeColumn looks name up exactly and decodes it with d. A missing column
// is ErrColumnNotFound; both that and decode failures come back as a
// *FieldError carrying the column name.
func DecodeColumn[T any](row NamedRow, name string, d Decoder[T]) (T, error) {
	f, ok := row.GetByName(name)
	if !ok {
		var zero T
		return zero, &FieldError{Position: -1, Column: name, Err: ErrColumnNotFound}
	}
	v, err := d.DecodeField(f)
	if err != nil {
		return v, &FieldError{Position: -1, Column: name, Err: err}
	}
	return v, nil
}

// Columns is a named-path builder declared one column at a time:
//
//	users := xrow.NewColumns[User]()
//	xrow.Column(users, "id", xrow.Int64, func(u *User) *int64 { return &u.ID })
//	xrow.Column(users, "name", xrow.String, func(u *User) *string { return &u.Name })
//
// Build it fully before sharing it; afterwards it is read-only.
type Columns[T any] struct {
	cols []column[T]
}

type column[T any] struct {
	name   string
	decode func(row NamedRow, dst *T) error
}

func NewColumns[T any]() *Columns[T] { return &Columns[T]{} }

// Column registers name, decoded by d and stored through at.
func Column[T, A any](c *Columns[T], name string, d Decoder[A], at func(*T) *A) *Columns[T] {
	c.cols = append(c.cols, column[T]{
		name: name,
		decode: func(row NamedRow, dst *T) error {
			v, err := DecodeColumn(row, name, d)
			if err != nil {
				return err
			}
			*at(dst) = v
			return nil
		},
	})
	return c
}

// Names returns the registered column names in registration order.
func (c *Columns[T]) Names() []string {
	out := make([]string, len(c.cols))
	for i, col := range c.cols {
		out[i] = col.name
	}
	return out
}

func (c *Columns[T]) BuildFromRow(row NamedRow) (T, error) {
	var out, zero T
	for _, col := range c.cols {
		if err := col.decode(row, &out); err != nil {
			return zero, err
		}
	}
	return out, nil
}
