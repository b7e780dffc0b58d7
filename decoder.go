package xrow

import (
	"database/sql"

	"github.com/pkg/errors"
)

// Decoder converts one field payload into a T of a declared logical type.
//
// A Decoder is immutable and safe for concurrent use. Absent (NULL) fields
// fail with ErrUnexpectedNull unless the decoder was built to represent "no
// value", see OrNull, Nullable and Null.
//
// A Decoder is also a single-value StaticRow: DecodeRow reads position 0.
type Decoder[T any] struct {
	typ     SQLType
	present func(RawValue) (T, error)
	absent  func() (T, error)
}

// NewDecoder declares a decoder for typ backed by fn.
func NewDecoder[T any](typ SQLType, fn func(RawValue) (T, error)) Decoder[T] {
	return Decoder[T]{typ: typ, present: fn}
}

func (d Decoder[T]) SQLType() SQLType { return d.typ }

// Decode interprets a present payload.
func (d Decoder[T]) Decode(raw RawValue) (T, error) {
	if d.present == nil {
		var zero T
		return zero, errors.Errorf("xrow: no decoder for %s into %s", d.typ, typeName[T]())
	}
	return d.present(raw)
}

// DecodeNullable decodes raw when ok, otherwise applies the decoder's null
// handling.
func (d Decoder[T]) DecodeNullable(raw RawValue, ok bool) (T, error) {
	if ok {
		return d.Decode(raw)
	}
	if d.absent != nil {
		return d.absent()
	}
	var zero T
	return zero, ErrUnexpectedNull
}

// DecodeField is DecodeNullable over f's value.
func (d Decoder[T]) DecodeField(f Field) (T, error) {
	raw, ok := f.Value()
	return d.DecodeNullable(raw, ok)
}

// DecodeRow reads the field at position 0 of row.
func (d Decoder[T]) DecodeRow(row Row) (T, error) {
	f, ok := row.Get(0)
	if !ok {
		var zero T
		return zero, &FieldError{Position: absPosition(row, 0), Err: ErrUnexpectedEndOfRow}
	}
	v, err := d.DecodeField(f)
	if err != nil {
		return v, &FieldError{Position: absPosition(row, 0), Column: f.Name(), Err: err}
	}
	return v, nil
}

// OrNull returns a copy of d that calls fn for NULL fields.
func (d Decoder[T]) OrNull(fn func() (T, error)) Decoder[T] {
	d.absent = fn
	return d
}

// Map derives a decoder from an existing one. fn receives the value d
// produced, including d's "no value" representation for NULL fields when d
// handles them. An error from fn is reported as a *ConversionError naming the
// offending value.
func Map[A, B any](d Decoder[A], fn func(A) (B, error)) Decoder[B] {
	typ := d.typ
	convert := func(a A, err error) (B, error) {
		if err != nil {
			var zero B
			return zero, err
		}
		b, err := fn(a)
		if err != nil {
			var zero B
			var ce *ConversionError
			if errors.As(err, &ce) {
				return zero, err
			}
			return zero, convErr[B](typ, a, err)
		}
		return b, nil
	}
	out := Decoder[B]{
		typ: typ,
		present: func(raw RawValue) (B, error) {
			return convert(d.Decode(raw))
		},
	}
	if d.absent != nil {
		out.absent = func() (B, error) { return convert(d.absent()) }
	}
	return out
}

// Nullable decodes NULL as a nil pointer.
func Nullable[T any](d Decoder[T]) Decoder[*T] {
	return Decoder[*T]{
		typ: SQLNullable(d.typ),
		present: func(raw RawValue) (*T, error) {
			v, err := d.Decode(raw)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
		absent: func() (*T, error) { return nil, nil },
	}
}

// Null decodes NULL as sql.Null[T]{Valid: false}.
func Null[T any](d Decoder[T]) Decoder[sql.Null[T]] {
	return Decoder[sql.Null[T]]{
		typ: SQLNullable(d.typ),
		present: func(raw RawValue) (sql.Null[T], error) {
			v, err := d.Decode(raw)
			if err != nil {
				return sql.Null[T]{}, err
			}
			return sql.Null[T]{V: v, Valid: true}, nil
		},
		absent: func() (sql.Null[T], error) { return sql.Null[T]{}, nil },
	}
}
