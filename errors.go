package xrow

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedNull is returned when a NULL field reaches a decoder
	// whose target type cannot represent "no value".
	ErrUnexpectedNull = errors.New("xrow: unexpected null for non-nullable target")

	// ErrUnexpectedEndOfRow is returned when a positional field required by
	// a static row shape does not exist (the row is narrower than declared).
	ErrUnexpectedEndOfRow = errors.New("xrow: unexpected end of row")

	// ErrColumnNotFound is returned by the named path when an expected
	// column is not present in the row.
	ErrColumnNotFound = errors.New("xrow: column not found")
)

// ConversionError reports a present payload that could not be interpreted
// as the target type.
type ConversionError struct {
	SQLType SQLType // declared logical type
	GoType  string  // target Go type
	Value   string  // offending value, rendered for humans
	Err     error   // underlying cause, may be nil
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("xrow: cannot convert %s value %s into %s", e.SQLType, e.Value, e.GoType)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

// convErr builds a *ConversionError for target type T.
func convErr[T any](typ SQLType, value any, cause error) error {
	return &ConversionError{
		SQLType: typ,
		GoType:  typeName[T](),
		Value:   renderValue(value),
		Err:     cause,
	}
}

func renderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		if len(x) > 64 {
			return fmt.Sprintf("%q...", x[:64])
		}
		return fmt.Sprintf("%q", x)
	case string:
		return fmt.Sprintf("%q", x)
	case RawValue:
		return renderValue(x.payload())
	default:
		return fmt.Sprintf("%v", x)
	}
}

// FieldError locates a decode failure inside a row. Position is the absolute
// zero-based field index, or -1 when the field was looked up by name.
type FieldError struct {
	Position int
	Column   string
	Err      error
}

func (e *FieldError) Error() string {
	switch {
	case e.Position >= 0 && e.Column != "":
		return fmt.Sprintf("field %d (%q): %v", e.Position, e.Column, e.Err)
	case e.Position >= 0:
		return fmt.Sprintf("field %d: %v", e.Position, e.Err)
	default:
		return fmt.Sprintf("column %q: %v", e.Column, e.Err)
	}
}

func (e *FieldError) Unwrap() error { return e.Err }

// WidthError reports a result set whose width does not match the fixed
// field count of a statically shaped target.
type WidthError struct {
	Type string
	Want int
	Got  int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("xrow: %s expects %d fields, result has %d", e.Type, e.Want, e.Got)
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
