package xrow

import "strings"

// SQLType is a logical type tag: the declared SQL-level type of a single
// field, or the shape of a composite row.
type SQLType struct {
	name     string
	nullable bool
	fields   []SQLType // non-nil only for records
}

// Builtin single-value tags.
var (
	SQLBool      = NewSQLType("Bool")
	SQLSmallInt  = NewSQLType("SmallInt")
	SQLInteger   = NewSQLType("Integer")
	SQLBigInt    = NewSQLType("BigInt")
	SQLReal      = NewSQLType("Real")
	SQLDouble    = NewSQLType("Double")
	SQLText      = NewSQLType("Text")
	SQLBinary    = NewSQLType("Binary")
	SQLTimestamp = NewSQLType("Timestamp")
	SQLNumeric   = NewSQLType("Numeric")
	SQLUUID      = NewSQLType("Uuid")
)

// NewSQLType declares a single-value tag, e.g. for a database enum.
func NewSQLType(name string) SQLType { return SQLType{name: name} }

// SQLNullable marks t as nullable. Records are returned unchanged.
func SQLNullable(t SQLType) SQLType {
	if !t.IsSingle() {
		return t
	}
	t.nullable = true
	return t
}

// SQLRecord declares a composite tag whose slots are ts, in order.
func SQLRecord(ts ...SQLType) SQLType {
	return SQLType{name: "Record", fields: append(make([]SQLType, 0, len(ts)), ts...)}
}

func (t SQLType) IsSingle() bool { return t.fields == nil }

func (t SQLType) IsNullable() bool { return t.nullable }

// Fields returns the slot tags of a record, or nil for a single tag.
func (t SQLType) Fields() []SQLType {
	if t.fields == nil {
		return nil
	}
	return append([]SQLType(nil), t.fields...)
}

// FieldCount is the number of row fields a value of this shape consumes.
// Nested records are flattened.
func (t SQLType) FieldCount() int {
	if t.IsSingle() {
		return 1
	}
	n := 0
	for _, f := range t.fields {
		n += f.FieldCount()
	}
	return n
}

func (t SQLType) String() string {
	if t.IsSingle() {
		if t.name == "" {
			return "Untyped"
		}
		if t.nullable {
			return "Nullable<" + t.name + ">"
		}
		return t.name
	}
	var b strings.Builder
	b.WriteString("Record<")
	for i, f := range t.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.String())
	}
	b.WriteByte('>')
	return b.String()
}
