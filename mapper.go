package xrow

import (
	"database/sql"
	"fmt"
	"io"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Mapper derives struct adapters by reflection and owns their caches. Use
// the package-level lazy mapper (via Positional/ByColumn) or create your own.
type Mapper struct {
	structIndexCache sync.Map // key: reflect.Type -> *fieldIndex
	decoderCache     sync.Map // key: reflect.Type -> fieldDecoder
	strict           bool     // enforce result width for static builders in Query/Get
	log              logrus.FieldLogger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Mapper) { m.log = l }
}

// WithStrictWidth makes Query and Get reject result sets whose width differs
// from a StaticallySized builder's field count.
func WithStrictWidth() Option {
	return func(m *Mapper) { m.strict = true }
}

func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{log: discardLogger()}
	for _, o := range opts {
		o(m)
	}
	return m
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// --- package-level lazy global mapper (used by Query/Get/Positional/ByColumn) ---

var mapper atomic.Pointer[Mapper]

func getMapper() *Mapper {
	if m := mapper.Load(); m != nil {
		return m
	}
	mapper.CompareAndSwap(nil, NewMapper())
	return mapper.Load()
}

// SetDefault replaces the package-level mapper used by Query, Get,
// Positional and ByColumn.
func SetDefault(m *Mapper) { mapper.Store(m) }

// Positional derives the default static adapter for struct T: one field per
// mapped struct field, in declaration order.
func Positional[T any]() (*Queryable[T, T], error) { return PositionalWith[T](getMapper()) }

// ByColumn derives the named adapter for struct T.
func ByColumn[T any]() (RowBuilder[T], error) { return ByColumnWith[T](getMapper()) }

func PositionalWith[T any](m *Mapper) (*Queryable[T, T], error) {
	fields, err := m.derive(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return Identity[T](reflectRow[T]{fields: fields}), nil
}

func ByColumnWith[T any](m *Mapper) (RowBuilder[T], error) {
	fields, err := m.derive(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return reflectNamed[T]{fields: fields}, nil
}

// ---------------- Derived adapters ----------------

type mappedField struct {
	name     string
	path     []int
	optional bool
	dec      fieldDecoder
}

type reflectRow[T any] struct {
	fields []mappedField
}

func (r reflectRow[T]) SQLType() SQLType {
	ts := make([]SQLType, len(r.fields))
	for i, f := range r.fields {
		ts[i] = f.dec.typ
	}
	return SQLRecord(ts...)
}

func (r reflectRow[T]) DecodeRow(row Row) (T, error) {
	var out, zero T
	root := reflect.ValueOf(&out).Elem()
	for i, mf := range r.fields {
		f, ok := row.Get(i)
		if !ok {
			return zero, &FieldError{Position: absPosition(row, i), Err: ErrUnexpectedEndOfRow}
		}
		raw, present := f.Value()
		v, err := mf.dec.decode(raw, present)
		if err != nil {
			return zero, &FieldError{Position: absPosition(row, i), Column: f.Name(), Err: err}
		}
		fieldByPathAlloc(root, mf.path).Set(v)
	}
	return out, nil
}

type reflectNamed[T any] struct {
	fields []mappedField
}

func (r reflectNamed[T]) BuildFromRow(row NamedRow) (T, error) {
	var out, zero T
	root := reflect.ValueOf(&out).Elem()
	for _, mf := range r.fields {
		f, ok := row.GetByName(mf.name)
		if !ok {
			if mf.optional {
				continue
			}
			return zero, &FieldError{Position: -1, Column: mf.name, Err: ErrColumnNotFound}
		}
		raw, present := f.Value()
		v, err := mf.dec.decode(raw, present)
		if err != nil {
			return zero, &FieldError{Position: -1, Column: mf.name, Err: err}
		}
		fieldByPathAlloc(root, mf.path).Set(v)
	}
	return out, nil
}

// derive resolves a decoder for every mapped field of struct type rt.
func (m *Mapper) derive(rt reflect.Type) ([]mappedField, error) {
	if rt.Kind() != reflect.Struct {
		return nil, errors.Errorf("xrow: cannot derive a row adapter for non-struct %s", rt)
	}
	idx := m.structIndex(rt)
	fields := make([]mappedField, len(idx.fields))
	for i, f := range idx.fields {
		ft := fieldTypeByPath(rt, f.path)
		dec, err := m.decoderFor(ft)
		if err != nil {
			return nil, errors.Wrapf(err, "xrow: %s.%s", rt, f.goName)
		}
		fields[i] = mappedField{name: f.name, path: f.path, optional: f.optional, dec: dec}
	}
	m.log.WithFields(logrus.Fields{"type": rt.String(), "fields": len(fields)}).Debug("xrow: derived row adapter")
	return fields, nil
}

// ---------------- Struct indexing & tags ----------------

type indexedField struct {
	name     string // column name
	goName   string
	path     []int
	optional bool
}

type fieldIndex struct {
	fields []indexedField // declaration order, inline fields expanded in place
	byName map[string]int // column name -> position in fields
}

func (m *Mapper) structIndex(rt reflect.Type) *fieldIndex {
	if v, ok := m.structIndexCache.Load(rt); ok {
		return v.(*fieldIndex)
	}
	fi := buildStructIndex(rt)
	v, _ := m.structIndexCache.LoadOrStore(rt, &fi)
	return v.(*fieldIndex)
}

func buildStructIndex(rt reflect.Type) fieldIndex {
	idx := fieldIndex{byName: make(map[string]int)}

	var walk func(t reflect.Type, base []int, forceInline bool)
	walk = func(t reflect.Type, base []int, forceInline bool) {
		t = derefPtr(t)
		if t.Kind() != reflect.Struct {
			return
		}
		n := t.NumField()
		for i := 0; i < n; i++ {
			sf := t.Field(i)
			if sf.PkgPath != "" && !sf.Anonymous { // unexported, non-anonymous
				continue
			}
			if sf.PkgPath != "" && sf.Type.Kind() == reflect.Ptr { // unexported embedded pointer cannot be allocated
				continue
			}
			tag := sf.Tag.Get("db")
			opts := parseTag(tag)
			if opts.omit {
				continue
			}
			ft := sf.Type
			path := append(append([]int(nil), base...), i)

			if opts.inline || (sf.Anonymous && (forceInline || tag == "")) {
				if isStruct(ft) && !isLeafType(derefPtr(ft)) {
					walk(ft, path, opts.inline)
					continue
				}
			}
			if sf.PkgPath != "" { // unexported embedded non-struct
				continue
			}
			name := opts.name
			if name == "" {
				name = toLowerAscii(sf.Name)
			}
			if _, ok := idx.byName[name]; ok {
				continue
			}
			idx.byName[name] = len(idx.fields)
			idx.fields = append(idx.fields, indexedField{name: name, goName: sf.Name, path: path, optional: opts.optional})
		}
	}
	walk(rt, nil, false)
	return idx
}

type tagOptions struct {
	name     string
	inline   bool
	optional bool
	omit     bool
}

// parseTag supports: "-", "col", ",inline", "col,inline", "inline,col", "col,optional".
func parseTag(tag string) tagOptions {
	var o tagOptions
	if tag == "-" {
		o.omit = true
		return o
	}
	start := 0
	for i := 0; i <= len(tag); i++ {
		if i == len(tag) || tag[i] == ',' {
			part := tag[start:i]
			switch {
			case part == "inline":
				o.inline = true
			case part == "optional":
				o.optional = true
			case part != "" && o.name == "":
				o.name = part
			}
			start = i + 1
		}
	}
	return o
}

// ---------------- Decoder selection ----------------

// fieldDecoder is a Decoder erased to reflect.Value, assignable to the field.
type fieldDecoder struct {
	typ    SQLType
	decode func(raw RawValue, ok bool) (reflect.Value, error)
}

func erase[T any](d Decoder[T]) fieldDecoder {
	return fieldDecoder{
		typ: d.SQLType(),
		decode: func(raw RawValue, ok bool) (reflect.Value, error) {
			v, err := d.DecodeNullable(raw, ok)
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&v).Elem(), nil
		},
	}
}

var (
	timeType    = reflect.TypeFor[time.Time]()
	decimalType = reflect.TypeFor[decimal.Decimal]()
	uuidType    = reflect.TypeFor[uuid.UUID]()
	scannerType = reflect.TypeFor[sql.Scanner]()
)

// isLeafType reports struct types decoded as one field rather than flattened.
func isLeafType(t reflect.Type) bool {
	return t == timeType || t == decimalType || implementsScanner(t)
}

func (m *Mapper) decoderFor(t reflect.Type) (fieldDecoder, error) {
	if v, ok := m.decoderCache.Load(t); ok {
		return v.(fieldDecoder), nil
	}
	fd, err := pickDecoder(t)
	if err != nil {
		return fieldDecoder{}, err
	}
	m.decoderCache.Store(t, fd)
	return fd, nil
}

// pickDecoder chooses the decoder for field type t:
//   - time.Time, decimal.Decimal, uuid.UUID use the builtins;
//   - sql.Scanner implementers receive the payload (and nil for NULL);
//   - pointers decode NULL as nil and otherwise allocate;
//   - primitive kinds, named or not, use the builtin for their width and
//     convert, rejecting values that overflow a narrower kind.
func pickDecoder(t reflect.Type) (fieldDecoder, error) {
	switch t {
	case timeType:
		return erase(Time), nil
	case decimalType:
		return erase(Decimal), nil
	case uuidType:
		return erase(UUID), nil
	}
	if implementsScanner(t) {
		return scannerDecoder(t), nil
	}
	if t.Kind() == reflect.Ptr {
		inner, err := pickDecoder(t.Elem())
		if err != nil {
			return fieldDecoder{}, err
		}
		return pointerDecoder(t, inner), nil
	}

	var base fieldDecoder
	switch t.Kind() {
	case reflect.Bool:
		base = erase(Bool)
	case reflect.Int8, reflect.Int16:
		base = erase(Int16)
	case reflect.Int32:
		base = erase(Int32)
	case reflect.Int, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		base = erase(Int64)
	case reflect.Float32:
		base = erase(Float32)
	case reflect.Float64:
		base = erase(Float64)
	case reflect.String:
		base = erase(String)
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			return fieldDecoder{}, errors.Errorf("unsupported field type %s", t)
		}
		base = erase(Bytes)
	default:
		return fieldDecoder{}, errors.Errorf("unsupported field type %s", t)
	}
	return convertDecoder(t, base), nil
}

func convertDecoder(t reflect.Type, base fieldDecoder) fieldDecoder {
	return fieldDecoder{
		typ: base.typ,
		decode: func(raw RawValue, ok bool) (reflect.Value, error) {
			v, err := base.decode(raw, ok)
			if err != nil {
				return reflect.Value{}, err
			}
			if overflows(t, v) {
				return reflect.Value{}, &ConversionError{
					SQLType: base.typ,
					GoType:  t.String(),
					Value:   fmt.Sprint(v.Interface()),
					Err:     errors.New("value out of range"),
				}
			}
			if v.Type() == t {
				return v, nil
			}
			if isUnsigned(t) {
				out := reflect.New(t).Elem()
				out.SetUint(uint64(v.Int()))
				return out, nil
			}
			return v.Convert(t), nil
		},
	}
}

func overflows(t reflect.Type, v reflect.Value) bool {
	zero := reflect.Zero(t)
	switch {
	case isUnsigned(t):
		n := v.Int()
		return n < 0 || zero.OverflowUint(uint64(n))
	case t.Kind() >= reflect.Int && t.Kind() <= reflect.Int64:
		return zero.OverflowInt(v.Int())
	}
	return false
}

func isUnsigned(t reflect.Type) bool {
	return t.Kind() >= reflect.Uint && t.Kind() <= reflect.Uint64
}

func pointerDecoder(t reflect.Type, inner fieldDecoder) fieldDecoder {
	return fieldDecoder{
		typ: SQLNullable(inner.typ),
		decode: func(raw RawValue, ok bool) (reflect.Value, error) {
			if !ok {
				return reflect.Zero(t), nil
			}
			v, err := inner.decode(raw, true)
			if err != nil {
				return reflect.Value{}, err
			}
			p := reflect.New(t.Elem())
			p.Elem().Set(v)
			return p, nil
		},
	}
}

func scannerDecoder(t reflect.Type) fieldDecoder {
	return fieldDecoder{
		typ: NewSQLType(t.Name()),
		decode: func(raw RawValue, ok bool) (reflect.Value, error) {
			p := reflect.New(t)
			var src any
			if ok {
				src = raw.payload()
			}
			if err := p.Interface().(sql.Scanner).Scan(src); err != nil {
				return reflect.Value{}, &ConversionError{SQLType: NewSQLType(t.Name()), GoType: t.String(), Value: renderValue(src), Err: err}
			}
			return p.Elem(), nil
		},
	}
}

// ---------------- Type helpers ----------------

func isStruct(t reflect.Type) bool { return derefPtr(t).Kind() == reflect.Struct }

func derefPtr(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func implementsScanner(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(scannerType)
}

func fieldTypeByPath(root reflect.Type, fpath []int) reflect.Type {
	t := root
	for _, i := range fpath {
		t = derefPtr(t)
		t = t.Field(i).Type
	}
	return t
}

// fieldByPathAlloc walks fpath, allocating nil embedded pointers so the final
// field is settable.
func fieldByPathAlloc(root reflect.Value, fpath []int) reflect.Value {
	v := root
	for _, i := range fpath {
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

func toLowerAscii(s string) string {
	var need bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			need = true
			break
		}
	}
	if !need {
		return s
	}
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c = c + ('a' - 'A')
		}
		b[i] = c
	}
	return string(b)
}
