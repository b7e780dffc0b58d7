package xrow

import (
	"database/sql/driver"
	"encoding/binary"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Format is the framing a backend uses for field payloads.
type Format uint8

const (
	// FormatText payloads are the textual rendering of the value.
	FormatText Format = iota
	// FormatBinary payloads are fixed-width, network byte order values.
	// Timestamps are microseconds since 2000-01-01 UTC.
	FormatBinary
	// FormatDriver payloads are values already converted by a database/sql
	// driver (int64, float64, bool, []byte, string, time.Time).
	FormatDriver
)

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatBinary:
		return "binary"
	case FormatDriver:
		return "driver"
	default:
		return "format(" + strconv.Itoa(int(f)) + ")"
	}
}

// Backend identifies the encoding dialect that produced a RawValue.
type Backend struct {
	name   string
	format Format
}

var (
	Text   = NewBackend("text", FormatText)
	Binary = NewBackend("binary", FormatBinary)
	Driver = NewBackend("driver", FormatDriver)
)

// NewBackend names a dialect that frames its payloads as f.
func NewBackend(name string, f Format) Backend { return Backend{name: name, format: f} }

func (b Backend) Name() string   { return b.name }
func (b Backend) Format() Format { return b.format }
func (b Backend) String() string { return b.name }

// RawValue is one present field payload. Decoders read Bytes for text and
// binary backends and Driver for the driver backend.
type RawValue struct {
	backend Backend
	data    []byte
	value   driver.Value
}

// NewRawValue wraps a text or binary payload produced by b.
func NewRawValue(b Backend, data []byte) RawValue {
	return RawValue{backend: b, data: data}
}

// DriverValue wraps a value produced by a database/sql driver.
func DriverValue(v driver.Value) RawValue {
	return RawValue{backend: Driver, value: v}
}

func (r RawValue) Backend() Backend     { return r.backend }
func (r RawValue) Bytes() []byte        { return r.data }
func (r RawValue) Driver() driver.Value { return r.value }

func (r RawValue) payload() any {
	if r.backend.format == FormatDriver {
		return r.value
	}
	return r.data
}

var pgEpochMicros = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).UnixMicro()

// Encode renders v the way backend b would put it on the wire. It covers the
// Go types the builtin decoders produce, plus unsigned integers, which are
// framed as BigInt and must fit in an int64.
//
// Binary timestamps are microseconds since 2000-01-01 UTC: the zone is not
// kept (decoding yields the same instant in UTC) and a time.Time with
// sub-microsecond precision is rejected.
func (b Backend) Encode(v any) (RawValue, error) {
	if v == nil {
		return RawValue{}, errors.New("xrow: encode: nil has no payload, use a NULL field")
	}
	switch b.format {
	case FormatDriver:
		dv, err := driver.DefaultParameterConverter.ConvertValue(v)
		if err != nil {
			return RawValue{}, errors.Wrapf(err, "xrow: encode %T", v)
		}
		return RawValue{backend: b, value: dv}, nil
	case FormatBinary:
		data, err := encodeBinary(v)
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{backend: b, data: data}, nil
	default:
		data, err := encodeText(v)
		if err != nil {
			return RawValue{}, err
		}
		return RawValue{backend: b, data: data}, nil
	}
}

// unsignedBigInt reports whether v is an unsigned integer and, if so, its
// value as an int64.
func unsignedBigInt(v any) (int64, bool, error) {
	var u uint64
	switch x := v.(type) {
	case uint:
		u = uint64(x)
	case uint8:
		u = uint64(x)
	case uint16:
		u = uint64(x)
	case uint32:
		u = uint64(x)
	case uint64:
		u = x
	default:
		return 0, false, nil
	}
	if u > math.MaxInt64 {
		return 0, true, errors.Errorf("xrow: encode: %T value %d overflows BigInt", v, u)
	}
	return int64(u), true, nil
}

func encodeText(v any) ([]byte, error) {
	if n, ok, err := unsignedBigInt(v); ok {
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(nil, n, 10), nil
	}
	switch x := v.(type) {
	case bool:
		if x {
			return []byte("t"), nil
		}
		return []byte("f"), nil
	case int:
		return strconv.AppendInt(nil, int64(x), 10), nil
	case int8:
		return strconv.AppendInt(nil, int64(x), 10), nil
	case int16:
		return strconv.AppendInt(nil, int64(x), 10), nil
	case int32:
		return strconv.AppendInt(nil, int64(x), 10), nil
	case int64:
		return strconv.AppendInt(nil, x, 10), nil
	case float32:
		return strconv.AppendFloat(nil, float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.AppendFloat(nil, x, 'g', -1, 64), nil
	case string:
		return []byte(x), nil
	case []byte:
		return append([]byte(nil), x...), nil
	case time.Time:
		return []byte(x.Format(time.RFC3339Nano)), nil
	case decimal.Decimal:
		return []byte(x.String()), nil
	case uuid.UUID:
		return []byte(x.String()), nil
	}
	return nil, errors.Errorf("xrow: encode: unsupported type %T for text backend", v)
}

func encodeBinary(v any) ([]byte, error) {
	if n, ok, err := unsignedBigInt(v); ok {
		if err != nil {
			return nil, err
		}
		return binary.BigEndian.AppendUint64(nil, uint64(n)), nil
	}
	switch x := v.(type) {
	case bool:
		if x {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case int8:
		return binary.BigEndian.AppendUint16(nil, uint16(x)), nil
	case int16:
		return binary.BigEndian.AppendUint16(nil, uint16(x)), nil
	case int32:
		return binary.BigEndian.AppendUint32(nil, uint32(x)), nil
	case int:
		return binary.BigEndian.AppendUint64(nil, uint64(x)), nil
	case int64:
		return binary.BigEndian.AppendUint64(nil, uint64(x)), nil
	case float32:
		return binary.BigEndian.AppendUint32(nil, math.Float32bits(x)), nil
	case float64:
		return binary.BigEndian.AppendUint64(nil, math.Float64bits(x)), nil
	case string:
		return []byte(x), nil
	case []byte:
		return append([]byte(nil), x...), nil
	case time.Time:
		if x.Nanosecond()%1000 != 0 {
			return nil, errors.Errorf("xrow: encode: %s has sub-microsecond precision for binary backend", x.Format(time.RFC3339Nano))
		}
		return binary.BigEndian.AppendUint64(nil, uint64(x.UnixMicro()-pgEpochMicros)), nil
	case decimal.Decimal:
		return x.MarshalBinary()
	case uuid.UUID:
		return append([]byte(nil), x[:]...), nil
	}
	return nil, errors.Errorf("xrow: encode: unsupported type %T for binary backend", v)
}
