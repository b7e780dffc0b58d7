package xrow

import (
	"encoding/binary"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

// Builtin decoders. Every one accepts all three payload formats.
var (
	Bool    = NewDecoder(SQLBool, decodeBool)
	Int16   = integer[int16](SQLSmallInt, 2)
	Int32   = integer[int32](SQLInteger, 4)
	Int64   = integer[int64](SQLBigInt, 8)
	Int     = integer[int](SQLBigInt, 8)
	Float32 = float[float32](SQLReal, 4)
	Float64 = float[float64](SQLDouble, 8)
	String  = NewDecoder(SQLText, decodeString)
	Bytes   = NewDecoder(SQLBinary, decodeBytes)
	Time    = NewDecoder(SQLTimestamp, decodeTime)
	Decimal = NewDecoder(SQLNumeric, decodeDecimal)
	UUID    = NewDecoder(SQLUUID, decodeUUID)
)

func errDriverValue(v any) error {
	return errors.Errorf("unexpected driver value of type %T", v)
}

// textOf returns the textual form of a text payload or of a driver string.
func textOf(raw RawValue) (string, error) {
	if raw.backend.format != FormatDriver {
		return string(raw.data), nil
	}
	switch v := raw.value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	return "", errDriverValue(raw.value)
}

func decodeBool(raw RawValue) (bool, error) {
	switch raw.backend.format {
	case FormatBinary:
		if len(raw.data) != 1 {
			return false, convErr[bool](SQLBool, raw, errors.Errorf("binary payload is %d bytes, want 1", len(raw.data)))
		}
		return raw.data[0] != 0, nil
	case FormatDriver:
		switch v := raw.value.(type) {
		case bool:
			return v, nil
		case int64:
			if v == 0 || v == 1 {
				return v == 1, nil
			}
			return false, convErr[bool](SQLBool, v, errors.New("integer boolean must be 0 or 1"))
		}
	}
	s, err := textOf(raw)
	if err != nil {
		return false, convErr[bool](SQLBool, raw, err)
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, convErr[bool](SQLBool, s, err)
	}
	return b, nil
}

func integer[T constraints.Signed](typ SQLType, size int) Decoder[T] {
	return NewDecoder(typ, func(raw RawValue) (T, error) {
		var n int64
		switch {
		case raw.backend.format == FormatBinary:
			b := raw.data
			if len(b) != size {
				return 0, convErr[T](typ, raw, errors.Errorf("binary payload is %d bytes, want %d", len(b), size))
			}
			switch size {
			case 2:
				n = int64(int16(binary.BigEndian.Uint16(b)))
			case 4:
				n = int64(int32(binary.BigEndian.Uint32(b)))
			default:
				n = int64(binary.BigEndian.Uint64(b))
			}
		case raw.backend.format == FormatDriver && isInt64(raw.value):
			n = raw.value.(int64)
		default:
			s, err := textOf(raw)
			if err != nil {
				return 0, convErr[T](typ, raw, err)
			}
			n, err = strconv.ParseInt(s, 10, 64)
			if err != nil {
				return 0, convErr[T](typ, s, err)
			}
		}
		v := T(n)
		if int64(v) != n {
			return 0, convErr[T](typ, n, errors.New("value out of range"))
		}
		return v, nil
	})
}

func isInt64(v any) bool {
	_, ok := v.(int64)
	return ok
}

func float[T constraints.Float](typ SQLType, size int) Decoder[T] {
	bits := size * 8
	return NewDecoder(typ, func(raw RawValue) (T, error) {
		var f float64
		switch raw.backend.format {
		case FormatBinary:
			b := raw.data
			if len(b) != size {
				return 0, convErr[T](typ, raw, errors.Errorf("binary payload is %d bytes, want %d", len(b), size))
			}
			if size == 4 {
				return T(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
			}
			return T(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
		case FormatDriver:
			switch v := raw.value.(type) {
			case float64:
				f = v
			case int64:
				f = float64(v)
			default:
				s, err := textOf(raw)
				if err != nil {
					return 0, convErr[T](typ, raw, err)
				}
				if f, err = strconv.ParseFloat(s, bits); err != nil {
					return 0, convErr[T](typ, s, err)
				}
			}
		default:
			var err error
			if f, err = strconv.ParseFloat(string(raw.data), bits); err != nil {
				return 0, convErr[T](typ, raw, err)
			}
		}
		if bits == 32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return 0, convErr[T](typ, f, errors.New("value out of range"))
		}
		return T(f), nil
	})
}

func decodeString(raw RawValue) (string, error) {
	s, err := textOf(raw)
	if err != nil {
		return "", convErr[string](SQLText, raw, err)
	}
	if !utf8.ValidString(s) {
		return "", convErr[string](SQLText, raw, errors.New("invalid UTF-8"))
	}
	return s, nil
}

func decodeBytes(raw RawValue) ([]byte, error) {
	if raw.backend.format != FormatDriver {
		return append([]byte(nil), raw.data...), nil
	}
	switch v := raw.value.(type) {
	case []byte:
		return append([]byte(nil), v...), nil
	case string:
		return []byte(v), nil
	}
	return nil, convErr[[]byte](SQLBinary, raw, errDriverValue(raw.value))
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.DateOnly,
}

func decodeTime(raw RawValue) (time.Time, error) {
	switch raw.backend.format {
	case FormatBinary:
		if len(raw.data) != 8 {
			return time.Time{}, convErr[time.Time](SQLTimestamp, raw, errors.Errorf("binary payload is %d bytes, want 8", len(raw.data)))
		}
		us := int64(binary.BigEndian.Uint64(raw.data))
		return time.UnixMicro(us + pgEpochMicros).UTC(), nil
	case FormatDriver:
		if t, ok := raw.value.(time.Time); ok {
			return t, nil
		}
	}
	s, err := textOf(raw)
	if err != nil {
		return time.Time{}, convErr[time.Time](SQLTimestamp, raw, err)
	}
	for _, layout := range timeLayouts {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t, nil
		}
	}
	return time.Time{}, convErr[time.Time](SQLTimestamp, s, errors.New("unrecognized timestamp layout"))
}

func decodeDecimal(raw RawValue) (decimal.Decimal, error) {
	switch raw.backend.format {
	case FormatBinary:
		var d decimal.Decimal
		if err := d.UnmarshalBinary(raw.data); err != nil {
			return decimal.Decimal{}, convErr[decimal.Decimal](SQLNumeric, raw, err)
		}
		return d, nil
	case FormatDriver:
		switch v := raw.value.(type) {
		case int64:
			return decimal.New(v, 0), nil
		case float64:
			return decimal.NewFromFloat(v), nil
		}
	}
	s, err := textOf(raw)
	if err != nil {
		return decimal.Decimal{}, convErr[decimal.Decimal](SQLNumeric, raw, err)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, convErr[decimal.Decimal](SQLNumeric, s, err)
	}
	return d, nil
}

func decodeUUID(raw RawValue) (uuid.UUID, error) {
	var (
		u   uuid.UUID
		err error
	)
	switch raw.backend.format {
	case FormatBinary:
		u, err = uuid.FromBytes(raw.data)
	case FormatDriver:
		switch v := raw.value.(type) {
		case []byte:
			if len(v) == 16 {
				u, err = uuid.FromBytes(v)
			} else {
				u, err = uuid.ParseBytes(v)
			}
		case string:
			u, err = uuid.Parse(v)
		default:
			err = errDriverValue(raw.value)
		}
	default:
		u, err = uuid.ParseBytes(raw.data)
	}
	if err != nil {
		return uuid.Nil, convErr[uuid.UUID](SQLUUID, raw, err)
	}
	return u, nil
}
