package xrow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID   int64
	Name string
}

func TestT2_DecodesTupleAndAdapts(t *testing.T) {
	row := textRecord(t, []string{"id", "name"}, int64(1), "Sean")

	tup, err := T2(Int64, String).DecodeRow(row)
	require.NoError(t, err)
	assert.Equal(t, Tuple2[int64, string]{V0: 1, V1: "Sean"}, tup)

	people := NewQueryable(T2(Int64, String), func(in Tuple2[int64, string]) person {
		return person{ID: in.V0, Name: in.V1}
	})
	p, err := people.BuildFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, person{ID: 1, Name: "Sean"}, p)
}

func TestComposite_EmptyRow(t *testing.T) {
	_, err := T2(Int64, String).DecodeRow(textRecord(t, nil))
	require.ErrorIs(t, err, ErrUnexpectedEndOfRow)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 0, fe.Position)
}

func TestComposite_ShortRowFailsAtFirstMissingPosition(t *testing.T) {
	row := textRecord(t, []string{"id"}, int64(1))
	got, err := T3(Int64, String, Bool).DecodeRow(row)
	require.ErrorIs(t, err, ErrUnexpectedEndOfRow)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Position)
	assert.Zero(t, got)
}

func TestComposite_WiderRowUsesLeadingFields(t *testing.T) {
	row := textRecord(t, []string{"id", "name", "extra", "more"}, int64(4), "Ada", true, "x")
	got, err := T2(Int64, String).DecodeRow(row)
	require.NoError(t, err)
	assert.Equal(t, Tuple2[int64, string]{V0: 4, V1: "Ada"}, got)
}

func TestComposite_NestedTuples(t *testing.T) {
	shape := T2(T2(Int64, String), Nullable(Bool))
	assert.Equal(t, 3, shape.FieldCount())
	assert.Equal(t, "Record<Record<BigInt, Text>, Nullable<Bool>>", shape.SQLType().String())

	row := textRecord(t, []string{"id", "name", "ok"}, int64(2), "Bo", nil)
	got, err := shape.DecodeRow(row)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.V0.V0)
	assert.Equal(t, "Bo", got.V0.V1)
	assert.Nil(t, got.V1)

	// positions reported by nested slots are absolute
	_, err = T2(Bool, T2(Int64, String)).DecodeRow(textRecord(t, []string{"a", "b"}, true, int64(1)))
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Position)
	require.ErrorIs(t, err, ErrUnexpectedEndOfRow)
}

func TestComposite_ShortCircuitsOnFirstFailure(t *testing.T) {
	calls := 0
	counting := Map(String, func(s string) (string, error) {
		calls++
		return s, nil
	})
	row := textRecord(t, []string{"id", "name"}, "not-a-number", "x")
	got, err := T2(Int64, counting).DecodeRow(row)

	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "id", fe.Column)
	assert.Equal(t, 0, calls)
	assert.Zero(t, got)
}

func TestComposite_StructSlots(t *testing.T) {
	c := NewComposite[person]()
	Col(c, Int64, func(p *person) *int64 { return &p.ID })
	Col(c, String, func(p *person) *string { return &p.Name })

	got, err := c.DecodeRow(textRecord(t, nil, int64(10), "Lin"))
	require.NoError(t, err)
	assert.Equal(t, person{ID: 10, Name: "Lin"}, got)
	assert.Equal(t, 2, c.FieldCount())
}

func TestComposite_WideTuple(t *testing.T) {
	shape := T8(Int16, Int32, Int64, Float32, Float64, String, Bool, Bytes)
	assert.Equal(t, 8, shape.SQLType().FieldCount())

	row, err := NewRecord(Binary, nil, int16(1), int32(2), int64(3), float32(4.5), 5.25, "six", true, []byte{7})
	require.NoError(t, err)
	got, err := shape.DecodeRow(row)
	require.NoError(t, err)
	assert.Equal(t, Tuple8[int16, int32, int64, float32, float64, string, bool, []byte]{
		V0: 1, V1: 2, V2: 3, V3: 4.5, V4: 5.25, V5: "six", V6: true, V7: []byte{7},
	}, got)
}

func TestComposite_Idempotent(t *testing.T) {
	row := textRecord(t, []string{"id", "name"}, int64(1), "Sean")
	shape := T2(Int64, String)
	a, err := shape.DecodeRow(row)
	require.NoError(t, err)
	b, err := shape.DecodeRow(row)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComposite_ConcurrentRows(t *testing.T) {
	shape := T2(Int64, String)
	var wg sync.WaitGroup
	errs := make([]error, 32)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			row, err := NewRecord(Driver, nil, int64(i), "n")
			if err != nil {
				errs[i] = err
				return
			}
			got, err := shape.DecodeRow(row)
			if err == nil && got.V0 != int64(i) {
				err = assert.AnError
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestSQLType(t *testing.T) {
	assert.True(t, SQLText.IsSingle())
	assert.Equal(t, 1, SQLText.FieldCount())
	assert.Nil(t, SQLText.Fields())

	rec := SQLRecord(SQLBigInt, SQLRecord(SQLText, SQLBool))
	assert.False(t, rec.IsSingle())
	assert.Equal(t, 3, rec.FieldCount())
	assert.Len(t, rec.Fields(), 2)
	assert.Equal(t, rec, SQLNullable(rec))
	assert.Equal(t, 0, SQLRecord().FieldCount())
	assert.Equal(t, "Untyped", SQLType{}.String())
	assert.Equal(t, "Mood", NewSQLType("Mood").String())
}
