package xrow

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_SuccessStruct(t *testing.T) {
	db := staticDB(t, []string{"id", "name"}, []driver.Value{int64(7), []byte("alice")})

	b, err := ByColumn[queryRow]()
	require.NoError(t, err)
	got, err := Get(context.Background(), db, b, "ok")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.ID != 7 || got.Name != "alice" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGet_FirstRowOnly(t *testing.T) {
	db := staticDB(t, []string{"n"}, []driver.Value{int64(1)}, []driver.Value{"not a number"})

	got, err := Get(context.Background(), db, Identity(Int64), "q")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestGet_QueryError(t *testing.T) {
	wantErr := errors.New("boom")
	db := newFakeDB(t, func(string, []driver.NamedValue) (fakeResult, error) {
		return fakeResult{}, wantErr
	})

	_, err := Get(context.Background(), db, Identity(Int64), "any")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestGet_NoRows_ReturnsErrNoRows(t *testing.T) {
	db := staticDB(t, []string{"id"})

	_, err := Get(context.Background(), db, Identity(Int64), "empty")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGet_NextError_SurfacedViaRowsErr(t *testing.T) {
	db := newFakeDB(t, func(string, []driver.NamedValue) (fakeResult, error) {
		return fakeResult{cols: []string{"a"}, nextErr: errors.New("driver next error")}, nil
	})

	_, err := Get(context.Background(), db, Identity(Int64), "ignored")
	if err == nil || err.Error() != "driver next error" {
		t.Fatalf("expected driver next error, got %v", err)
	}
}

func TestGet_CloseErrorPropagated(t *testing.T) {
	closeErr := errors.New("close failed")
	db := newFakeDB(t, func(string, []driver.NamedValue) (fakeResult, error) {
		return fakeResult{cols: []string{"n"}, data: [][]driver.Value{{int64(1)}}, closeErr: closeErr}, nil
	})

	_, err := Get(context.Background(), db, Identity(Int64), "q")
	assert.ErrorIs(t, err, closeErr)
}

func TestGet_DecodeError(t *testing.T) {
	db := staticDB(t, []string{"id", "name"}, []driver.Value{int64(7), nil})

	got, err := Get(context.Background(), db, Identity(T2(Int64, String)), "q")
	require.ErrorIs(t, err, ErrUnexpectedNull)
	assert.Contains(t, err.Error(), "xrow: row 0")
	assert.Zero(t, got)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Position)
	assert.Equal(t, "name", fe.Column)
}

func TestGet_StrictWidthShortResult(t *testing.T) {
	useMapper(t, NewMapper(WithStrictWidth()))
	db := staticDB(t, []string{"id"}, []driver.Value{int64(7)})

	b, err := Positional[queryRow]()
	require.NoError(t, err)
	_, err = Get(context.Background(), db, b, "q")
	var we *WidthError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "xrow.queryRow", we.Type)
}

func TestGet_ShortResultWithoutStrictWidth(t *testing.T) {
	db := staticDB(t, []string{"id"}, []driver.Value{int64(7)})

	b, err := Positional[queryRow]()
	require.NoError(t, err)
	_, err = Get(context.Background(), db, b, "q")
	assert.ErrorIs(t, err, ErrUnexpectedEndOfRow)
}

func TestGet_UsesLazyMapperSingleton(t *testing.T) {
	before := getMapper()
	db := staticDB(t, []string{"n"}, []driver.Value{int64(1)})

	_, err := Get(context.Background(), db, Identity(Int64), "one")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if after := getMapper(); after == nil || before != after {
		t.Fatal("lazy mapper singleton not stable across Get")
	}
}
