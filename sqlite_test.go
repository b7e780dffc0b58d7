package xrow

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

type product struct {
	ID    int64           `db:"id"`
	Name  string          `db:"name"`
	Price decimal.Decimal `db:"price"`
	Stock *int32          `db:"stock"`
	Ratio float64         `db:"ratio"`
	Blob  []byte          `db:"blob"`
}

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE products (
		id    INTEGER PRIMARY KEY,
		name  TEXT NOT NULL,
		price TEXT NOT NULL,
		stock INTEGER,
		ratio REAL NOT NULL,
		blob  BLOB NOT NULL
	)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO products (id, name, price, stock, ratio, blob) VALUES
		(1, 'lamp', '19.99', 4, 0.5, x'0102'),
		(2, 'desk', '120.00', NULL, 1.25, x'ff')`)
	require.NoError(t, err)
	return db
}

func TestSQLite_Positional(t *testing.T) {
	db := openSQLite(t)
	b, err := Positional[product]()
	require.NoError(t, err)

	got, err := Query(context.Background(), db, b,
		`SELECT id, name, price, stock, ratio, blob FROM products ORDER BY id`)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "lamp", got[0].Name)
	assert.Equal(t, "19.99", got[0].Price.String())
	require.NotNil(t, got[0].Stock)
	assert.Equal(t, int32(4), *got[0].Stock)
	assert.Equal(t, 0.5, got[0].Ratio)
	assert.Equal(t, []byte{1, 2}, got[0].Blob)

	assert.Nil(t, got[1].Stock)
	assert.Equal(t, []byte{0xff}, got[1].Blob)
	assert.True(t, got[1].Price.Equal(decimal.New(120, 0)))
}

func TestSQLite_ByColumnReordered(t *testing.T) {
	db := openSQLite(t)
	b, err := ByColumn[product]()
	require.NoError(t, err)

	got, err := Get(context.Background(), db, b,
		`SELECT blob, ratio, stock, price, name, id FROM products WHERE id = ?`, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, "desk", got.Name)
	assert.Equal(t, 1.25, got.Ratio)
	assert.Nil(t, got.Stock)
}

func TestSQLite_TupleAndAdapter(t *testing.T) {
	db := openSQLite(t)
	type label struct {
		ID   int64
		Text string
	}
	labels := NewQueryable(T2(Int64, String), func(in Tuple2[int64, string]) label {
		return label{ID: in.V0, Text: in.V1}
	})

	got, err := Query(context.Background(), db, labels, `SELECT id, upper(name) FROM products ORDER BY id`)
	require.NoError(t, err)
	assert.Equal(t, []label{{1, "LAMP"}, {2, "DESK"}}, got)
}

func TestSQLite_NullIntoNonNullable(t *testing.T) {
	db := openSQLite(t)

	_, err := Query(context.Background(), db, Identity(Int32), `SELECT stock FROM products ORDER BY id`)
	require.ErrorIs(t, err, ErrUnexpectedNull)
	assert.Contains(t, err.Error(), "xrow: row 1")

	got, err := Query(context.Background(), db, Identity(Null(Int32)), `SELECT stock FROM products ORDER BY id`)
	require.NoError(t, err)
	assert.Equal(t, []sql.Null[int32]{{V: 4, Valid: true}, {}}, got)
}

func TestSQLite_ConversionError(t *testing.T) {
	db := openSQLite(t)

	_, err := Get(context.Background(), db, Identity(Int64), `SELECT name FROM products WHERE id = 1`)
	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, SQLBigInt, ce.SQLType)
	assert.Equal(t, `"lamp"`, ce.Value)
}

func TestSQLite_MissingColumn(t *testing.T) {
	db := openSQLite(t)
	b, err := ByColumn[product]()
	require.NoError(t, err)

	_, err = Get(context.Background(), db, b, `SELECT id, name FROM products WHERE id = 1`)
	require.ErrorIs(t, err, ErrColumnNotFound)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "price", fe.Column)
}
