package sourcedb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"nlsql/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteSource(t *testing.T) *sql.DB {
	t.Helper()

	conn := &models.DatabaseConnection{
		Name:         "test-source",
		DBType:       models.DBTypeSQLite,
		DatabaseName: filepath.Join(t.TempDir(), "source.db"),
	}
	db, err := Open(conn, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE products (
		id INTEGER PRIMARY KEY,
		name VARCHAR(100),
		description TEXT,
		price REAL
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO products (id, name, description, price) VALUES
		(1, 'Widget', 'A small widget', 9.99),
		(2, 'Gadget', 'A shiny gadget', 19.99),
		(3, 'Gizmo', 'A complicated gizmo', 29.99)`)
	require.NoError(t, err)

	return db
}

func TestOpenUnsupportedType(t *testing.T) {
	_, err := Open(&models.DatabaseConnection{DBType: "oracle"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestSQLiteIntrospection(t *testing.T) {
	db := newSQLiteSource(t)
	intro, err := NewIntrospector(db, models.DBTypeSQLite, "")
	require.NoError(t, err)

	ctx := context.Background()

	tables, err := intro.Tables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "products", tables[0].Name)

	cols, err := intro.Columns(ctx, "products")
	require.NoError(t, err)
	require.Len(t, cols, 4)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "INTEGER", cols[0].Type)
	assert.Equal(t, "VARCHAR(100)", cols[1].Type)
	assert.Equal(t, "TEXT", cols[2].Type)

	pk, err := intro.PrimaryKey(ctx, "products")
	require.NoError(t, err)
	assert.Equal(t, "id", pk)

	assert.Equal(t, int64(3), intro.RowEstimate(ctx, "products"))
}

func TestRowEstimateFailureReturnsSentinel(t *testing.T) {
	db := newSQLiteSource(t)
	intro, err := NewIntrospector(db, models.DBTypeSQLite, "")
	require.NoError(t, err)

	assert.Equal(t, int64(-1), intro.RowEstimate(context.Background(), "no_such_table"))
}

func TestFetchBatchPagination(t *testing.T) {
	db := newSQLiteSource(t)
	ctx := context.Background()
	cols := []string{"id", "name", "description"}

	first, err := FetchBatch(ctx, db, models.DBTypeSQLite, "products", "id", cols, 2, 0)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, int64(1), first[0]["id"])
	assert.Equal(t, "Widget", first[0]["name"])
	assert.Equal(t, "A small widget", first[0]["description"])

	second, err := FetchBatch(ctx, db, models.DBTypeSQLite, "products", "id", cols, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "Gizmo", second[0]["name"])

	empty, err := FetchBatch(ctx, db, models.DBTypeSQLite, "products", "id", cols, 2, 4)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFetchBatchNormalizesBytes(t *testing.T) {
	db := newSQLiteSource(t)
	_, err := db.Exec(`CREATE TABLE notes (id INTEGER PRIMARY KEY, body BLOB)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO notes (id, body) VALUES (1, X'68656C6C6F')`)
	require.NoError(t, err)

	records, err := FetchBatch(context.Background(), db, models.DBTypeSQLite, "notes", "id", []string{"id", "body"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0]["body"])
}
