package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Rrens/sqlquery-ai/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) database.Adapter {
	t.Helper()

	a := NewAdapter()
	err := a.Connect(context.Background(), database.ConnectionConfig{Database: filepath.Join(t.TempDir(), "shop.db")})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	db := a.(*Adapter).db
	_, err = db.ExecContext(context.Background(), `
		CREATE TABLE customers (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			tier TEXT DEFAULT 'basic'
		)`)
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(), `
		CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(id),
			total REAL
		)`)
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(),
		`INSERT INTO customers (id, name) VALUES (1, 'ada'), (2, 'grace'), (3, 'linus')`)
	require.NoError(t, err)

	return a
}

func TestAdapter_SchemaContext(t *testing.T) {
	a := newTestAdapter(t)

	got, err := a.SchemaContext(context.Background())
	require.NoError(t, err)

	assert.Contains(t, got, "Schema Details:\n")
	assert.Contains(t, got, "Table: customers, Column: name, DataType: TEXT, MaxLength: , IsNullable: NO, DefaultValue: \n")
	assert.Contains(t, got, "Table: customers, Column: tier, DataType: TEXT, MaxLength: , IsNullable: YES, DefaultValue: 'basic'\n")
	assert.Contains(t, got, "\nRelationships:\n")
	assert.Contains(t, got, "ForeignKey: fk_orders_0, ParentTable: orders, ParentColumn: customer_id, ReferencedTable: customers, ReferencedColumn: id\n")
}

func TestAdapter_ExecuteQuery(t *testing.T) {
	a := newTestAdapter(t)

	result, err := a.ExecuteQuery(context.Background(), "SELECT id, name FROM customers ORDER BY id", database.QueryOptions{MaxRows: 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, result.Columns)
	assert.Equal(t, 2, result.RowCount)
	assert.True(t, result.Truncated)
	assert.Equal(t, "ada", result.Rows[0]["name"])
}

func TestAdapter_ExecuteQueryError(t *testing.T) {
	a := newTestAdapter(t)

	_, err := a.ExecuteQuery(context.Background(), "SELECT * FROM missing", database.QueryOptions{})
	assert.Error(t, err)
}

func TestAdapter_ConnectRequiresPath(t *testing.T) {
	err := NewAdapter().Connect(context.Background(), database.ConnectionConfig{})
	assert.EqualError(t, err, "database file path is required")
}
