package sqlserver

import (
	"context"
	"net/url"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Rrens/sqlquery-ai/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN(database.ConnectionConfig{
		Host:     "db.internal",
		Port:     1433,
		Database: "Northwind",
		Username: "sa",
		Password: "p@ss word",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", u.Scheme)
	assert.Equal(t, "db.internal:1433", u.Host)
	assert.Equal(t, "sa", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word", pw)
	assert.Equal(t, "Northwind", u.Query().Get("database"))
	assert.Equal(t, "disable", u.Query().Get("encrypt"))

	u, err = url.Parse(DSN(database.ConnectionConfig{Host: "db", SSLMode: "require"}))
	require.NoError(t, err)
	assert.Equal(t, "true", u.Query().Get("encrypt"))
	assert.Equal(t, "db", u.Host)
}

func TestAdapter_SchemaContext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM INFORMATION_SCHEMA.COLUMNS")).
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME", "COLUMN_NAME", "DATA_TYPE", "CHARACTER_MAXIMUM_LENGTH", "IS_NULLABLE", "COLUMN_DEFAULT"}).
			AddRow("Customers", "Id", "int", nil, "NO", nil).
			AddRow("Orders", "CustomerId", "int", nil, "NO", nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM sys.foreign_keys")).
		WillReturnRows(sqlmock.NewRows([]string{"ForeignKeyName", "ParentTable", "ParentColumn", "ReferencedTable", "ReferencedColumn"}).
			AddRow("FK_Orders_Customers", "Orders", "CustomerId", "Customers", "Id"))

	a := &Adapter{db: db}
	got, err := a.SchemaContext(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Schema Details:\n"+
		"Table: Customers, Column: Id, DataType: int, MaxLength: , IsNullable: NO, DefaultValue: \n"+
		"Table: Orders, Column: CustomerId, DataType: int, MaxLength: , IsNullable: NO, DefaultValue: \n"+
		"\nRelationships:\n"+
		"ForeignKey: FK_Orders_Customers, ParentTable: Orders, ParentColumn: CustomerId, ReferencedTable: Customers, ReferencedColumn: Id\n", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ExecuteQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT TOP 10 * FROM Customers")).
		WillReturnRows(sqlmock.NewRows([]string{"Id", "Name"}).AddRow(int64(1), "Alfreds"))

	a := &Adapter{db: db}
	result, err := a.ExecuteQuery(context.Background(), "SELECT TOP 10 * FROM Customers", database.QueryOptions{MaxRows: 100})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"Id": int64(1), "Name": "Alfreds"}}, result.Rows)
}

func TestAdapter_NotConnected(t *testing.T) {
	a := NewAdapter()
	assert.Equal(t, "sqlserver", a.DatabaseType())
	assert.ErrorIs(t, a.HealthCheck(context.Background()), database.ErrNotConnected)

	_, err := a.SchemaContext(context.Background())
	assert.ErrorIs(t, err, database.ErrNotConnected)

	_, err = a.ExecuteQuery(context.Background(), "SELECT 1", database.QueryOptions{})
	assert.ErrorIs(t, err, database.ErrNotConnected)

	assert.NoError(t, a.Close())
}
