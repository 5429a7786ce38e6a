package sqlserver

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Rrens/sqlquery-ai/internal/database"
	_ "github.com/microsoft/go-mssqldb"
)

const columnsQuery = `
	SELECT
		TABLE_NAME,
		COLUMN_NAME,
		DATA_TYPE,
		CHARACTER_MAXIMUM_LENGTH,
		IS_NULLABLE,
		COLUMN_DEFAULT
	FROM INFORMATION_SCHEMA.COLUMNS
	WHERE TABLE_SCHEMA != 'sys'
	ORDER BY TABLE_SCHEMA, TABLE_NAME, ORDINAL_POSITION`

const relationshipsQuery = `
	SELECT
		fk.name AS ForeignKeyName,
		tp.name AS ParentTable,
		cp.name AS ParentColumn,
		tr.name AS ReferencedTable,
		cr.name AS ReferencedColumn
	FROM sys.foreign_keys AS fk
	INNER JOIN sys.foreign_key_columns AS fkc ON fk.object_id = fkc.constraint_object_id
	INNER JOIN sys.tables AS tp ON fkc.parent_object_id = tp.object_id
	INNER JOIN sys.columns AS cp ON fkc.parent_object_id = cp.object_id AND fkc.parent_column_id = cp.column_id
	INNER JOIN sys.tables AS tr ON fkc.referenced_object_id = tr.object_id
	INNER JOIN sys.columns AS cr ON fkc.referenced_object_id = cr.object_id AND fkc.referenced_column_id = cr.column_id
	ORDER BY ParentTable, ReferencedTable`

// Adapter implements database.Adapter for SQL Server
type Adapter struct {
	db *sql.DB
}

// NewAdapter creates a new SQL Server adapter
func NewAdapter() database.Adapter {
	return &Adapter{}
}

// DatabaseType returns the database type identifier
func (a *Adapter) DatabaseType() string {
	return "sqlserver"
}

// DSN builds a go-mssqldb connection URL
func DSN(config database.ConnectionConfig) string {
	query := url.Values{}
	if config.Database != "" {
		query.Set("database", config.Database)
	}
	switch config.SSLMode {
	case "", "disable":
		query.Set("encrypt", "disable")
	case "require":
		query.Set("encrypt", "true")
		query.Set("TrustServerCertificate", "true")
	default:
		query.Set("encrypt", "true")
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(config.Username, config.Password),
		Host:     config.Host,
		RawQuery: query.Encode(),
	}
	if config.Port > 0 {
		u.Host = config.Host + ":" + strconv.Itoa(config.Port)
	}
	return u.String()
}

// Connect establishes connection to SQL Server
func (a *Adapter) Connect(ctx context.Context, config database.ConnectionConfig) error {
	db, err := sql.Open("sqlserver", DSN(config))
	if err != nil {
		return fmt.Errorf("failed to open connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping: %w", err)
	}

	a.db = db
	return nil
}

// Close closes the connection
func (a *Adapter) Close() error {
	if a.db != nil {
		err := a.db.Close()
		a.db = nil
		return err
	}
	return nil
}

// HealthCheck verifies connection is alive
func (a *Adapter) HealthCheck(ctx context.Context) error {
	if a.db == nil {
		return database.ErrNotConnected
	}
	return a.db.PingContext(ctx)
}

// SchemaContext renders INFORMATION_SCHEMA columns and sys.foreign_keys
func (a *Adapter) SchemaContext(ctx context.Context) (string, error) {
	if a.db == nil {
		return "", database.ErrNotConnected
	}
	return database.QuerySchemaContext(ctx, a.db, columnsQuery, relationshipsQuery)
}

// ExecuteQuery executes sql as given
func (a *Adapter) ExecuteQuery(ctx context.Context, sql string, opts database.QueryOptions) (*database.QueryResult, error) {
	if a.db == nil {
		return nil, database.ErrNotConnected
	}
	return database.ExecuteSQL(ctx, a.db, sql, opts)
}
