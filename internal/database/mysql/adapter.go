package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"

	"github.com/Rrens/sqlquery-ai/internal/database"
	driver "github.com/go-sql-driver/mysql"
)

const columnsQuery = `
	SELECT
		table_name,
		column_name,
		data_type,
		character_maximum_length,
		is_nullable,
		column_default
	FROM information_schema.columns
	WHERE table_schema = ?
	ORDER BY table_name, ordinal_position`

const relationshipsQuery = `
	SELECT
		constraint_name,
		table_name,
		column_name,
		referenced_table_name,
		referenced_column_name
	FROM information_schema.key_column_usage
	WHERE table_schema = ?
	  AND referenced_table_name IS NOT NULL
	ORDER BY table_name, referenced_table_name`

// Adapter implements database.Adapter for MySQL
type Adapter struct {
	db       *sql.DB
	database string
}

// NewAdapter creates a new MySQL adapter
func NewAdapter() database.Adapter {
	return &Adapter{}
}

// DatabaseType returns the database type identifier
func (a *Adapter) DatabaseType() string {
	return "mysql"
}

// Connect establishes connection to MySQL
func (a *Adapter) Connect(ctx context.Context, config database.ConnectionConfig) error {
	db, err := sql.Open("mysql", DSN(config))
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
	a.database = config.Database
	return nil
}

// DSN builds a go-sql-driver DSN; the driver supplies port 3306 when Port is zero
func DSN(config database.ConnectionConfig) string {
	cfg := driver.NewConfig()
	cfg.User = config.Username
	cfg.Passwd = config.Password
	cfg.Net = "tcp"
	cfg.Addr = config.Host
	if config.Port > 0 {
		cfg.Addr = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	}
	cfg.DBName = config.Database
	cfg.ParseTime = true
	if config.SSLMode == "require" || config.SSLMode == "verify-full" {
		cfg.TLSConfig = "true"
	}
	return cfg.FormatDSN()
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

// SchemaContext renders the columns and foreign keys of the connected schema
func (a *Adapter) SchemaContext(ctx context.Context) (string, error) {
	if a.db == nil {
		return "", database.ErrNotConnected
	}
	return database.QuerySchemaContext(ctx, a.db, columnsQuery, relationshipsQuery, a.database)
}

// ExecuteQuery executes sql as given
func (a *Adapter) ExecuteQuery(ctx context.Context, sql string, opts database.QueryOptions) (*database.QueryResult, error) {
	if a.db == nil {
		return nil, database.ErrNotConnected
	}
	return database.ExecuteSQL(ctx, a.db, sql, opts)
}
