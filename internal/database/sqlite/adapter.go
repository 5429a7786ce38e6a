package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Rrens/sqlquery-ai/internal/database"
	_ "modernc.org/sqlite"
)

const columnsQuery = `
	SELECT
		m.name,
		p.name,
		p.type,
		NULL,
		CASE WHEN p."notnull" = 0 THEN 'YES' ELSE 'NO' END,
		p.dflt_value
	FROM sqlite_master m
	JOIN pragma_table_info(m.name) p
	WHERE m.type = 'table'
	  AND m.name NOT LIKE 'sqlite_%'
	ORDER BY m.name, p.cid`

// SQLite foreign keys are unnamed; the key name is synthesized from table and id.
const relationshipsQuery = `
	SELECT
		'fk_' || m.name || '_' || f.id,
		m.name,
		f."from",
		f."table",
		COALESCE(f."to", '')
	FROM sqlite_master m
	JOIN pragma_foreign_key_list(m.name) f
	WHERE m.type = 'table'
	  AND m.name NOT LIKE 'sqlite_%'
	ORDER BY m.name, f."table"`

// Adapter implements database.Adapter for SQLite
type Adapter struct {
	db *sql.DB
}

// NewAdapter creates a new SQLite adapter
func NewAdapter() database.Adapter {
	return &Adapter{}
}

// DatabaseType returns the database type identifier
func (a *Adapter) DatabaseType() string {
	return "sqlite"
}

// Connect opens the database file named by config.Database
func (a *Adapter) Connect(ctx context.Context, config database.ConnectionConfig) error {
	dbPath := config.Database
	if dbPath == "" {
		return fmt.Errorf("database file path is required")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
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

// SchemaContext renders table_info and foreign_key_list pragmas for every table
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
