package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/Rrens/sqlquery-ai/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
)

const columnsQuery = `
	SELECT
		c.table_name::text,
		c.column_name::text,
		c.data_type::text,
		c.character_maximum_length::bigint,
		c.is_nullable::text,
		c.column_default::text
	FROM information_schema.columns c
	WHERE c.table_schema NOT IN ('pg_catalog', 'information_schema')
	ORDER BY c.table_schema, c.table_name, c.ordinal_position`

const relationshipsQuery = `
	SELECT
		tc.constraint_name::text,
		kcu.table_name::text,
		kcu.column_name::text,
		ccu.table_name::text,
		ccu.column_name::text
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
	  ON tc.constraint_name = kcu.constraint_name
	 AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage ccu
	  ON tc.constraint_name = ccu.constraint_name
	 AND tc.table_schema = ccu.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
	ORDER BY kcu.table_name, ccu.table_name`

// Adapter implements database.Adapter for PostgreSQL
type Adapter struct {
	pool *pgxpool.Pool
}

// NewAdapter creates a new PostgreSQL adapter
func NewAdapter() database.Adapter {
	return &Adapter{}
}

// DatabaseType returns the database type identifier
func (a *Adapter) DatabaseType() string {
	return "postgres"
}

// Connect establishes connection to PostgreSQL
func (a *Adapter) Connect(ctx context.Context, config database.ConnectionConfig) error {
	poolConfig, err := pgxpool.ParseConfig(DSN(config))
	if err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping: %w", err)
	}

	a.pool = pool
	return nil
}

// DSN builds a postgres:// URL, escaping credentials
func DSN(config database.ConnectionConfig) string {
	sslMode := config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(config.Username, config.Password),
		Host:     config.Host,
		Path:     "/" + config.Database,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	if config.Port > 0 {
		u.Host = net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	}
	return u.String()
}

// Close closes the connection
func (a *Adapter) Close() error {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return nil
}

// HealthCheck verifies connection is alive
func (a *Adapter) HealthCheck(ctx context.Context) error {
	if a.pool == nil {
		return database.ErrNotConnected
	}
	return a.pool.Ping(ctx)
}

// SchemaContext renders information_schema columns and foreign keys
func (a *Adapter) SchemaContext(ctx context.Context) (string, error) {
	if a.pool == nil {
		return "", database.ErrNotConnected
	}

	rows, err := a.pool.Query(ctx, columnsQuery)
	if err != nil {
		return "", fmt.Errorf("failed to get schema: %w", err)
	}

	var columns []database.Column
	for rows.Next() {
		var c database.Column
		if err := rows.Scan(&c.Table, &c.Name, &c.DataType, &c.MaxLength, &c.IsNullable, &c.DefaultValue); err != nil {
			rows.Close()
			return "", fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("column iteration error: %w", err)
	}

	relRows, err := a.pool.Query(ctx, relationshipsQuery)
	if err != nil {
		return "", fmt.Errorf("failed to get relationships: %w", err)
	}
	defer relRows.Close()

	var relationships []database.Relationship
	for relRows.Next() {
		var r database.Relationship
		if err := relRows.Scan(&r.ForeignKey, &r.ParentTable, &r.ParentColumn, &r.ReferencedTable, &r.ReferencedColumn); err != nil {
			return "", fmt.Errorf("failed to scan relationship: %w", err)
		}
		relationships = append(relationships, r)
	}
	if err := relRows.Err(); err != nil {
		return "", fmt.Errorf("relationship iteration error: %w", err)
	}

	return database.RenderSchemaContext(columns, relationships), nil
}

// ExecuteQuery executes sql as given
func (a *Adapter) ExecuteQuery(ctx context.Context, sql string, opts database.QueryOptions) (*database.QueryResult, error) {
	if a.pool == nil {
		return nil, database.ErrNotConnected
	}

	ctx, cancel := database.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	rows, err := a.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = fd.Name
	}

	result, err := database.CollectRows(columns, opts.MaxRows, func() ([]any, bool, error) {
		if !rows.Next() {
			return nil, false, nil
		}
		values, err := rows.Values()
		if err != nil {
			return nil, false, fmt.Errorf("failed to get row values: %w", err)
		}
		return values, true, nil
	})
	if err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}
