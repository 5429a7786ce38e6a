package database

import (
	"context"
	"errors"
	"time"

	"github.com/Rrens/sqlquery-ai/internal/config"
)

// ErrNotConnected is returned by adapters used before Connect or after Close
var ErrNotConnected = errors.New("not connected")

// QueryResult contains query execution result
type QueryResult struct {
	Columns   []string         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	RowCount  int              `json:"row_count"`
	Truncated bool             `json:"truncated"`
}

// ConnectionConfig contains database connection parameters
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string
}

// QueryOptions contains query execution options. MaxRows <= 0 means no row cap.
type QueryOptions struct {
	MaxRows int
	Timeout time.Duration
}

// ConnectionConfigFrom maps the database config section onto adapter parameters
func ConnectionConfigFrom(cfg config.DatabaseConfig) ConnectionConfig {
	return ConnectionConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Database: cfg.Database,
		Username: cfg.User,
		Password: cfg.Password,
		SSLMode:  cfg.SSLMode,
	}
}

// QueryOptionsFrom maps the database config section onto execution options
func QueryOptionsFrom(cfg config.DatabaseConfig) QueryOptions {
	return QueryOptions{MaxRows: cfg.MaxRows, Timeout: cfg.QueryTimeout}
}

// Adapter defines the interface for database adapters
type Adapter interface {
	// DatabaseType returns the database type identifier (sqlserver, postgres, mysql, sqlite)
	DatabaseType() string

	// Connect establishes connection to database
	Connect(ctx context.Context, config ConnectionConfig) error

	// Close closes the connection
	Close() error

	// HealthCheck verifies connection is alive
	HealthCheck(ctx context.Context) error

	// SchemaContext renders columns and foreign keys as the text handed to providers
	SchemaContext(ctx context.Context) (string, error)

	// ExecuteQuery runs sql as given and collects the result set
	ExecuteQuery(ctx context.Context, sql string, opts QueryOptions) (*QueryResult, error)
}

// AdapterFactory creates a new adapter instance
type AdapterFactory func() Adapter

// WithTimeout bounds ctx by timeout when it is positive
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}
