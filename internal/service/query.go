package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/sqlquery-ai/internal/database"
	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyPrompt = errors.New("prompt is required")
	ErrEmptyQuery  = errors.New("query is required")
)

// AdapterSource hands out connected database adapters
type AdapterSource interface {
	GetAdapter(ctx context.Context, dbType string, config database.ConnectionConfig) (database.Adapter, error)
}

// SchemaCache stores rendered schema context text
type SchemaCache interface {
	Get(ctx context.Context, dbType, dbName string) (string, bool, error)
	Set(ctx context.Context, dbType, dbName, schema string) error
	FlushAll(ctx context.Context) (int64, error)
}

// Target identifies the database queries are generated for and run against
type Target struct {
	Type       string
	Connection database.ConnectionConfig
	Options    database.QueryOptions
}

// GenerateAndExecuteResult pairs a generated query with its result set
type GenerateAndExecuteResult struct {
	Query  string
	Result *database.QueryResult
}

// SQLService generates SQL through the configured provider and runs it
type SQLService struct {
	generator llm.Provider
	adapters  AdapterSource
	target    Target
	cache     SchemaCache
	logger    zerolog.Logger
}

// NewSQLService creates a new SQL service. cache may be nil.
func NewSQLService(generator llm.Provider, adapters AdapterSource, target Target, cache SchemaCache, logger zerolog.Logger) *SQLService {
	return &SQLService{
		generator: generator,
		adapters:  adapters,
		target:    target,
		cache:     cache,
		logger:    logger.With().Str("component", "sql_service").Logger(),
	}
}

// ProviderName returns the name of the active provider
func (s *SQLService) ProviderName() string {
	return s.generator.Name()
}

// GenerateSQL renders the schema context and asks the provider for a query
func (s *SQLService) GenerateSQL(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	schema, err := s.SchemaContext(ctx)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("prompt", prompt).Msg("generating SQL query")

	query, err := s.generator.GenerateSQLQuery(ctx, prompt, schema)
	if err != nil {
		return "", fmt.Errorf("failed to generate SQL: %w", err)
	}
	return query, nil
}

// Execute runs query against the target database without inspecting it
func (s *SQLService) Execute(ctx context.Context, query string) (*database.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	adapter, err := s.adapter(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := adapter.ExecuteQuery(ctx, query, s.target.Options)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	s.logger.Debug().
		Int("rows", result.RowCount).
		Bool("truncated", result.Truncated).
		Dur("elapsed", time.Since(start)).
		Msg("query executed")

	return result, nil
}

// GenerateAndExecute generates a query for prompt and runs it. Any failure fails the whole call.
func (s *SQLService) GenerateAndExecute(ctx context.Context, prompt string) (*GenerateAndExecuteResult, error) {
	query, err := s.GenerateSQL(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := s.Execute(ctx, query)
	if err != nil {
		return nil, err
	}

	return &GenerateAndExecuteResult{Query: query, Result: result}, nil
}

// SchemaContext returns the rendered schema, from cache when possible.
// Cache failures are logged and never fail the call.
func (s *SQLService) SchemaContext(ctx context.Context) (string, error) {
	dbName := s.target.Connection.Database

	if s.cache != nil {
		schema, ok, err := s.cache.Get(ctx, s.target.Type, dbName)
		if err != nil {
			s.logger.Warn().Err(err).Msg("schema cache read failed")
		} else if ok {
			return schema, nil
		}
	}

	adapter, err := s.adapter(ctx)
	if err != nil {
		return "", err
	}

	schema, err := adapter.SchemaContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get schema: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.target.Type, dbName, schema); err != nil {
			s.logger.Warn().Err(err).Msg("schema cache write failed")
		}
	}

	return schema, nil
}

// FlushSchemaCache drops every cached schema and reports how many were removed
func (s *SQLService) FlushSchemaCache(ctx context.Context) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.FlushAll(ctx)
}

// Ping verifies the target database is reachable
func (s *SQLService) Ping(ctx context.Context) error {
	adapter, err := s.adapter(ctx)
	if err != nil {
		return err
	}
	return adapter.HealthCheck(ctx)
}

func (s *SQLService) adapter(ctx context.Context) (database.Adapter, error) {
	adapter, err := s.adapters.GetAdapter(ctx, s.target.Type, s.target.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to get database adapter: %w", err)
	}
	return adapter, nil
}
