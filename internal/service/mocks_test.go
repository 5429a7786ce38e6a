package service

import (
	"context"

	"github.com/Rrens/sqlquery-ai/internal/database"
	"github.com/stretchr/testify/mock"
)

// MockLLMProvider mocks llm.Provider
type MockLLMProvider struct {
	mock.Mock
}

func (m *MockLLMProvider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockLLMProvider) GenerateSQLQuery(ctx context.Context, userPrompt, schemaContext string) (string, error) {
	args := m.Called(ctx, userPrompt, schemaContext)
	return args.String(0), args.Error(1)
}

// MockAdapter mocks database.Adapter
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) DatabaseType() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAdapter) Connect(ctx context.Context, config database.ConnectionConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

func (m *MockAdapter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockAdapter) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAdapter) SchemaContext(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockAdapter) ExecuteQuery(ctx context.Context, sql string, opts database.QueryOptions) (*database.QueryResult, error) {
	args := m.Called(ctx, sql, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*database.QueryResult), args.Error(1)
}

// MockAdapterSource mocks AdapterSource
type MockAdapterSource struct {
	mock.Mock
}

func (m *MockAdapterSource) GetAdapter(ctx context.Context, dbType string, config database.ConnectionConfig) (database.Adapter, error) {
	args := m.Called(ctx, dbType, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(database.Adapter), args.Error(1)
}

// MockSchemaCache mocks SchemaCache
type MockSchemaCache struct {
	mock.Mock
}

func (m *MockSchemaCache) Get(ctx context.Context, dbType, dbName string) (string, bool, error) {
	args := m.Called(ctx, dbType, dbName)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockSchemaCache) Set(ctx context.Context, dbType, dbName, schema string) error {
	args := m.Called(ctx, dbType, dbName, schema)
	return args.Error(0)
}

func (m *MockSchemaCache) FlushAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
