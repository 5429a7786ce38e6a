package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Rrens/sqlquery-ai/internal/database"
	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSchema = "Schema Details:\nTable: Customers, Column: Id, DataType: int, MaxLength: , IsNullable: NO, DefaultValue: \n\nRelationships:\n"

var testTarget = Target{
	Type:       "sqlserver",
	Connection: database.ConnectionConfig{Host: "db", Port: 1433, Database: "Northwind"},
	Options:    database.QueryOptions{MaxRows: 100},
}

type fixture struct {
	provider *MockLLMProvider
	adapter  *MockAdapter
	source   *MockAdapterSource
	cache    *MockSchemaCache
}

func newFixture() *fixture {
	f := &fixture{
		provider: new(MockLLMProvider),
		adapter:  new(MockAdapter),
		source:   new(MockAdapterSource),
		cache:    new(MockSchemaCache),
	}
	f.source.On("GetAdapter", mock.Anything, "sqlserver", testTarget.Connection).Return(f.adapter, nil).Maybe()
	return f
}

func (f *fixture) service(withCache bool) *SQLService {
	var cache SchemaCache
	if withCache {
		cache = f.cache
	}
	return NewSQLService(f.provider, f.source, testTarget, cache, zerolog.Nop())
}

func TestSQLService_GenerateSQL(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.adapter.On("SchemaContext", mock.Anything).Return(testSchema, nil).Once()
	f.provider.On("GenerateSQLQuery", mock.Anything, "count customers", testSchema).Return("SELECT COUNT(*) FROM Customers", nil)

	query, err := f.service(false).GenerateSQL(ctx, "count customers")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM Customers", query)

	f.adapter.AssertExpectations(t)
	f.provider.AssertExpectations(t)
}

func TestSQLService_GenerateSQL_EmptyPrompt(t *testing.T) {
	f := newFixture()

	_, err := f.service(false).GenerateSQL(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	f.provider.AssertNotCalled(t, "GenerateSQLQuery", mock.Anything, mock.Anything, mock.Anything)
}

func TestSQLService_GenerateSQL_ProviderError(t *testing.T) {
	f := newFixture()
	perr := &llm.ProviderError{Provider: "openai", Kind: llm.KindStatus, StatusCode: 500, Err: errors.New("Internal Server Error")}

	f.adapter.On("SchemaContext", mock.Anything).Return(testSchema, nil)
	f.provider.On("GenerateSQLQuery", mock.Anything, "q", testSchema).Return("", perr)

	_, err := f.service(false).GenerateSQL(context.Background(), "q")
	require.Error(t, err)

	got, ok := llm.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, "openai", got.Provider)
}

func TestSQLService_SchemaContext_UsesCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.cache.On("Get", mock.Anything, "sqlserver", "Northwind").Return(testSchema, true, nil)

	schema, err := f.service(true).SchemaContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSchema, schema)
	f.adapter.AssertNotCalled(t, "SchemaContext", mock.Anything)
}

func TestSQLService_SchemaContext_FillsCacheOnMiss(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.cache.On("Get", mock.Anything, "sqlserver", "Northwind").Return("", false, nil)
	f.adapter.On("SchemaContext", mock.Anything).Return(testSchema, nil)
	f.cache.On("Set", mock.Anything, "sqlserver", "Northwind", testSchema).Return(nil)

	schema, err := f.service(true).SchemaContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSchema, schema)
	f.cache.AssertExpectations(t)
}

func TestSQLService_SchemaContext_CacheFailuresAreNotFatal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.cache.On("Get", mock.Anything, "sqlserver", "Northwind").Return("", false, errors.New("redis down"))
	f.adapter.On("SchemaContext", mock.Anything).Return(testSchema, nil)
	f.cache.On("Set", mock.Anything, "sqlserver", "Northwind", testSchema).Return(errors.New("redis down"))

	schema, err := f.service(true).SchemaContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, testSchema, schema)
}

func TestSQLService_SchemaContext_AdapterUnavailable(t *testing.T) {
	source := new(MockAdapterSource)
	source.On("GetAdapter", mock.Anything, "sqlserver", testTarget.Connection).Return(nil, errors.New("login failed"))

	svc := NewSQLService(new(MockLLMProvider), source, testTarget, nil, zerolog.Nop())
	_, err := svc.SchemaContext(context.Background())
	assert.ErrorContains(t, err, "failed to get database adapter: login failed")
}

func TestSQLService_Execute(t *testing.T) {
	f := newFixture()
	want := &database.QueryResult{
		Columns:  []string{"Id"},
		Rows:     []map[string]any{{"Id": int64(1)}},
		RowCount: 1,
	}

	f.adapter.On("ExecuteQuery", mock.Anything, "SELECT Id FROM Customers", testTarget.Options).Return(want, nil)

	got, err := f.service(false).Execute(context.Background(), "SELECT Id FROM Customers")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestSQLService_Execute_Errors(t *testing.T) {
	f := newFixture()
	svc := f.service(false)

	_, err := svc.Execute(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	cause := errors.New("Invalid object name 'Nope'")
	f.adapter.On("ExecuteQuery", mock.Anything, "SELECT * FROM Nope", testTarget.Options).Return(nil, cause)

	_, err = svc.Execute(context.Background(), "SELECT * FROM Nope")
	assert.ErrorIs(t, err, cause)
	assert.ErrorContains(t, err, "error executing query")
}

func TestSQLService_GenerateAndExecute(t *testing.T) {
	f := newFixture()
	result := &database.QueryResult{Columns: []string{"n"}, Rows: []map[string]any{{"n": int64(91)}}, RowCount: 1}

	f.adapter.On("SchemaContext", mock.Anything).Return(testSchema, nil)
	f.provider.On("GenerateSQLQuery", mock.Anything, "how many customers", testSchema).Return("SELECT COUNT(*) AS n FROM Customers", nil)
	f.adapter.On("ExecuteQuery", mock.Anything, "SELECT COUNT(*) AS n FROM Customers", testTarget.Options).Return(result, nil)

	got, err := f.service(false).GenerateAndExecute(context.Background(), "how many customers")
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) AS n FROM Customers", got.Query)
	assert.Same(t, result, got.Result)
}

func TestSQLService_GenerateAndExecute_ExecutionFailureFailsCall(t *testing.T) {
	f := newFixture()

	f.adapter.On("SchemaContext", mock.Anything).Return(testSchema, nil)
	f.provider.On("GenerateSQLQuery", mock.Anything, "p", testSchema).Return("Sorry, I cannot help with that.", nil)
	f.adapter.On("ExecuteQuery", mock.Anything, "Sorry, I cannot help with that.", testTarget.Options).Return(nil, errors.New("Incorrect syntax near 'Sorry'"))

	got, err := f.service(false).GenerateAndExecute(context.Background(), "p")
	assert.Nil(t, got)
	assert.ErrorContains(t, err, "Incorrect syntax")
}

func TestSQLService_FlushAndPing(t *testing.T) {
	f := newFixture()

	n, err := f.service(false).FlushSchemaCache(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	f.cache.On("FlushAll", mock.Anything).Return(int64(3), nil)
	n, err = f.service(true).FlushSchemaCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	f.adapter.On("HealthCheck", mock.Anything).Return(nil)
	assert.NoError(t, f.service(false).Ping(context.Background()))

	f.provider.On("Name").Return("claude")
	assert.Equal(t, "claude", f.service(false).ProviderName())
}
