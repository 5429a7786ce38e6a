package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/sqlquery-ai/internal/api/response"
	"github.com/Rrens/sqlquery-ai/internal/database"
	"github.com/Rrens/sqlquery-ai/internal/service"
)

// SQLService is what the SQL endpoints need from the service layer
type SQLService interface {
	GenerateSQL(ctx context.Context, prompt string) (string, error)
	Execute(ctx context.Context, query string) (*database.QueryResult, error)
	GenerateAndExecute(ctx context.Context, prompt string) (*service.GenerateAndExecuteResult, error)
	SchemaContext(ctx context.Context) (string, error)
}

// QueryHandler handles the /api/sql endpoints
type QueryHandler struct {
	sqlService SQLService
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(sqlService SQLService) *QueryHandler {
	return &QueryHandler{sqlService: sqlService}
}

// Generate turns a prompt into a SQL query
func (h *QueryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req, err := decodePrompt(w, r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	query, err := h.sqlService.GenerateSQL(r.Context(), req.Prompt)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.OK(w, map[string]any{"query": query})
}

// Execute runs a SQL query as given
func (h *QueryHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, err := decodeQuery(w, r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	result, err := h.sqlService.Execute(r.Context(), req.Query)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"results":   result.Rows,
		"columns":   result.Columns,
		"row_count": result.RowCount,
		"truncated": result.Truncated,
	})
}

// GenerateAndExecute generates a query for a prompt and runs it
func (h *QueryHandler) GenerateAndExecute(w http.ResponseWriter, r *http.Request) {
	req, err := decodePrompt(w, r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		response.ValidationFailed(w, err)
		return
	}

	out, err := h.sqlService.GenerateAndExecute(r.Context(), req.Prompt)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"query":     out.Query,
		"results":   out.Result.Rows,
		"columns":   out.Result.Columns,
		"row_count": out.Result.RowCount,
		"truncated": out.Result.Truncated,
	})
}

// GetSchema returns the schema context handed to providers
func (h *QueryHandler) GetSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := h.sqlService.SchemaContext(r.Context())
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.OK(w, map[string]any{"schema": schema})
}
