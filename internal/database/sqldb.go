package database

import (
	"context"
	"database/sql"
	"fmt"
)

// QuerySchemaContext runs a column query and a relationship query against db
// and renders both. The column query must select table, column, data type,
// max length, nullability and default; the relationship query must select
// key name, parent table, parent column, referenced table, referenced column.
func QuerySchemaContext(ctx context.Context, db *sql.DB, columnsQuery, relationshipsQuery string, args ...any) (string, error) {
	rows, err := db.QueryContext(ctx, columnsQuery, args...)
	if err != nil {
		return "", fmt.Errorf("failed to get schema: %w", err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Table, &c.Name, &c.DataType, &c.MaxLength, &c.IsNullable, &c.DefaultValue); err != nil {
			return "", fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("column iteration error: %w", err)
	}

	relRows, err := db.QueryContext(ctx, relationshipsQuery, args...)
	if err != nil {
		return "", fmt.Errorf("failed to get relationships: %w", err)
	}
	defer relRows.Close()

	var relationships []Relationship
	for relRows.Next() {
		var r Relationship
		if err := relRows.Scan(&r.ForeignKey, &r.ParentTable, &r.ParentColumn, &r.ReferencedTable, &r.ReferencedColumn); err != nil {
			return "", fmt.Errorf("failed to scan relationship: %w", err)
		}
		relationships = append(relationships, r)
	}
	if err := relRows.Err(); err != nil {
		return "", fmt.Errorf("relationship iteration error: %w", err)
	}

	return RenderSchemaContext(columns, relationships), nil
}

// ExecuteSQL runs query on db without rewriting it and collects up to
// opts.MaxRows rows keyed by column name.
func ExecuteSQL(ctx context.Context, db *sql.DB, query string, opts QueryOptions) (*QueryResult, error) {
	ctx, cancel := WithTimeout(ctx, opts.Timeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	collector := newRowCollector(columns, opts.MaxRows)
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if !collector.add(values) {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return collector.result(), nil
}

type rowCollector struct {
	columns   []string
	maxRows   int
	rows      []map[string]any
	truncated bool
}

func newRowCollector(columns []string, maxRows int) *rowCollector {
	return &rowCollector{columns: columns, maxRows: maxRows, rows: []map[string]any{}}
}

// add records one row and reports whether more rows should be read
func (c *rowCollector) add(values []any) bool {
	if c.maxRows > 0 && len(c.rows) >= c.maxRows {
		c.truncated = true
		return false
	}

	row := make(map[string]any, len(c.columns))
	for i, name := range c.columns {
		v := values[i]
		// Convert []byte to string for better JSON serialization
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[name] = v
	}
	c.rows = append(c.rows, row)
	return true
}

func (c *rowCollector) result() *QueryResult {
	return &QueryResult{
		Columns:   c.columns,
		Rows:      c.rows,
		RowCount:  len(c.rows),
		Truncated: c.truncated,
	}
}

// CollectRows builds a QueryResult from already scanned rows
func CollectRows(columns []string, maxRows int, next func() ([]any, bool, error)) (*QueryResult, error) {
	collector := newRowCollector(columns, maxRows)
	for {
		values, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok || !collector.add(values) {
			break
		}
	}
	return collector.result(), nil
}
