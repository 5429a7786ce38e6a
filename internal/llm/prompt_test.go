package llm_test

import (
	"encoding/json"
	"testing"

	"github.com/Rrens/sqlquery-ai/internal/llm"
)

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
		stage    llm.ExtractionStage
	}{
		{
			"json object",
			`{"query":"SELECT * FROM users"}`,
			"SELECT * FROM users",
			llm.StageJSON,
		},
		{
			"json keeps whitespace and semicolon",
			`{"query":"  SELECT 1;\n"}`,
			"  SELECT 1;\n",
			llm.StageJSON,
		},
		{
			"json with surrounding whitespace",
			"\n  {\"query\": \"SELECT id FROM orders\"}  \n",
			"SELECT id FROM orders",
			llm.StageJSON,
		},
		{
			"json with extra fields",
			`{"query":"SELECT 1","explanation":"constant"}`,
			"SELECT 1",
			llm.StageJSON,
		},
		{
			"json empty query",
			`{"query":""}`,
			"",
			llm.StageJSON,
		},
		{
			"sql fence",
			"```sql\nSELECT * FROM users\n```",
			"SELECT * FROM users",
			llm.StageFence,
		},
		{
			"sql fence after prose",
			"Here is the query:\n```sql\nSELECT u.id, COUNT(o.id)\nFROM users u\nLEFT JOIN orders o ON u.id = o.user_id\nGROUP BY u.id\n```\nHope it helps.",
			"SELECT u.id, COUNT(o.id)\nFROM users u\nLEFT JOIN orders o ON u.id = o.user_id\nGROUP BY u.id",
			llm.StageFence,
		},
		{
			"first sql fence wins",
			"```sql\nSELECT 1\n```\n```sql\nSELECT 2\n```",
			"SELECT 1",
			llm.StageFence,
		},
		{
			"json inside sql fence is not parsed as json",
			"```sql\n{\"query\":\"SELECT 1\"}\n```",
			`{"query":"SELECT 1"}`,
			llm.StageFence,
		},
		{
			"missing query field uses fence",
			"{\"sql\":\"SELECT 1\"} ```sql SELECT 2 ```",
			"SELECT 2",
			llm.StageFence,
		},
		{
			"unterminated fence returns raw",
			"```sql\nSELECT * FROM users",
			"```sql\nSELECT * FROM users",
			llm.StageRaw,
		},
		{
			"empty fence returns empty interior",
			"```sql\n```",
			"",
			llm.StageFence,
		},
		{
			"whitespace-only fence returns empty interior",
			"```sql   \n  ```",
			"",
			llm.StageFence,
		},
		{
			"capitalized query key is not the json field",
			`{"Query":"SELECT 2"}`,
			`{"Query":"SELECT 2"}`,
			llm.StageRaw,
		},
		{
			"upper-case query key is not the json field",
			`{"QUERY":"DROP TABLE x"}`,
			`{"QUERY":"DROP TABLE x"}`,
			llm.StageRaw,
		},
		{
			"null query value",
			`{"query":null}`,
			`{"query":null}`,
			llm.StageRaw,
		},
		{
			"generic fence returns raw",
			"```\nSELECT 1\n```",
			"```\nSELECT 1\n```",
			llm.StageRaw,
		},
		{
			"plain prose",
			"I cannot answer that.",
			"I cannot answer that.",
			llm.StageRaw,
		},
		{
			"non-string query",
			`{"query": 42}`,
			`{"query": 42}`,
			llm.StageRaw,
		},
		{
			"json array",
			`["SELECT 1"]`,
			`["SELECT 1"]`,
			llm.StageRaw,
		},
		{
			"json null",
			`null`,
			`null`,
			llm.StageRaw,
		},
		{
			"empty input",
			"",
			"",
			llm.StageRaw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, stage := llm.ExtractQueryStage(tt.content)
			if result != tt.expected {
				t.Errorf("ExtractQueryStage() = %q, want %q", result, tt.expected)
			}
			if stage != tt.stage {
				t.Errorf("ExtractQueryStage() stage = %q, want %q", stage, tt.stage)
			}
			if got := llm.ExtractQuery(tt.content); got != tt.expected {
				t.Errorf("ExtractQuery() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractQuery_JSONRoundTrip(t *testing.T) {
	queries := []string{
		"SELECT 1",
		"SELECT \"name\" FROM \"users\" WHERE note = 'a\\b'",
		"SELECT *\nFROM t\n\tWHERE x > 1;",
		"```sql SELECT 1```",
		"  padded  ",
		"SELECT '日本語'",
	}

	for _, q := range queries {
		body, err := json.Marshal(map[string]string{"query": q})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if got := llm.ExtractQuery(string(body)); got != q {
			t.Errorf("ExtractQuery(%s) = %q, want %q", body, got, q)
		}
	}
}

func TestExtractQuery_NeverEmptyForNonEmptyInput(t *testing.T) {
	inputs := []string{" ", "```sql", "```sql```", "```sql   ```", "{", "{\"query\"", "text"}

	for _, in := range inputs {
		if got := llm.ExtractQuery(in); got == "" {
			t.Errorf("ExtractQuery(%q) returned empty string", in)
		}
	}
}

func TestSchemaInstruction(t *testing.T) {
	schema := "Schema Details:\nTable: users, Column: id"
	want := "Schema and Relationships:\n" + schema

	if got := llm.SchemaInstruction(schema); got != want {
		t.Errorf("SchemaInstruction() = %q, want %q", got, want)
	}
}

func TestQuerySchemaIsStrictSingleField(t *testing.T) {
	var schema struct {
		Type                 string                     `json:"type"`
		Properties           map[string]json.RawMessage `json:"properties"`
		Required             []string                   `json:"required"`
		AdditionalProperties bool                       `json:"additionalProperties"`
	}
	if err := json.Unmarshal(llm.QuerySchema, &schema); err != nil {
		t.Fatalf("QuerySchema is not valid JSON: %v", err)
	}

	if schema.Type != "object" {
		t.Errorf("type = %q, want object", schema.Type)
	}
	if _, ok := schema.Properties["query"]; !ok || len(schema.Properties) != 1 {
		t.Errorf("properties = %v, want only query", schema.Properties)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "query" {
		t.Errorf("required = %v, want [query]", schema.Required)
	}
	if schema.AdditionalProperties {
		t.Error("additionalProperties should be false")
	}
}
