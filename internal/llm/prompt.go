package llm

import (
	"encoding/json"
	"strings"
)

const (
	// SystemInstruction fixes the assistant's role for every provider
	SystemInstruction = "You are a SQL assistant. Generate SQL queries based on the given schema and relationships."

	// JSONOnlyInstruction asserts the output shape for providers without native structured output
	JSONOnlyInstruction = "You must respond with a valid JSON object that contains only a 'query' property with your SQL query as a string."

	// QuerySchemaName names the structured output format sent to OpenAI-compatible APIs
	QuerySchemaName = "sql_query_generation"
)

// QuerySchema is the strict single-field JSON schema the reply must follow
var QuerySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {
      "type": "string",
      "description": "A fully-formed SQL query that satisfies the user request."
    }
  },
  "required": ["query"],
  "additionalProperties": false
}`)

// SchemaInstruction embeds the schema context verbatim
func SchemaInstruction(schemaContext string) string {
	return "Schema and Relationships:\n" + schemaContext
}

// ExtractionStage records which rule produced the extracted query
type ExtractionStage string

const (
	StageJSON  ExtractionStage = "json"
	StageFence ExtractionStage = "fence"
	StageRaw   ExtractionStage = "raw"
)

const (
	sqlFence   = "```sql"
	closeFence = "```"
)

// ExtractQuery recovers a SQL string from a provider reply
func ExtractQuery(raw string) string {
	query, _ := ExtractQueryStage(raw)
	return query
}

// ExtractQueryStage recovers a SQL string from a provider reply and reports which rule matched.
// A JSON object with a string "query" field wins and is returned verbatim. Otherwise the
// trimmed interior of the first ```sql fence is used. Otherwise raw is returned unchanged.
func ExtractQueryStage(raw string) (string, ExtractionStage) {
	if query, ok := queryFromJSON(raw); ok {
		return query, StageJSON
	}
	if query, ok := queryFromFence(raw); ok {
		return query, StageFence
	}
	return raw, StageRaw
}

func queryFromJSON(raw string) (string, bool) {
	// Field lookup is case-sensitive, unlike struct tag matching
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", false
	}
	value, ok := fields["query"]
	if !ok {
		return "", false
	}
	var query *string
	if err := json.Unmarshal(value, &query); err != nil || query == nil {
		return "", false
	}
	return *query, true
}

func queryFromFence(raw string) (string, bool) {
	start := strings.Index(raw, sqlFence)
	if start == -1 {
		return "", false
	}
	start += len(sqlFence)

	end := strings.Index(raw[start:], closeFence)
	if end <= 0 {
		return "", false
	}

	return strings.TrimSpace(raw[start : start+end]), true
}
