package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Column is one row of column metadata
type Column struct {
	Table        string
	Name         string
	DataType     string
	MaxLength    *int64
	IsNullable   string
	DefaultValue *string
}

// Relationship is one foreign key column pair
type Relationship struct {
	ForeignKey       string
	ParentTable      string
	ParentColumn     string
	ReferencedTable  string
	ReferencedColumn string
}

// RenderSchemaContext formats metadata as "Schema Details:" lines followed by
// "Relationships:" lines. NULL metadata renders as an empty value.
func RenderSchemaContext(columns []Column, relationships []Relationship) string {
	var sb strings.Builder

	sb.WriteString("Schema Details:\n")
	for _, c := range columns {
		fmt.Fprintf(&sb, "Table: %s, Column: %s, DataType: %s, MaxLength: %s, IsNullable: %s, DefaultValue: %s\n",
			c.Table, c.Name, c.DataType, formatLength(c.MaxLength), c.IsNullable, deref(c.DefaultValue))
	}

	sb.WriteString("\nRelationships:\n")
	for _, r := range relationships {
		fmt.Fprintf(&sb, "ForeignKey: %s, ParentTable: %s, ParentColumn: %s, ReferencedTable: %s, ReferencedColumn: %s\n",
			r.ForeignKey, r.ParentTable, r.ParentColumn, r.ReferencedTable, r.ReferencedColumn)
	}

	return sb.String()
}

func formatLength(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
