// Package query builds SQL statements from logical field names mapped
// onto table columns.
package query

import "strings"

// ProjectionMap resolves logical view-property names to qualified
// column references (alias.column) for one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	byName  map[string]string
	ordered []string
}

// NewProjectionMap starts a projection over schema.table with alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		byName: make(map[string]string),
	}
}

// Project maps a database column to a view property name. Call order
// fixes the column order in SELECT lists.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byName[viewName] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// From returns the aliased table reference for a FROM clause.
func (p *ProjectionMap) From() string {
	return p.schema + "." + p.table + " " + p.alias
}

// Column resolves a view property to its qualified column. Unmapped
// names pass through unchanged.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.byName[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns the comma-separated SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}
