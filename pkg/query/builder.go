package query

import (
	"fmt"
	"reflect"
	"strings"
)

// SortField is one column of an ORDER BY clause. Field is the logical
// name resolved through the ProjectionMap; Descending flips ASC to DESC.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses comma-separated sort syntax ("name,-createdAt")
// into SortField values. A "-" prefix marks a descending field. Empty
// input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: field, Descending: desc})
	}
	return fields
}

// Builder assembles SELECT statements against one ProjectionMap,
// numbering placeholders as conditions are added.
type Builder struct {
	projection  *ProjectionMap
	where       []string
	args        []any
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder over projection. defaultSort applies
// whenever OrderByFields is never called.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// WhereEquals appends an equality condition. Nil values are skipped so
// optional filters can be passed through unconditionally.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if nilValue(value) {
		return b
	}
	b.args = append(b.args, value)
	b.where = append(b.where, fmt.Sprintf("%s = $%d", b.projection.Column(field), len(b.args)))
	return b
}

// WhereSearch appends a case-insensitive substring match ORed across
// fields. Skipped when search is nil or empty.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	clauses := make([]string, len(fields))
	for i, field := range fields {
		b.args = append(b.args, pattern)
		clauses[i] = fmt.Sprintf("%s ILIKE $%d", b.projection.Column(field), len(b.args))
	}

	b.where = append(b.where, "("+strings.Join(clauses, " OR ")+")")
	return b
}

// OrderByFields overrides the default sort order.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// Build returns the full SELECT with conditions and ordering.
func (b *Builder) Build() (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(),
		b.projection.From(),
		b.whereClause(),
		b.orderClause(),
	)
	return sql, b.args
}

// BuildCount returns a COUNT(*) over the same conditions.
func (b *Builder) BuildCount() (string, []any) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.From(), b.whereClause())
	return sql, b.args
}

// BuildPage returns the SELECT with LIMIT/OFFSET for the given page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(),
		b.projection.From(),
		b.whereClause(),
		b.orderClause(),
		pageSize,
		(page-1)*pageSize,
	)
	return sql, b.args
}

// BuildSingle returns a SELECT for one record by its ID field, ignoring
// any accumulated conditions.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.From(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

func (b *Builder) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func (b *Builder) orderClause() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func nilValue(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
