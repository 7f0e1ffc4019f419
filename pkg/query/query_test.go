package query_test

import (
	"testing"

	"github.com/caravel-labs/caravel/pkg/query"
)

func eventMap() *query.ProjectionMap {
	return query.NewProjectionMap("public", "limit_events", "e").
		Project("id", "id").
		Project("user_id", "userId").
		Project("reason", "reason").
		Project("created_at", "createdAt")
}

func TestProjectionMap(t *testing.T) {
	pm := eventMap()

	if got := pm.From(); got != "public.limit_events e" {
		t.Errorf("From() = %q", got)
	}
	if got := pm.Column("userId"); got != "e.user_id" {
		t.Errorf("Column(userId) = %q", got)
	}
	if got := pm.Column("unmapped"); got != "unmapped" {
		t.Errorf("Column(unmapped) = %q, want passthrough", got)
	}
	if got := pm.Columns(); got != "e.id, e.user_id, e.reason, e.created_at" {
		t.Errorf("Columns() = %q", got)
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{"empty", "", nil},
		{"single ascending", "reason", []query.SortField{{Field: "reason"}}},
		{"descending", "-createdAt", []query.SortField{{Field: "createdAt", Descending: true}}},
		{
			"mixed with spaces",
			" reason , -createdAt ",
			[]query.SortField{{Field: "reason"}, {Field: "createdAt", Descending: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	sql, args := query.NewBuilder(eventMap(), query.SortField{Field: "createdAt", Descending: true}).Build()

	want := "SELECT e.id, e.user_id, e.reason, e.created_at FROM public.limit_events e ORDER BY e.created_at DESC"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	sql, args := query.NewBuilder(eventMap()).
		WhereEquals("reason", "anonymous_daily_limit").
		WhereEquals("userId", "u-123").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.limit_events e WHERE e.reason = $1 AND e.user_id = $2"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != "anonymous_daily_limit" || args[1] != "u-123" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderWhereEqualsSkipsNil(t *testing.T) {
	var userID *string
	sql, args := query.NewBuilder(eventMap()).WhereEquals("userId", userID).BuildCount()

	if sql != "SELECT COUNT(*) FROM public.limit_events e" {
		t.Errorf("sql = %q, want no WHERE clause", sql)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuilderWhereSearch(t *testing.T) {
	search := "teether"
	sql, args := query.NewBuilder(eventMap()).
		WhereSearch(&search, "reason", "userId").
		BuildCount()

	want := "SELECT COUNT(*) FROM public.limit_events e WHERE (e.reason ILIKE $1 OR e.user_id ILIKE $2)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != "%teether%" {
		t.Errorf("args = %v", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	sql, _ := query.NewBuilder(eventMap(), query.SortField{Field: "createdAt", Descending: true}).
		BuildPage(3, 20)

	want := "SELECT e.id, e.user_id, e.reason, e.created_at FROM public.limit_events e ORDER BY e.created_at DESC LIMIT 20 OFFSET 40"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuilderOrderByOverridesDefault(t *testing.T) {
	sql, _ := query.NewBuilder(eventMap(), query.SortField{Field: "createdAt", Descending: true}).
		OrderByFields([]query.SortField{{Field: "reason"}}).
		Build()

	want := "SELECT e.id, e.user_id, e.reason, e.created_at FROM public.limit_events e ORDER BY e.reason ASC"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	sql, args := query.NewBuilder(eventMap()).BuildSingle("id", "abc-123")

	want := "SELECT e.id, e.user_id, e.reason, e.created_at FROM public.limit_events e WHERE e.id = $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 || args[0] != "abc-123" {
		t.Errorf("args = %v", args)
	}
}
