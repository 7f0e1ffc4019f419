package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/caravel-labs/caravel/pkg/pagination"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d, want 20", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 100 {
		t.Errorf("MaxPageSize = %d, want 100", cfg.MaxPageSize)
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_PAGE_DEFAULT", "25")
	t.Setenv("TEST_PAGE_MAX", "50")

	cfg := pagination.Config{}
	env := &pagination.ConfigEnv{
		DefaultPageSize: "TEST_PAGE_DEFAULT",
		MaxPageSize:     "TEST_PAGE_MAX",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.DefaultPageSize != 25 || cfg.MaxPageSize != 50 {
		t.Errorf("sizes = %d/%d, want 25/50", cfg.DefaultPageSize, cfg.MaxPageSize)
	}
}

func TestConfigValidateRejectsInvertedSizes(t *testing.T) {
	cfg := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("Finalize accepted default_page_size > max_page_size")
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	cfg := pagination.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	tests := []struct {
		name         string
		rawQuery     string
		wantPage     int
		wantPageSize int
		wantSearch   string
		wantSortLen  int
	}{
		{"defaults", "", 1, 20, "", 0},
		{"explicit", "page=3&page_size=10", 3, 10, "", 0},
		{"clamped to max", "page_size=500", 1, 100, "", 0},
		{"negative page", "page=-2", 1, 20, "", 0},
		{"search and sort", "search=teether&sort=name,-created_at", 1, 20, "teether", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.rawQuery)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}

			req := pagination.PageRequestFromQuery(values, cfg)
			if req.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", req.Page, tt.wantPage)
			}
			if req.PageSize != tt.wantPageSize {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.wantPageSize)
			}
			if tt.wantSearch == "" && req.Search != nil {
				t.Errorf("Search = %q, want nil", *req.Search)
			}
			if tt.wantSearch != "" && (req.Search == nil || *req.Search != tt.wantSearch) {
				t.Errorf("Search = %v, want %q", req.Search, tt.wantSearch)
			}
			if len(req.Sort) != tt.wantSortLen {
				t.Errorf("len(Sort) = %d, want %d", len(req.Sort), tt.wantSortLen)
			}
		})
	}
}

func TestSortFieldsUnmarshalString(t *testing.T) {
	var req pagination.PageRequest
	if err := json.Unmarshal([]byte(`{"sort":"name,-created_at"}`), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(req.Sort) != 2 {
		t.Fatalf("len(Sort) = %d, want 2", len(req.Sort))
	}
	if req.Sort[0].Field != "name" || req.Sort[0].Descending {
		t.Errorf("Sort[0] = %+v, want ascending name", req.Sort[0])
	}
	if req.Sort[1].Field != "created_at" || !req.Sort[1].Descending {
		t.Errorf("Sort[1] = %+v, want descending created_at", req.Sort[1])
	}
}

func TestSortFieldsUnmarshalArray(t *testing.T) {
	var req pagination.PageRequest
	raw := `{"sort":[{"Field":"reason","Descending":true}]}`
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(req.Sort) != 1 || req.Sort[0].Field != "reason" || !req.Sort[0].Descending {
		t.Errorf("Sort = %+v", req.Sort)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{"exact pages", 40, 20, 2},
		{"partial last page", 41, 20, 3},
		{"empty", 0, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pagination.NewPageResult[string](nil, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
			if result.Data == nil {
				t.Error("Data = nil, want empty slice")
			}
		})
	}
}
