package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/caravel-labs/caravel/pkg/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestStackOrdering(t *testing.T) {
	stack := middleware.New()
	var order []string
	stamp := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	stack.Use(stamp("first"))
	stack.Use(stamp("second"))

	w := httptest.NewRecorder()
	stack.Apply(okHandler()).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("middleware order = %v, want [first second]", order)
	}
}

func TestCORSDisabledPassesThrough(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: false, Origins: []string{"http://localhost:5173"}}
	handler := middleware.CORS(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty when disabled", got)
	}
	if w.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", w.Body.String())
	}
}

func TestCORSMatchingOrigin(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://localhost:5173"},
		AllowCredentials: true,
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	handler := middleware.CORS(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, PUT, DELETE, OPTIONS" {
		t.Errorf("Allow-Methods = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
		t.Errorf("Allow-Headers = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "3600" {
		t.Errorf("Max-Age = %q, want 3600", got)
	}
}

func TestCORSUnknownOrigin(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: true, Origins: []string{"http://localhost:5173"}}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	handler := middleware.CORS(cfg)(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty for unknown origin", got)
	}
	if w.Body.String() != "ok" {
		t.Error("request should still reach the handler")
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := &middleware.CORSConfig{Enabled: true, Origins: []string{"http://localhost:5173"}}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	handler := middleware.CORS(cfg)(next)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want 200", w.Code)
	}
	if called {
		t.Error("preflight should not reach the next handler")
	}
}

func TestCORSConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("TEST_CORS_MAX_AGE", "600")

	cfg := &middleware.CORSConfig{}
	env := &middleware.CORSEnv{
		Enabled: "TEST_CORS_ENABLED",
		Origins: "TEST_CORS_ORIGINS",
		MaxAge:  "TEST_CORS_MAX_AGE",
	}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if !cfg.Enabled {
		t.Error("Enabled = false, want true")
	}
	if len(cfg.Origins) != 2 || cfg.Origins[0] != "http://a.example" || cfg.Origins[1] != "http://b.example" {
		t.Errorf("Origins = %v", cfg.Origins)
	}
	if cfg.MaxAge != 600 {
		t.Errorf("MaxAge = %d, want 600", cfg.MaxAge)
	}
}

func TestCORSConfigMerge(t *testing.T) {
	base := &middleware.CORSConfig{
		Enabled: true,
		Origins: []string{"http://localhost:5173"},
		MaxAge:  3600,
	}
	base.Merge(&middleware.CORSConfig{
		Enabled: true,
		Origins: []string{"https://app.example.com"},
		MaxAge:  0,
	})

	if len(base.Origins) != 1 || base.Origins[0] != "https://app.example.com" {
		t.Errorf("Origins = %v, want overlay origins", base.Origins)
	}
	if base.MaxAge != 0 {
		t.Errorf("MaxAge = %d, want overlay value 0", base.MaxAge)
	}
}
