// Package module composes prefix-mounted HTTP modules, each carrying
// its own router and middleware stack.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/caravel-labs/caravel/pkg/middleware"
)

// Module owns a single-level path prefix. Requests reaching it have the
// prefix stripped before the inner router sees them.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
}

// New creates a Module mounted at prefix (e.g. "/api"). Panics when the
// prefix is empty, lacks a leading slash, or spans multiple segments:
// mount points are wiring, and bad wiring should fail at startup.
func New(prefix string, router http.Handler) *Module {
	if err := checkPrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Prefix returns the mount point.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Handler returns the inner router wrapped in the middleware stack.
func (m *Module) Handler() http.Handler {
	return m.middleware.Apply(m.router)
}

// Serve dispatches req to the inner router with the prefix stripped.
// The incoming request is cloned so upstream handlers keep seeing the
// original path.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	stripped := req.Clone(req.Context())
	stripped.URL.Path = innerPath(req.URL.Path, m.prefix)
	stripped.URL.RawPath = ""

	m.Handler().ServeHTTP(w, stripped)
}

func innerPath(full, prefix string) string {
	path := strings.TrimPrefix(full, prefix)
	if path == "" {
		return "/"
	}
	return path
}

func checkPrefix(prefix string) error {
	switch {
	case len(prefix) < 2:
		return fmt.Errorf("module prefix %q too short", prefix)
	case prefix[0] != '/':
		return fmt.Errorf("module prefix %q must start with /", prefix)
	case strings.ContainsRune(prefix[1:], '/'):
		return fmt.Errorf("module prefix %q must be a single path segment", prefix)
	}
	return nil
}
