package module

import (
	"net/http"
	"strings"
)

// Router routes requests to mounted modules by their first path segment
// and sends everything else to a native ServeMux.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// Mount registers a module under its prefix. A later Mount with the
// same prefix replaces the earlier one.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

// HandleNative registers a handler on the fallback mux, for routes that
// live outside any module (health probes and the like).
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	trimTrailingSlash(req)

	if m := r.match(req.URL.Path); m != nil {
		m.Serve(w, req)
		return
	}

	r.native.ServeHTTP(w, req)
}

func (r *Router) match(path string) *Module {
	if path == "" {
		return nil
	}
	seg := path
	if i := strings.IndexByte(path[1:], '/'); i >= 0 {
		seg = path[:i+1]
	}
	return r.modules[seg]
}

func trimTrailingSlash(req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}
}
