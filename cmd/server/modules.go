package main

import (
	"net/http"

	"github.com/caravel-labs/caravel/internal/api"
	"github.com/caravel-labs/caravel/internal/config"
	"github.com/caravel-labs/caravel/internal/infrastructure"
	"github.com/caravel-labs/caravel/pkg/handlers"
	"github.com/caravel-labs/caravel/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

// buildRouter wires the health probes outside the API module so load
// balancers can hit them without the module middleware stack.
func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()
	router.HandleNative("GET /healthz", liveness)
	router.HandleNative("GET /readyz", readiness(infra))
	return router
}

func liveness(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readiness(infra *infrastructure.Infrastructure) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
