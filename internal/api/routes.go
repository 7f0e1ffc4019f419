package api

import (
	"net/http"

	"github.com/caravel-labs/caravel/internal/analyze"
	"github.com/caravel-labs/caravel/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	analyzeHandler := analyze.NewHandler(
		domain.Analyze,
		domain.Counter,
		domain.Limits,
		runtime.UsageLog,
		runtime.Logger,
		runtime.MaxUploadSize,
	)

	routes.Register(
		mux,
		analyzeHandler.Routes(),
		domain.Limits.Handler().Routes(),
	)
}
