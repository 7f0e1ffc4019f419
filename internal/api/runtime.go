package api

import (
	"github.com/caravel-labs/caravel/internal/config"
	"github.com/caravel-labs/caravel/internal/infrastructure"
	"github.com/caravel-labs/caravel/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	Limits        config.LimitsConfig
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Knowledge: infra.Knowledge,
			UsageLog:  infra.UsageLog,
			LLM:       infra.LLM,
		},
		Pagination:    cfg.API.Pagination,
		Limits:        cfg.Limits,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
	}
}
