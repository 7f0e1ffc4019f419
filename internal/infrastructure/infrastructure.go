// Package infrastructure provides core service initialization for application
// startup. It assembles the common dependencies (logging, database, knowledge
// store, usage log, model client) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caravel-labs/caravel/internal/config"
	"github.com/caravel-labs/caravel/internal/knowledge"
	"github.com/caravel-labs/caravel/internal/usagelog"
	"github.com/caravel-labs/caravel/pkg/database"
	"github.com/caravel-labs/caravel/pkg/lifecycle"
	"github.com/caravel-labs/caravel/pkg/llm"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, the knowledge store, and the usage log.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Knowledge *knowledge.Store
	UsageLog  *usagelog.Writer
	LLM       llm.Client
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := knowledge.NewStore(
		cfg.Knowledge.CompliancePath,
		cfg.Knowledge.VettingPath,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("knowledge store init failed: %w", err)
	}

	client, err := llm.New(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm client init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Knowledge: store,
		UsageLog:  usagelog.NewWriter(cfg.UsageLog.Path, cfg.UsageLog.BufferSize, logger),
		LLM:       client,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.UsageLog.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("usage log start failed: %w", err)
	}
	return nil
}
