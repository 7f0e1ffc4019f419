// Package database opens and supervises the PostgreSQL connection pool.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/caravel-labs/caravel/pkg/lifecycle"
)

// System exposes the connection pool and hooks it into the lifecycle.
type System interface {
	Connection() *sql.DB
	Start(lc *lifecycle.Coordinator) error
}

type pool struct {
	db          *sql.DB
	logger      *slog.Logger
	pingTimeout time.Duration
}

// New configures a pgx-backed pool from cfg. The first network round
// trip happens during Start, not here; sql.Open only validates the DSN.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &pool{
		db:          db,
		logger:      logger.With("system", "database"),
		pingTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (p *pool) Connection() *sql.DB {
	return p.db
}

// Start registers a readiness ping on startup and pool close on shutdown.
// A failed ping is logged but does not abort startup; queries surface the
// connection error themselves.
func (p *pool) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		p.ping(lc.Context())
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := p.db.Close(); err != nil {
			p.logger.Error("pool close failed", "error", err)
			return
		}
		p.logger.Info("connection pool closed")
	})

	return nil
}

func (p *pool) ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.pingTimeout)
	defer cancel()

	if err := p.db.PingContext(ctx); err != nil {
		p.logger.Error("postgres unreachable", "error", err)
		return
	}
	p.logger.Info("postgres connection established")
}
