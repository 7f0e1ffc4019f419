package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/caravel-labs/caravel/internal/config"
	"github.com/caravel-labs/caravel/pkg/lifecycle"
)

type httpServer struct {
	srv          *http.Server
	logger       *slog.Logger
	drainTimeout time.Duration
}

func newHTTPServer(cfg *config.Config, handler http.Handler, logger *slog.Logger) *httpServer {
	return &httpServer{
		srv: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
			WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		},
		logger:       logger.With("system", "http"),
		drainTimeout: cfg.ShutdownTimeoutDuration(),
	}
}

// Start launches the listener and registers a shutdown hook that
// drains in-flight requests once the lifecycle context is cancelled.
func (s *httpServer) Start(lc *lifecycle.Coordinator) error {
	go s.listen()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.drain()
	})

	return nil
}

func (s *httpServer) listen() {
	s.logger.Info("listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("listener failed", "error", err)
	}
}

func (s *httpServer) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), s.drainTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("drain failed", "error", err)
		return
	}
	s.logger.Info("listener stopped")
}
