// AngelaMos | 2026
// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelamos/wholesale-api/internal/config"
	"github.com/angelamos/wholesale-api/internal/health"
)

type Server struct {
	httpServer    *http.Server
	router        chi.Router
	healthHandler *health.Handler
	logger        *slog.Logger
}

type Config struct {
	ServerConfig  config.ServerConfig
	HealthHandler *health.Handler
	Logger        *slog.Logger
}

func New(cfg Config) *Server {
	router := chi.NewRouter()

	return &Server{
		httpServer: &http.Server{
			Addr: fmt.Sprintf(
				"%s:%d",
				cfg.ServerConfig.Host,
				cfg.ServerConfig.Port,
			),
			Handler:      router,
			ReadTimeout:  cfg.ServerConfig.ReadTimeout,
			WriteTimeout: cfg.ServerConfig.WriteTimeout,
			IdleTimeout:  cfg.ServerConfig.IdleTimeout,
		},
		router:        router,
		healthHandler: cfg.HealthHandler,
		logger:        cfg.Logger,
	}
}

func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown flips readiness first and waits drainDelay so load balancers
// stop routing new traffic before in-flight requests are cut off.
func (s *Server) Shutdown(ctx context.Context, drainDelay time.Duration) error {
	if s.healthHandler != nil {
		s.healthHandler.SetShutdown(true)
	}

	s.logger.Info("draining connections", "delay", drainDelay)

	select {
	case <-time.After(drainDelay):
	case <-ctx.Done():
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("http server stopped")
	return nil
}
