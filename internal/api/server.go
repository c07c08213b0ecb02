// Package api provides the HTTP front-end for the TV controller.
//
// It serves the remote-control web page grandma taps on and a small JSON
// API behind it. Commands run through the shared tvcontrol.Service, so the
// web page competes for the same single-command gate as every other
// front-end.
//
// The server follows the same lifecycle pattern as the other components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Martin09/GrandmaTVController/internal/infrastructure/config"
	"github.com/Martin09/GrandmaTVController/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown. A command mid-wake can legitimately hold a
// request for a while, so this is longer than a typical API server's.
const gracefulShutdownTimeout = 30 * time.Second

// Commander executes named actions. *tvcontrol.Service satisfies it.
type Commander interface {
	Execute(ctx context.Context, actionName string) (string, error)
	Actions() []string
}

// Deps holds the dependencies required by the HTTP server.
type Deps struct {
	Config    config.WebConfig
	Logger    *logging.Logger
	Commander Commander
	Metrics   bool // expose /metrics when true
	Version   string
}

// Server is the HTTP front-end server.
type Server struct {
	cfg       config.WebConfig
	logger    *logging.Logger
	commander Commander
	metrics   bool
	version   string
	page      []byte
	server    *http.Server
}

// New creates an HTTP server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing or the page fails to render
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Commander == nil {
		return nil, fmt.Errorf("commander is required")
	}

	page, err := renderRemotePage(deps.Config.Buttons)
	if err != nil {
		return nil, fmt.Errorf("rendering remote page: %w", err)
	}

	return &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		commander: deps.Commander,
		metrics:   deps.Metrics,
		version:   deps.Version,
		page:      page,
	}, nil
}

// Start begins listening for HTTP connections in a background goroutine.
// The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("web server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("web server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the HTTP server, waiting for in-flight
// requests to complete.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("web server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	return nil
}

// HealthCheck verifies the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("web health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("web server not started")
	}
	return nil
}
