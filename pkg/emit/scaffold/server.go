package scaffold

// renderServer renders src/server.go: a graceful-shutdown HTTP server
// wrapper, grounded on agentoven-agentoven/control-plane/cmd/server/
// main.go's signal.Notify + http.Server.Shutdown(ctx) sequence.
func renderServer() string {
	return `package src

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// Server wraps an http.Server with graceful shutdown on SIGINT/SIGTERM.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewServer builds a Server bound to cfg.ServerAddress, serving handler.
func NewServer(cfg *Config, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		shutdownTimeout: time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second,
	}
}

// Run blocks serving HTTP until SIGINT/SIGTERM, then shuts down
// gracefully within ShutdownTimeoutSeconds (SHUTDOWN_TIMEOUT_SECONDS,
// default 15).
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpServer.Addr).Msg("listening")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info().Msg("shutting down gracefully")
		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
}
`
}
