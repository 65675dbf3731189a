// Package server envuelve http.Server con arranque y apagado ordenado.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/chatgate/internal/observability/logger"
)

const shutdownTimeout = 10 * time.Second

// Server es el servidor HTTP del servicio.
type Server struct {
	srv *http.Server
}

// New creates a Server listening on addr with the given handler.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Run sirve hasta que el contexto se cancele, y entonces apaga con
// gracia: deja terminar los requests en vuelo hasta shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("http server listening", logger.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
